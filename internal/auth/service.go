package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/distributech/distributech-backend/pkg/auth"
	"github.com/distributech/distributech-backend/pkg/auth/session"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/db/models"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
	"github.com/distributech/distributech-backend/pkg/logger"
	"github.com/distributech/distributech-backend/pkg/security"
)

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates the session tied to an access token's jti.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UserStore is the slice of the users repository the auth flow needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// SessionManager handles refresh token lifecycles keyed by jti.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// RateLimiter applies a fixed window counter per scope. A nil limiter
// disables throttling.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, clientIP string, req LoginRequest) (*TokenPair, *models.User, error)
	Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type service struct {
	users    UserStore
	sessions SessionManager
	limiter  RateLimiter
	logg     *logger.Logger
	jwtCfg   config.JWTConfig
	rateCfg  config.AuthRateLimitConfig
}

// NewService wires authentication dependencies. The limiter may be nil.
func NewService(users UserStore, sessions SessionManager, limiter RateLimiter, logg *logger.Logger, jwtCfg config.JWTConfig, rateCfg config.AuthRateLimitConfig) (Service, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user store required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session manager required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		users:    users,
		sessions: sessions,
		limiter:  limiter,
		logg:     logg,
		jwtCfg:   jwtCfg,
		rateCfg:  rateCfg,
	}, nil
}

// Login checks credentials and issues a token pair. Failed lookups and bad
// passwords share one error so usernames cannot be probed.
func (s *service) Login(ctx context.Context, clientIP string, req LoginRequest) (*TokenPair, *models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password required")
	}

	if err := s.checkRateLimits(ctx, username, clientIP); err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, invalidCredentials()
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, security.ErrInvalidHash) {
			s.logg.Error(ctx, "stored password hash is malformed", err)
			return nil, nil, invalidCredentials()
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, nil, invalidCredentials()
	}
	if !user.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logg.Error(ctx, "touch last login failed", err)
	}
	return pair, user, nil
}

// Refresh rotates the refresh token and re-mints the access token with the
// claims carried by the expired one.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	access, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:       claims.UserID,
		Username:     claims.Username,
		Role:         claims.Role,
		DepartmentID: claims.DepartmentID,
		JTI:          newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: newRefresh,
		ExpiresIn:    s.expiresIn(),
	}, nil
}

// Logout revokes the session tied to the token's jti. Expired tokens can
// still log out.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	if user.Role == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user has no role loaded")
	}

	accessID := session.NewAccessID()
	dept := user.DepartmentID
	access, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role.Name,
		DepartmentID: &dept,
		JTI:          accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.expiresIn(),
	}, nil
}

func (s *service) checkRateLimits(ctx context.Context, username, clientIP string) error {
	if s.limiter == nil {
		return nil
	}

	window := s.rateCfg.LoginWindow
	if window <= 0 {
		return nil
	}

	scopes := []struct {
		scope string
		limit int64
	}{
		{"login:user:" + strings.ToLower(username), int64(s.rateCfg.LoginUsernameLimit)},
		{"login:ip:" + clientIP, int64(s.rateCfg.LoginIPLimit)},
	}
	for _, sc := range scopes {
		if sc.limit <= 0 || strings.HasSuffix(sc.scope, ":") {
			continue
		}
		allowed, _, err := s.limiter.FixedWindowAllow(ctx, sc.scope, sc.limit, window)
		if err != nil {
			s.logg.Error(ctx, "rate limit check failed", err)
			continue
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
		}
	}
	return nil
}

func (s *service) expiresIn() int64 {
	return int64(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute / time.Second)
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
}
