package controllers

import (
	"net/http"
	"strings"

	"github.com/distributech/distributech-backend/api/middleware"
	"github.com/distributech/distributech-backend/api/responses"
	"github.com/distributech/distributech-backend/api/validators"
	authsvc "github.com/distributech/distributech-backend/internal/auth"
	"github.com/distributech/distributech-backend/pkg/db/models"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
	"github.com/distributech/distributech-backend/pkg/logger"
)

type loginResponse struct {
	authsvc.TokenPair
	User *models.User `json:"user"`
}

// Login exchanges credentials for a token pair.
func Login(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, user, err := svc.Login(r.Context(), middleware.ClientIP(r), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user.PasswordHash = ""
		responses.WriteSuccess(w, loginResponse{TokenPair: *pair, User: user})
	}
}

// RefreshToken rotates the refresh session and re-mints the access token.
func RefreshToken(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.RefreshRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.Refresh(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pair)
	}
}

// Logout revokes the session behind the presented access token.
func Logout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("Authorization"))
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged out"})
	}
}
