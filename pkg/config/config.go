package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	SMTP          SMTPConfig
	Mail          MailConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DISTRIBUTECH_APP_ENV" required:"true"`
	Port         string `envconfig:"DISTRIBUTECH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DISTRIBUTECH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DISTRIBUTECH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DISTRIBUTECH_DB_DSN"`
	Driver string `envconfig:"DISTRIBUTECH_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DISTRIBUTECH_DB_HOST"`
	Port     int    `envconfig:"DISTRIBUTECH_DB_PORT" default:"5432"`
	User     string `envconfig:"DISTRIBUTECH_DB_USER"`
	Password string `envconfig:"DISTRIBUTECH_DB_PASSWORD"`
	Name     string `envconfig:"DISTRIBUTECH_DB_NAME"`
	SSLMode  string `envconfig:"DISTRIBUTECH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DISTRIBUTECH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DISTRIBUTECH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DISTRIBUTECH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DISTRIBUTECH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DISTRIBUTECH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DISTRIBUTECH_REDIS_ADDR"`
	Password     string        `envconfig:"DISTRIBUTECH_REDIS_PASSWORD"`
	DB           int           `envconfig:"DISTRIBUTECH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DISTRIBUTECH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DISTRIBUTECH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DISTRIBUTECH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DISTRIBUTECH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DISTRIBUTECH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DISTRIBUTECH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DISTRIBUTECH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DISTRIBUTECH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DISTRIBUTECH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DISTRIBUTECH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DISTRIBUTECH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DISTRIBUTECH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DISTRIBUTECH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DISTRIBUTECH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"DISTRIBUTECH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"DISTRIBUTECH_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"DISTRIBUTECH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type SMTPConfig struct {
	Host     string `envconfig:"DISTRIBUTECH_SMTP_HOST"`
	Port     int    `envconfig:"DISTRIBUTECH_SMTP_PORT" default:"587"`
	Username string `envconfig:"DISTRIBUTECH_SMTP_USER"`
	Password string `envconfig:"DISTRIBUTECH_SMTP_PASSWORD"`
	UseTLS   bool   `envconfig:"DISTRIBUTECH_SMTP_USE_TLS" default:"true"`
	From     string `envconfig:"DISTRIBUTECH_SMTP_FROM" default:"noreply@distributech.io"`
}

type MailConfig struct {
	QueueSize   int           `envconfig:"DISTRIBUTECH_MAIL_QUEUE_SIZE" default:"128"`
	Workers     int           `envconfig:"DISTRIBUTECH_MAIL_WORKERS" default:"4"`
	OpsMailbox  string        `envconfig:"DISTRIBUTECH_MAIL_OPS_MAILBOX" default:"inventory@distributech.io"`
	SendTimeout time.Duration `envconfig:"DISTRIBUTECH_MAIL_SEND_TIMEOUT" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DISTRIBUTECH_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
