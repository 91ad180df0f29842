package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "DISTRIBUTECH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "DISTRIBUTECH_APP_ENV"
	EnvPort       = "DISTRIBUTECH_APP_PORT"
	EnvDBDSN      = "DISTRIBUTECH_DB_DSN"
	EnvDBHost     = "DISTRIBUTECH_DB_HOST"
	EnvDBUser     = "DISTRIBUTECH_DB_USER"
	EnvDBName     = "DISTRIBUTECH_DB_NAME"
	EnvRedisURL   = "DISTRIBUTECH_REDIS_URL"
	EnvJWTSecret  = "DISTRIBUTECH_JWT_SECRET"
	EnvJWTIssuer  = "DISTRIBUTECH_JWT_ISSUER"
	EnvJWTExpMins = "DISTRIBUTECH_JWT_EXPIRATION_MINUTES"
	EnvSMTPHost   = "DISTRIBUTECH_SMTP_HOST"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
