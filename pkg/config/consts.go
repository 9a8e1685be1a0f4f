package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// KIBIDO_-prefixed names so the prefix stays informational.
const EnvPrefix = "kibido"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv         = "KIBIDO_APP_ENV"
	EnvPort           = "KIBIDO_APP_PORT"
	EnvDBDSN          = "KIBIDO_DB_DSN"
	EnvDBHost         = "KIBIDO_DB_HOST"
	EnvDBUser         = "KIBIDO_DB_USER"
	EnvDBName         = "KIBIDO_DB_NAME"
	EnvRedisURL       = "KIBIDO_REDIS_URL"
	EnvJWTSecret      = "KIBIDO_JWT_SECRET"
	EnvJWTIssuer      = "KIBIDO_JWT_ISSUER"
	EnvJWTExpMins     = "KIBIDO_JWT_EXPIRATION_MINUTES"
	EnvWhatsAppNumber = "KIBIDO_WHATSAPP_NUMBER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
