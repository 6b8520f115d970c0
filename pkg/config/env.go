package config

const EnvPrefix = "SHOPFRONT"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "SHOPFRONT_APP_ENV"
	EnvPort       = "SHOPFRONT_APP_PORT"
	EnvDBDSN      = "SHOPFRONT_DB_DSN"
	EnvDBHost     = "SHOPFRONT_DB_HOST"
	EnvDBUser     = "SHOPFRONT_DB_USER"
	EnvDBName     = "SHOPFRONT_DB_NAME"
	EnvRedisURL   = "SHOPFRONT_REDIS_URL"
	EnvJWTSecret  = "SHOPFRONT_AUTH_JWT_SECRET"
	EnvUseSQLite  = "SHOPFRONT_USE_SQLITE"
	EnvProPeriod  = "SHOPFRONT_PLAN_PRO_PERIOD_DAYS"
	EnvSearchTTL  = "SHOPFRONT_SEARCH_CORPUS_TTL"
	EnvSquareEnv  = "SHOPFRONT_SQUARE_ENV"
	EnvLogFormat  = "SHOPFRONT_LOG_FORMAT"
	EnvVerifyPays = "SHOPFRONT_VERIFY_PAYMENTS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
