package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "STOREFRONT_APP_ENV"
	EnvLogLevel  = "STOREFRONT_LOG_LEVEL"
	EnvLogFormat = "STOREFRONT_LOG_FORMAT"

	EnvUserAPIURL    = "STOREFRONT_USER_API_URL"
	EnvCartAPIURL    = "STOREFRONT_CART_API_URL"
	EnvProductAPIURL = "STOREFRONT_PRODUCT_API_URL"
	EnvOrderAPIURL   = "STOREFRONT_ORDER_API_URL"
	EnvHTTPTimeout   = "STOREFRONT_HTTP_TIMEOUT"

	EnvStorageDriver  = "STOREFRONT_STORAGE_DRIVER"
	EnvStorageSQLPath = "STOREFRONT_STORAGE_SQL_PATH"

	StorageDriverMemory = "memory"
	StorageDriverSQL    = "sql"
	StorageDriverRedis  = "redis"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvRedisAddr = "STOREFRONT_REDIS_ADDR"

	EnvCartMode           = "STOREFRONT_CART_MODE"
	EnvCartFallbackUserID = "STOREFRONT_CART_FALLBACK_USER_ID"

	EnvSandboxPort = "STOREFRONT_SANDBOX_PORT"
	EnvDBDriver    = "STOREFRONT_SANDBOX_DB_DRIVER"
	EnvDBDSN       = "STOREFRONT_SANDBOX_DB_DSN"
	EnvDBHost      = "STOREFRONT_SANDBOX_DB_HOST"
	EnvDBUser      = "STOREFRONT_SANDBOX_DB_USER"
	EnvDBName      = "STOREFRONT_SANDBOX_DB_NAME"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	EnvJWTSecret = "STOREFRONT_SANDBOX_JWT_SECRET"
	EnvJWTIssuer = "STOREFRONT_SANDBOX_JWT_ISSUER"
)

var serviceURLEnvVars = []string{
	EnvUserAPIURL,
	EnvCartAPIURL,
	EnvProductAPIURL,
	EnvOrderAPIURL,
}

var postgresDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
