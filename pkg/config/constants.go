package config

const EnvPrefix = "THREADLINE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	PersistBackendRedis  = "redis"
	PersistBackendFile   = "file"
	PersistBackendMemory = "memory"
)

const (
	EnvAppEnv         = "THREADLINE_APP_ENV"
	EnvAppPort        = "THREADLINE_APP_PORT"
	EnvDBDriver       = "THREADLINE_DB_DRIVER"
	EnvDBDSN          = "THREADLINE_DB_DSN"
	EnvDBSQLitePath   = "THREADLINE_DB_SQLITE_PATH"
	EnvRedisURL       = "THREADLINE_REDIS_URL"
	EnvPersistBackend = "THREADLINE_PERSIST_BACKEND"
	EnvPersistFileDir = "THREADLINE_PERSIST_FILE_DIR"
)
