package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "BLOOMSTOCK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv  = "BLOOMSTOCK_APP_ENV"
	EnvAppPort = "BLOOMSTOCK_APP_PORT"

	EnvDBDSN  = "BLOOMSTOCK_DB_DSN"
	EnvDBHost = "BLOOMSTOCK_DB_HOST"
	EnvDBUser = "BLOOMSTOCK_DB_USER"
	EnvDBName = "BLOOMSTOCK_DB_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
