package config

// EnvPrefix namespaces every environment variable consumed by envconfig.
const EnvPrefix = "SOURCING"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "SOURCING_DB_DSN"
	EnvDBHost = "SOURCING_DB_HOST"
	EnvDBUser = "SOURCING_DB_USER"
	EnvDBName = "SOURCING_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
