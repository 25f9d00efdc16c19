package config

// EnvPrefix is passed to envconfig; tags carry the full variable names.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, kept in one place so tests and deploy
// manifests reference the same strings.
const (
	EnvAppEnv       = "UCPSHOPPER_APP_ENV"
	EnvLogLevel     = "UCPSHOPPER_LOG_LEVEL"
	EnvLogWarnStack = "UCPSHOPPER_LOG_WARN_STACK"

	EnvMerchantURL      = "UCPSHOPPER_MERCHANT_URL"
	EnvAgentProfile     = "UCPSHOPPER_AGENT_PROFILE"
	EnvRequestSignature = "UCPSHOPPER_REQUEST_SIGNATURE"
	EnvHTTPTimeout      = "UCPSHOPPER_HTTP_TIMEOUT"
	EnvDefaultCurrency  = "UCPSHOPPER_DEFAULT_CURRENCY"
)
