package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App AppConfig
	UCP UCPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"UCPSHOPPER_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"UCPSHOPPER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"UCPSHOPPER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UCPConfig carries the protocol identity and transport settings used on
// every merchant request.
type UCPConfig struct {
	MerchantURL      string        `envconfig:"UCPSHOPPER_MERCHANT_URL"`
	AgentProfile     string        `envconfig:"UCPSHOPPER_AGENT_PROFILE" default:"profile=\"https://ucp-shopper.example/profile\""`
	RequestSignature string        `envconfig:"UCPSHOPPER_REQUEST_SIGNATURE" default:"unsigned"`
	HTTPTimeout      time.Duration `envconfig:"UCPSHOPPER_HTTP_TIMEOUT" default:"30s"`
	DefaultCurrency  string        `envconfig:"UCPSHOPPER_DEFAULT_CURRENCY" default:"USD"`
}
