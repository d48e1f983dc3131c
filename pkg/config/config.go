package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "SMARTSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names, kept as constants so tests can set them.
const (
	EnvAppEnv     = "SMARTSHOP_APP_ENV"
	EnvLogLevel   = "SMARTSHOP_LOG_LEVEL"
	EnvAPIBaseURL = "SMARTSHOP_API_BASE_URL"
	EnvStatePath  = "SMARTSHOP_STATE_PATH"
)

type Config struct {
	App       AppConfig
	API       APIConfig
	State     StateConfig
	Chat      ChatConfig
	Analytics AnalyticsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SMARTSHOP_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SMARTSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SMARTSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL string        `envconfig:"SMARTSHOP_API_BASE_URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"SMARTSHOP_API_TIMEOUT" default:"10s"`
}

type StateConfig struct {
	// Path holds the sqlite file backing durable client state (the anonymous
	// session id). Authenticated identity is never written there.
	Path string `envconfig:"SMARTSHOP_STATE_PATH" default:"smartshop.db"`
}

type ChatConfig struct {
	RevealInterval time.Duration `envconfig:"SMARTSHOP_CHAT_REVEAL_INTERVAL" default:"40ms"`
}

type AnalyticsConfig struct {
	BufferSize   int           `envconfig:"SMARTSHOP_ANALYTICS_BUFFER_SIZE" default:"64"`
	CloseTimeout time.Duration `envconfig:"SMARTSHOP_ANALYTICS_CLOSE_TIMEOUT" default:"2s"`
}
