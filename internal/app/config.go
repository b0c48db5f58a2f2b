package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8090"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://nginx/api/v1"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	RedisAddr  string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	EventSharedChannel string `envconfig:"EVENT_SHARED_CHANNEL" default:"orders"`
	EventTenantPrefix  string `envconfig:"EVENT_TENANT_PREFIX" default:"restaurant."`

	NotificationCapacity int `envconfig:"NOTIFICATION_CAPACITY" default:"50"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("platform API base URL must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the console runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
