package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port            int           `envconfig:"PORT" default:"3000"`
	CORSOrigins     string        `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	StaticDir       string        `envconfig:"STATIC_DIR" default:"./client"`
	DefaultRoom     string        `envconfig:"DEFAULT_ROOM" default:"general"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
