package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig lists the KVAUTH_CLIENT_* variables.
type EnvConfig struct {
	ServerEndpointAddr string        `envconfig:"SERVER_ADDR"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT"`
}

// LoadEnv overlays cfg with the variables that are set.
func LoadEnv(cfg *Config) error {
	var e EnvConfig
	if err := envconfig.Process("kvauth_client", &e); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if e.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = e.ServerEndpointAddr
	}
	if e.RequestTimeout > 0 {
		cfg.RequestTimeout = e.RequestTimeout
	}
	return nil
}
