package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig lists the KVAUTH_* variables read at startup. Only variables
// that are set override the current value.
type EnvConfig struct {
	StoreBackend          string        `envconfig:"STORE_BACKEND"`
	DatabaseDSN           string        `envconfig:"DATABASE_DSN"`
	SigningSeed           string        `envconfig:"SIGNING_SEED"`
	SigningKeyID          string        `envconfig:"SIGNING_KEY_ID"`
	TokenValidityDuration time.Duration `envconfig:"TOKEN_VALIDITY_DURATION"`
	S3RootUser            string        `envconfig:"S3_ROOT_USER"`
	S3RootPassword        string        `envconfig:"S3_ROOT_PASSWORD"`
}

// parseEnv overlays secrets and backend settings from the environment. A
// malformed value panics.
func parseEnv(config *Config) {
	e := &EnvConfig{}
	if err := envconfig.Process("kvauth", e); err != nil {
		panic(err)
	}

	setString(&config.StoreBackend, e.StoreBackend)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SigningSeed, e.SigningSeed)
	setString(&config.SigningKeyID, e.SigningKeyID)
	if e.TokenValidityDuration > 0 {
		config.TokenValidityDuration = e.TokenValidityDuration
	}
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
}
