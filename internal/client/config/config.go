package config

import "time"

// Config holds runtime settings for the kvauth CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - RequestTimeout: deadline applied to every RPC.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// Load applies defaults, then the JSON file at path (if non-empty), then
// the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := LoadJSON(cfg, path); err != nil {
		return nil, err
	}
	if err := LoadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
