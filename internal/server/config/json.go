package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/kvauth/internal/flagx"
	"github.com/dmitrijs2005/kvauth/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept "168h" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	StoreBackend          string         `json:"store_backend"`
	Namespace             string         `json:"namespace"`
	DatabaseDSN           string         `json:"database_dsn"`
	SigningSeed           string         `json:"signing_seed"`
	SigningKeyID          string         `json:"signing_key_id"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	LogLevel              string         `json:"log_level"`
	LogFormat             string         `json:"log_format"`
}

// parseJson overlays values from the file named by -c / -config. Keys that
// are missing from the file leave the current value untouched. An
// unreadable or invalid file panics, like a bad flag does.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.Namespace, c.Namespace)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SigningSeed, c.SigningSeed)
	setString(&config.SigningKeyID, c.SigningKeyID)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
