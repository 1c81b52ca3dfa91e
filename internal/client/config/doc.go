// Package config loads runtime configuration for the kvauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see LoadJSON), selected with --config.
//  3. KVAUTH_CLIENT_* environment variables (see LoadEnv).
//  4. Command-line flags bound by the cli package.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s"
//	}
package config
