// Package common contains shared constants and sentinel errors used across
// kvauth components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SaltLength is the number of alphanumeric characters in a generated salt.
const SaltLength = 32
