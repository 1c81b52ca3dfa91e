// Package client contains the client side of kvauth.AuthService.
//
// GRPCClient manages a connection that speaks the JSON content subtype,
// remembers the token returned by Register or Login and attaches it as
// access_token metadata to later calls. Status codes are mapped to
// sentinel errors that callers match with errors.Is: ErrUnavailable,
// ErrUnauthorized, and common.ErrAlreadyExists / common.ErrInvalidRequest.
package client
