// Package api declares the kvauth.AuthService RPC surface shared by the
// gRPC server and client: message types, method names, the service
// descriptor and a JSON codec registered under the "json" content subtype.
package api
