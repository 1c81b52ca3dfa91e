// Package cli provides the kvauth command-line client.
//
// Commands (see NewRootCommand):
//   - register / login: prompt for a username and a password (no echo) and
//     print the token issued by the server
//   - validate [token]: ask the server whether a token is valid
//   - whoami [token]: print the username bound to a token
//   - ping: check that the server is reachable
//
// Configuration comes from the config package and may be overridden with
// the --config, --addr and --timeout flags.
package cli
