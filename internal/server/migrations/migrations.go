// Package migrations embeds the goose SQL migrations for the PostgreSQL
// credential store.
package migrations

import "embed"

// Migrations holds the *.sql files applied by repomanager.
//
//go:embed *.sql
var Migrations embed.FS
