// Package migrations embeds the SQL migrations applied by store.Migrate.
package migrations

import "embed"

// FS holds all *.sql migration files.
//
//go:embed *.sql
var FS embed.FS
