// Package migrations embeds the sqlite schema migrations for the
// persisted client-state store.
package migrations

import "embed"

//go:embed *.sql
var MigrationsFS embed.FS
