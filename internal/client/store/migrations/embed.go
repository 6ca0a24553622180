// Package migrations embeds the goose SQL migrations for the local store.
// Migrations are additive only: new tables may be added, existing tables are
// never dropped or narrowed on a version bump.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
