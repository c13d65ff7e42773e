package db

import "embed"

// MigrationsFS holds the embedded schema migrations, shared with testutil so
// test databases match production schema.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
