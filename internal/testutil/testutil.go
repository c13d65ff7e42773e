package testutil

import (
	"database/sql"
	"sort"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/ksen/caseflash/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied, matching the production schema.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// Each pooled connection would otherwise get its own empty in-memory
	// database.
	database.SetMaxOpenConns(1)

	entries, err := db.MigrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := db.MigrationsFS.ReadFile("migrations/" + name)
		require.NoError(t, err, "failed to read migration %s", name)
		_, err = database.Exec(string(script))
		require.NoError(t, err, "failed to apply migration %s", name)
	}

	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
