package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens an in-memory database with the full gil tracking schema
// (characters, retainers, the record tables and meta) applied, and closes it
// when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}

	if err := EnsureSchema(database); err != nil {
		database.Close()
		t.Fatalf("applying schema: %v", err)
	}

	t.Cleanup(func() { database.Close() })

	return database
}
