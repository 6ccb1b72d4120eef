package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/haven/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private in-memory haven database with the schema
// migrated, closed at test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database, nil)
}
