package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnify/learnify/internal/db"
)

// NewTestDB opens an in-memory SQLite database with all migrations
// applied. The single-connection limit set by db.Open keeps the
// in-memory database alive for the whole test.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
