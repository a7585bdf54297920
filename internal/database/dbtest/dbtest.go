// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/helpify-project/messageboard/internal/database"
)

func Open(t *testing.T) *bun.DB {
	t.Helper()
	req := require.New(t)

	db, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	req.NoError(database.MigrateUp(db))
	return db
}
