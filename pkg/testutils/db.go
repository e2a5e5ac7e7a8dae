// Package testutils holds helpers shared by package tests: an in-memory
// database with every migration applied, and fixture builders.
package testutils

import (
	"context"
	"testing"

	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/database"
	"github.com/pepysdiary/pepysdiary/pkg/migrations"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// SetupDB returns a migrated in-memory database that is closed when the test
// ends.
func SetupDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
