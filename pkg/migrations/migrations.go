// Package migrations holds the schema as Go migrations registered from init
// functions in this package.
package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// NewMigrator returns a migrator over every registered migration.
func NewMigrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, Migrations)
}

// BringUpToDate applies every pending migration while holding the migration
// lock, so the API and the migrations CLI never migrate at the same time. The
// returned group is zero when nothing was pending.
func BringUpToDate(ctx context.Context, db *bun.DB) (group *migrate.MigrationGroup, err error) {
	migrator := NewMigrator(db)
	if err := migrator.Init(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, errors.Wrap(err, "migrations are locked by another process")
	}
	defer func() {
		if unlockErr := migrator.Unlock(ctx); unlockErr != nil && err == nil {
			err = errors.WithStack(unlockErr)
		}
	}()

	group, err = migrator.Migrate(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return group, nil
}
