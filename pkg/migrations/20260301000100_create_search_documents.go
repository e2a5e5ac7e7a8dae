package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		// kind, object_id and url identify the indexed row and aren't
		// searchable.
		_, err := db.Exec(`
			CREATE VIRTUAL TABLE search_documents USING fts5(
				kind UNINDEXED,
				object_id UNINDEXED,
				url UNINDEXED,
				title,
				body,
				tokenize = 'porter unicode61 remove_diacritics 2'
			)
`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS search_documents")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
