// Package commentable loads the object an annotation is attached to.
package commentable

import (
	"context"
	"database/sql"

	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ObjectTypes lists every object type annotations can be attached to.
var ObjectTypes = []string{
	models.SearchKindEntry,
	models.SearchKindTopic,
	models.SearchKindLetter,
	models.SearchKindArticle,
	models.SearchKindPost,
}

func newModel(objectType string) (models.Commentable, bool) {
	switch objectType {
	case models.SearchKindEntry:
		return &models.Entry{}, true
	case models.SearchKindTopic:
		return &models.Topic{}, true
	case models.SearchKindLetter:
		return &models.Letter{}, true
	case models.SearchKindArticle:
		return &models.Article{}, true
	case models.SearchKindPost:
		return &models.Post{}, true
	}
	return nil, false
}

// Load fetches the object of the given type and id. Unknown types and missing
// rows are both reported as not found.
func Load(ctx context.Context, db bun.IDB, objectType string, id int) (models.Commentable, error) {
	obj, ok := newModel(objectType)
	if !ok {
		return nil, errcodes.NotFound("Object")
	}

	err := db.NewSelect().
		Model(obj).
		Where("? = ?", bun.Ident("id"), id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Object")
		}
		return nil, errors.WithStack(err)
	}
	return obj, nil
}

// Table returns the table that stores objectType.
func Table(objectType string) (string, bool) {
	switch objectType {
	case models.SearchKindEntry:
		return "entries", true
	case models.SearchKindTopic:
		return "topics", true
	case models.SearchKindLetter:
		return "letters", true
	case models.SearchKindArticle:
		return "articles", true
	case models.SearchKindPost:
		return "posts", true
	}
	return "", false
}
