package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pepysdiary/pepysdiary/pkg/commentable"
	"github.com/pepysdiary/pepysdiary/pkg/htmlutil"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

type Result struct {
	Kind     string  `bun:"kind" json:"kind"`
	ObjectID int     `bun:"object_id" json:"object_id"`
	URL      string  `bun:"url" json:"url"`
	Title    string  `bun:"title" json:"title"`
	Snippet  string  `bun:"snippet" json:"snippet"`
	Score    float64 `bun:"score" json:"-"`
}

type SearchOptions struct {
	Query  string
	Kind   *string
	Limit  int
	Offset int
}

// Search returns documents matching every word of the query, best first.
// Title matches count ten times as much as body matches.
func (svc *Service) Search(ctx context.Context, opts SearchOptions) ([]*Result, int, error) {
	results := []*Result{}

	ftsQuery := BuildTermsQuery(opts.Query)
	if ftsQuery == "" {
		return results, 0, nil
	}

	filter := func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("search_documents MATCH ?", ftsQuery)
		if opts.Kind != nil {
			q = q.Where("kind = ?", *opts.Kind)
		}
		return q
	}

	err := filter(svc.db.NewSelect().TableExpr("search_documents")).
		ColumnExpr("kind, object_id, url, title").
		ColumnExpr("snippet(search_documents, -1, '<b>', '</b>', '…', 30) AS snippet").
		ColumnExpr("bm25(search_documents, 0.0, 0.0, 0.0, 10.0, 1.0) AS score").
		OrderExpr("score ASC").
		OrderExpr("kind ASC, object_id ASC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Scan(ctx, &results)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	var total int
	err = filter(svc.db.NewSelect().TableExpr("search_documents")).
		ColumnExpr("count(*)").
		Scan(ctx, &total)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return results, total, nil
}

// Index replaces obj's search document. Objects that shouldn't be public
// (drafts, hidden annotations) are removed from the index instead.
func (svc *Service) Index(ctx context.Context, db bun.IDB, obj models.Indexable, url string) error {
	if err := svc.Remove(ctx, db, obj.SearchKind(), obj.SearchObjectID()); err != nil {
		return err
	}

	if v, ok := obj.(interface{ IsVisible() bool }); ok && !v.IsVisible() {
		return nil
	}
	if p, ok := obj.(interface{ IsPublished() bool }); ok && !p.IsPublished() {
		return nil
	}

	var title, body []string
	for _, c := range obj.IndexComponents() {
		text := htmlutil.StripTags(c.Text)
		if text == "" {
			continue
		}
		if c.Weight == models.IndexWeightA {
			title = append(title, text)
		} else {
			body = append(body, text)
		}
	}

	_, err := db.NewRaw(
		"INSERT INTO search_documents (kind, object_id, url, title, body) VALUES (?, ?, ?, ?, ?)",
		obj.SearchKind(), obj.SearchObjectID(), url, strings.Join(title, " "), strings.Join(body, "\n"),
	).Exec(ctx)
	return errors.WithStack(err)
}

// Remove deletes the search document for an object, if there is one.
func (svc *Service) Remove(ctx context.Context, db bun.IDB, kind string, objectID int) error {
	_, err := db.NewRaw(
		"DELETE FROM search_documents WHERE kind = ? AND object_id = ?",
		kind, objectID,
	).Exec(ctx)
	return errors.WithStack(err)
}

// RebuildAll empties the index and indexes every searchable object again. It
// returns how many documents of each kind were written.
func (svc *Service) RebuildAll(ctx context.Context) (map[string]int, error) {
	log := logger.FromContext(ctx)
	counts := map[string]int{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("DELETE FROM search_documents").Exec(ctx); err != nil {
			return errors.WithStack(err)
		}

		var topics []*models.Topic
		if err := tx.NewSelect().Model(&topics).Scan(ctx); err != nil {
			return errors.WithStack(err)
		}
		for _, t := range topics {
			if err := svc.Index(ctx, tx, t, t.AbsoluteURL()); err != nil {
				return err
			}
		}
		counts[models.SearchKindTopic] = len(topics)

		var entries []*models.Entry
		if err := tx.NewSelect().Model(&entries).Scan(ctx); err != nil {
			return errors.WithStack(err)
		}
		for _, e := range entries {
			if err := svc.Index(ctx, tx, e, e.AbsoluteURL()); err != nil {
				return err
			}
		}
		counts[models.SearchKindEntry] = len(entries)

		var letters []*models.Letter
		if err := tx.NewSelect().Model(&letters).Scan(ctx); err != nil {
			return errors.WithStack(err)
		}
		for _, l := range letters {
			if err := svc.Index(ctx, tx, l, l.AbsoluteURL()); err != nil {
				return err
			}
		}
		counts[models.SearchKindLetter] = len(letters)

		var articles []*models.Article
		err := tx.NewSelect().Model(&articles).Where("a.status = ?", models.StatusPublished).Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, a := range articles {
			if err := svc.Index(ctx, tx, a, a.AbsoluteURL()); err != nil {
				return err
			}
		}
		counts[models.SearchKindArticle] = len(articles)

		var posts []*models.Post
		err = tx.NewSelect().Model(&posts).Where("po.status = ?", models.StatusPublished).Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, p := range posts {
			if err := svc.Index(ctx, tx, p, p.AbsoluteURL()); err != nil {
				return err
			}
		}
		counts[models.SearchKindPost] = len(posts)

		var annotations []*models.Annotation
		err = tx.NewSelect().
			Model(&annotations).
			Where("an.is_public = ?", true).
			Where("an.is_removed = ?", false).
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		parentURLs := map[string]string{}
		for _, a := range annotations {
			key := fmt.Sprintf("%s:%d", a.ObjectType, a.ObjectID)
			parentURL, ok := parentURLs[key]
			if !ok {
				parent, err := commentable.Load(ctx, tx, a.ObjectType, a.ObjectID)
				if err != nil {
					log.Warn("skipping annotation on missing object", logger.Data{"annotation_id": a.ID, "object_type": a.ObjectType, "object_id": a.ObjectID})
					continue
				}
				parentURL = parent.AbsoluteURL()
				parentURLs[key] = parentURL
			}
			if err := svc.Index(ctx, tx, a, AnnotationURL(parentURL, a)); err != nil {
				return err
			}
			counts[models.SearchKindAnnotation]++
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Info("rebuilt search index", logger.Data{"counts": counts})
	return counts, nil
}

// AnnotationURL links to an annotation on its object's page.
func AnnotationURL(parentURL string, a *models.Annotation) string {
	return parentURL + "#" + a.Anchor()
}
