package indepth

import (
	"context"
	"database/sql"
	"time"

	"github.com/gosimple/slug"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/markup"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type RetrieveArticleOptions struct {
	ID *int
	// Day and Slug address an article the way its URL does. Day matches any
	// publication time on that calendar day.
	Day           *time.Time
	Slug          *string
	PublishedOnly bool
}

type ListArticlesOptions struct {
	Limit         *int
	Offset        *int
	PublishedOnly bool

	includeTotal bool
}

type UpdateArticleOptions struct {
	Columns []string
}

type Service struct {
	db            *bun.DB
	searchService *search.Service
}

func NewService(db *bun.DB, searchService *search.Service) *Service {
	return &Service{db: db, searchService: searchService}
}

func render(article *models.Article) error {
	html, err := markup.Render(article.Intro)
	if err != nil {
		return err
	}
	article.IntroHTML = html

	html, err = markup.Render(article.Text)
	if err != nil {
		return err
	}
	article.TextHTML = html
	return nil
}

func (svc *Service) CreateArticle(ctx context.Context, article *models.Article) error {
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.Slug == "" {
		article.Slug = slug.Make(article.Title)
	}
	if article.Status == "" {
		article.Status = models.StatusDraft
	}
	if article.DatePublished.IsZero() {
		article.DatePublished = now
	}

	if err := render(article); err != nil {
		return err
	}

	if _, err := svc.db.NewInsert().Model(article).Returning("id").Exec(ctx); err != nil {
		return errors.WithStack(err)
	}

	svc.index(ctx, article)
	return nil
}

func (svc *Service) RetrieveArticle(ctx context.Context, opts RetrieveArticleOptions) (*models.Article, error) {
	article := &models.Article{}

	q := svc.db.
		NewSelect().
		Model(article)

	if opts.ID != nil {
		q = q.Where("a.id = ?", *opts.ID)
	}
	if opts.Day != nil {
		q = q.Where("a.date_published >= ?", *opts.Day).
			Where("a.date_published < ?", opts.Day.AddDate(0, 0, 1))
	}
	if opts.Slug != nil {
		q = q.Where("a.slug = ?", *opts.Slug)
	}
	if opts.PublishedOnly {
		q = q.Where("a.status = ?", models.StatusPublished)
	}

	err := q.Order("a.id ASC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Article")
		}
		return nil, errors.WithStack(err)
	}

	return article, nil
}

func (svc *Service) ListArticles(ctx context.Context, opts ListArticlesOptions) ([]*models.Article, error) {
	a, _, err := svc.listArticlesWithTotal(ctx, opts)
	return a, errors.WithStack(err)
}

func (svc *Service) ListArticlesWithTotal(ctx context.Context, opts ListArticlesOptions) ([]*models.Article, int, error) {
	opts.includeTotal = true
	return svc.listArticlesWithTotal(ctx, opts)
}

func (svc *Service) listArticlesWithTotal(ctx context.Context, opts ListArticlesOptions) ([]*models.Article, int, error) {
	articles := []*models.Article{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&articles).
		Order("a.date_published DESC", "a.id DESC")

	if opts.PublishedOnly {
		q = q.Where("a.status = ?", models.StatusPublished)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return articles, total, nil
}

// NeighbourArticles returns the published articles either side of article
// by publication date. Either may be nil.
func (svc *Service) NeighbourArticles(ctx context.Context, article *models.Article) (*models.Article, *models.Article, error) {
	neighbour := func(cmp, order string) (*models.Article, error) {
		a := &models.Article{}
		err := svc.db.NewSelect().
			Model(a).
			Column("a.id", "a.title", "a.slug", "a.date_published").
			Where("a.status = ?", models.StatusPublished).
			WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("a.date_published "+cmp+" ?", article.DatePublished).
					WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
						return q.Where("a.date_published = ?", article.DatePublished).Where("a.id "+cmp+" ?", article.ID)
					})
			}).
			Order("a.date_published "+order, "a.id "+order).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return a, errors.WithStack(err)
	}

	previous, err := neighbour("<", "DESC")
	if err != nil {
		return nil, nil, err
	}
	next, err := neighbour(">", "ASC")
	if err != nil {
		return nil, nil, err
	}
	return previous, next, nil
}

func (svc *Service) UpdateArticle(ctx context.Context, article *models.Article, opts UpdateArticleOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "intro" || col == "text" {
			if err := render(article); err != nil {
				return err
			}
			opts.Columns = append(opts.Columns, "intro_html", "text_html")
			break
		}
	}

	article.UpdatedAt = time.Now().UTC()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.NewUpdate().
		Model(article).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Article")
	}

	svc.index(ctx, article)
	return nil
}

func (svc *Service) index(ctx context.Context, article *models.Article) {
	if err := svc.searchService.Index(ctx, svc.db, article, article.AbsoluteURL()); err != nil {
		logger.FromContext(ctx).Warn("failed to update search index for article", logger.Data{"article_id": article.ID, "error": err.Error()})
	}
}
