package news

import (
	"context"
	"database/sql"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/markup"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type RetrievePostOptions struct {
	ID *int
	// Day restricts the match to posts published on that calendar day, so a
	// URL with the wrong date doesn't resolve.
	Day           *time.Time
	PublishedOnly bool
}

type ListPostsOptions struct {
	Limit         *int
	Offset        *int
	Category      *string
	PublishedOnly bool

	includeTotal bool
}

type UpdatePostOptions struct {
	Columns []string
}

type Service struct {
	db            *bun.DB
	searchService *search.Service
}

func NewService(db *bun.DB, searchService *search.Service) *Service {
	return &Service{db: db, searchService: searchService}
}

func render(post *models.Post) error {
	html, err := markup.Render(post.Intro)
	if err != nil {
		return err
	}
	post.IntroHTML = html

	html, err = markup.Render(post.Text)
	if err != nil {
		return err
	}
	post.TextHTML = html
	return nil
}

func (svc *Service) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.StatusDraft
	}
	if post.DatePublished.IsZero() {
		post.DatePublished = now
	}

	if err := render(post); err != nil {
		return err
	}

	if _, err := svc.db.NewInsert().Model(post).Returning("id").Exec(ctx); err != nil {
		return errors.WithStack(err)
	}

	svc.index(ctx, post)
	return nil
}

func (svc *Service) RetrievePost(ctx context.Context, opts RetrievePostOptions) (*models.Post, error) {
	post := &models.Post{}

	q := svc.db.
		NewSelect().
		Model(post)

	if opts.ID != nil {
		q = q.Where("po.id = ?", *opts.ID)
	}
	if opts.Day != nil {
		q = q.Where("po.date_published >= ?", *opts.Day).
			Where("po.date_published < ?", opts.Day.AddDate(0, 0, 1))
	}
	if opts.PublishedOnly {
		q = q.Where("po.status = ?", models.StatusPublished)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Post")
		}
		return nil, errors.WithStack(err)
	}

	return post, nil
}

func (svc *Service) ListPosts(ctx context.Context, opts ListPostsOptions) ([]*models.Post, error) {
	p, _, err := svc.listPostsWithTotal(ctx, opts)
	return p, errors.WithStack(err)
}

func (svc *Service) ListPostsWithTotal(ctx context.Context, opts ListPostsOptions) ([]*models.Post, int, error) {
	opts.includeTotal = true
	return svc.listPostsWithTotal(ctx, opts)
}

func (svc *Service) listPostsWithTotal(ctx context.Context, opts ListPostsOptions) ([]*models.Post, int, error) {
	posts := []*models.Post{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&posts).
		Order("po.date_published DESC", "po.id DESC")

	if opts.Category != nil {
		q = q.Where("po.category = ?", *opts.Category)
	}
	if opts.PublishedOnly {
		q = q.Where("po.status = ?", models.StatusPublished)
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

	return posts, total, nil
}

func (svc *Service) UpdatePost(ctx context.Context, post *models.Post, opts UpdatePostOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "intro" || col == "text" {
			if err := render(post); err != nil {
				return err
			}
			opts.Columns = append(opts.Columns, "intro_html", "text_html")
			break
		}
	}

	post.UpdatedAt = time.Now().UTC()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.NewUpdate().
		Model(post).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Post")
	}

	svc.index(ctx, post)
	return nil
}

func (svc *Service) index(ctx context.Context, post *models.Post) {
	if err := svc.searchService.Index(ctx, svc.db, post, post.AbsoluteURL()); err != nil {
		logger.FromContext(ctx).Warn("failed to update search index for post", logger.Data{"post_id": post.ID, "error": err.Error()})
	}
}
