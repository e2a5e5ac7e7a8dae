package letters

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

type RetrieveLetterOptions struct {
	ID *int
	// Date and Slug together address a letter the way its URL does.
	Date *time.Time
	Slug *string
}

type ListLettersOptions struct {
	Limit  *int
	Offset *int
	// Person matches letters sent or received by this name.
	Person *string

	includeTotal bool
}

type UpdateLetterOptions struct {
	Columns []string
}

type Service struct {
	db            *bun.DB
	searchService *search.Service
}

func NewService(db *bun.DB, searchService *search.Service) *Service {
	return &Service{db: db, searchService: searchService}
}

func render(letter *models.Letter) error {
	html, err := markup.Render(letter.Text)
	if err != nil {
		return err
	}
	letter.TextHTML = html

	html, err = markup.Render(letter.Footnotes)
	if err != nil {
		return err
	}
	letter.FootnotesHTML = html
	return nil
}

// CreateLetter saves a letter. The slug is made from the title when empty.
func (svc *Service) CreateLetter(ctx context.Context, letter *models.Letter) error {
	now := time.Now().UTC()
	letter.CreatedAt = now
	letter.UpdatedAt = now
	if letter.Slug == "" {
		letter.Slug = slug.Make(letter.Title)
	}

	if err := render(letter); err != nil {
		return err
	}

	if _, err := svc.db.NewInsert().Model(letter).Returning("id").Exec(ctx); err != nil {
		return errors.WithStack(err)
	}

	svc.index(ctx, letter)
	return nil
}

func (svc *Service) RetrieveLetter(ctx context.Context, opts RetrieveLetterOptions) (*models.Letter, error) {
	letter := &models.Letter{}

	q := svc.db.
		NewSelect().
		Model(letter)

	if opts.ID != nil {
		q = q.Where("l.id = ?", *opts.ID)
	}
	if opts.Date != nil {
		q = q.Where("l.letter_date = ?", *opts.Date)
	}
	if opts.Slug != nil {
		q = q.Where("l.slug = ?", *opts.Slug)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Letter")
		}
		return nil, errors.WithStack(err)
	}

	return letter, nil
}

func (svc *Service) ListLetters(ctx context.Context, opts ListLettersOptions) ([]*models.Letter, error) {
	l, _, err := svc.listLettersWithTotal(ctx, opts)
	return l, errors.WithStack(err)
}

func (svc *Service) ListLettersWithTotal(ctx context.Context, opts ListLettersOptions) ([]*models.Letter, int, error) {
	opts.includeTotal = true
	return svc.listLettersWithTotal(ctx, opts)
}

func (svc *Service) listLettersWithTotal(ctx context.Context, opts ListLettersOptions) ([]*models.Letter, int, error) {
	letters := []*models.Letter{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&letters).
		Order("l.letter_date ASC", "l.id ASC")

	if opts.Person != nil {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("l.sender = ?", *opts.Person).WhereOr("l.recipient = ?", *opts.Person)
		})
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

	return letters, total, nil
}

// NeighbourLetters returns the letters written just before and after
// letter, either of which may be nil.
func (svc *Service) NeighbourLetters(ctx context.Context, letter *models.Letter) (*models.Letter, *models.Letter, error) {
	neighbour := func(cmp, order string) (*models.Letter, error) {
		l := &models.Letter{}
		err := svc.db.NewSelect().
			Model(l).
			Column("l.id", "l.title", "l.slug", "l.letter_date").
			WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("l.letter_date "+cmp+" ?", letter.LetterDate).
					WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
						return q.Where("l.letter_date = ?", letter.LetterDate).Where("l.id "+cmp+" ?", letter.ID)
					})
			}).
			Order("l.letter_date "+order, "l.id "+order).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return l, errors.WithStack(err)
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

func (svc *Service) UpdateLetter(ctx context.Context, letter *models.Letter, opts UpdateLetterOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "text" || col == "footnotes" {
			if err := render(letter); err != nil {
				return err
			}
			opts.Columns = append(opts.Columns, "text_html", "footnotes_html")
			break
		}
	}

	letter.UpdatedAt = time.Now().UTC()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.NewUpdate().
		Model(letter).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Letter")
	}

	svc.index(ctx, letter)
	return nil
}

func (svc *Service) index(ctx context.Context, letter *models.Letter) {
	if err := svc.searchService.Index(ctx, svc.db, letter, letter.AbsoluteURL()); err != nil {
		logger.FromContext(ctx).Warn("failed to update search index for letter", logger.Data{"letter_id": letter.ID, "error": err.Error()})
	}
}
