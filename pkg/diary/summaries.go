package diary

import (
	"context"
	"database/sql"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/markup"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
)

type RetrieveSummaryOptions struct {
	ID *int
	// Month is the first of the month the summary covers.
	Month *time.Time
}

type ListSummariesOptions struct {
	Year *int
}

type UpdateSummaryOptions struct {
	Columns []string
}

// CreateSummary saves the summary of a month. SummaryDate is moved to the
// first of its month.
func (svc *Service) CreateSummary(ctx context.Context, summary *models.Summary) error {
	now := time.Now().UTC()
	summary.CreatedAt = now
	summary.UpdatedAt = now
	summary.SummaryDate = models.Date(summary.SummaryDate.Year(), summary.SummaryDate.Month(), 1)

	html, err := markup.Render(summary.Text)
	if err != nil {
		return err
	}
	summary.TextHTML = html

	exists, err := svc.db.NewSelect().
		Model((*models.Summary)(nil)).
		Where("s.summary_date = ?", summary.SummaryDate).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return errcodes.Conflict("A summary for " + summary.SummaryDate.Format("January 2006"))
	}

	_, err = svc.db.NewInsert().Model(summary).Returning("id").Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveSummary(ctx context.Context, opts RetrieveSummaryOptions) (*models.Summary, error) {
	summary := &models.Summary{}

	q := svc.db.
		NewSelect().
		Model(summary)

	if opts.ID != nil {
		q = q.Where("s.id = ?", *opts.ID)
	}
	if opts.Month != nil {
		q = q.Where("s.summary_date = ?", models.Date(opts.Month.Year(), opts.Month.Month(), 1))
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Summary")
		}
		return nil, errors.WithStack(err)
	}
	return summary, nil
}

func (svc *Service) ListSummaries(ctx context.Context, opts ListSummariesOptions) ([]*models.Summary, error) {
	summaries := []*models.Summary{}

	q := svc.db.
		NewSelect().
		Model(&summaries).
		Order("s.summary_date ASC")

	if opts.Year != nil {
		start := models.Date(*opts.Year, time.January, 1)
		q = q.Where("s.summary_date >= ?", start).Where("s.summary_date < ?", start.AddDate(1, 0, 0))
	}

	err := q.Scan(ctx)
	return summaries, errors.WithStack(err)
}

// ListSummaryYears returns the years that have summaries, in order.
func (svc *Service) ListSummaryYears(ctx context.Context) ([]int, error) {
	var dates []time.Time
	err := svc.db.NewSelect().
		Model((*models.Summary)(nil)).
		Column("s.summary_date").
		Order("s.summary_date ASC").
		Scan(ctx, &dates)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	years := []int{}
	for _, d := range dates {
		if n := len(years); n == 0 || years[n-1] != d.Year() {
			years = append(years, d.Year())
		}
	}
	return years, nil
}

func (svc *Service) UpdateSummary(ctx context.Context, summary *models.Summary, opts UpdateSummaryOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "text" {
			html, err := markup.Render(summary.Text)
			if err != nil {
				return err
			}
			summary.TextHTML = html
			opts.Columns = append(opts.Columns, "text_html")
			break
		}
	}

	summary.UpdatedAt = time.Now().UTC()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.NewUpdate().
		Model(summary).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Summary")
	}
	return nil
}
