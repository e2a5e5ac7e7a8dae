package diary

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/htmlutil"
	"github.com/pepysdiary/pepysdiary/pkg/markup"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type RetrieveEntryOptions struct {
	ID   *int
	Date *time.Time
}

type ListEntriesOptions struct {
	Limit  *int
	Offset *int
	// Year and Month restrict the list to one month of the diary. Month is
	// ignored without Year.
	Year  *int
	Month *time.Month
	// Latest orders newest diary date first.
	Latest bool

	includeTotal bool
}

type UpdateEntryOptions struct {
	Columns []string
}

// Month is one month of the diary and how many entries it has.
type Month struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Entries int        `json:"entries"`
}

type Service struct {
	db            *bun.DB
	searchService *search.Service
	siteHost      string
}

// NewService returns a diary service. Links to siteURL's host count as
// internal when recording the topics an entry mentions.
func NewService(db *bun.DB, searchService *search.Service, siteURL string) *Service {
	host := ""
	if u, err := url.Parse(siteURL); err == nil {
		host = u.Host
	}
	return &Service{db: db, searchService: searchService, siteHost: host}
}

func (svc *Service) renderEntry(entry *models.Entry) error {
	html, err := markup.Render(entry.Text)
	if err != nil {
		return err
	}
	entry.TextHTML = html

	html, err = markup.Render(entry.Footnotes)
	if err != nil {
		return err
	}
	entry.FootnotesHTML = html
	return nil
}

// CreateEntry renders an entry's Markdown, saves it and records which topics
// it links to.
func (svc *Service) CreateEntry(ctx context.Context, entry *models.Entry) error {
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = entry.CreatedAt

	if err := svc.renderEntry(entry); err != nil {
		return err
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Entry)(nil)).
			Where("e.diary_date = ?", entry.DiaryDate).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.Conflict("An entry for " + entry.DiaryDate.Format("2006-01-02"))
		}

		if _, err := tx.NewInsert().Model(entry).Returning("id").Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return svc.setEntryTopics(ctx, tx, entry)
	})
	if err != nil {
		return err
	}

	svc.index(ctx, entry)
	return nil
}

func (svc *Service) RetrieveEntry(ctx context.Context, opts RetrieveEntryOptions) (*models.Entry, error) {
	entry := &models.Entry{}

	q := svc.db.
		NewSelect().
		Model(entry)

	if opts.ID != nil {
		q = q.Where("e.id = ?", *opts.ID)
	}
	if opts.Date != nil {
		q = q.Where("e.diary_date = ?", *opts.Date)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Entry")
		}
		return nil, errors.WithStack(err)
	}

	return entry, nil
}

func (svc *Service) ListEntries(ctx context.Context, opts ListEntriesOptions) ([]*models.Entry, error) {
	e, _, err := svc.listEntriesWithTotal(ctx, opts)
	return e, errors.WithStack(err)
}

func (svc *Service) ListEntriesWithTotal(ctx context.Context, opts ListEntriesOptions) ([]*models.Entry, int, error) {
	opts.includeTotal = true
	return svc.listEntriesWithTotal(ctx, opts)
}

func (svc *Service) listEntriesWithTotal(ctx context.Context, opts ListEntriesOptions) ([]*models.Entry, int, error) {
	entries := []*models.Entry{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&entries)

	if opts.Latest {
		q = q.Order("e.diary_date DESC")
	} else {
		q = q.Order("e.diary_date ASC")
	}

	if opts.Year != nil {
		start := models.Date(*opts.Year, time.January, 1)
		end := start.AddDate(1, 0, 0)
		if opts.Month != nil {
			start = models.Date(*opts.Year, *opts.Month, 1)
			end = start.AddDate(0, 1, 0)
		}
		q = q.Where("e.diary_date >= ?", start).Where("e.diary_date < ?", end)
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

	return entries, total, nil
}

// ListMonths returns every month that has entries, in diary order.
func (svc *Service) ListMonths(ctx context.Context) ([]*Month, error) {
	var dates []time.Time
	err := svc.db.NewSelect().
		Model((*models.Entry)(nil)).
		Column("e.diary_date").
		Order("e.diary_date ASC").
		Scan(ctx, &dates)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	months := []*Month{}
	for _, d := range dates {
		if n := len(months); n > 0 && months[n-1].Year == d.Year() && months[n-1].Month == d.Month() {
			months[n-1].Entries++
			continue
		}
		months = append(months, &Month{Year: d.Year(), Month: d.Month(), Entries: 1})
	}
	return months, nil
}

// NeighbourEntries returns the entries either side of entry. Either may be
// nil at the ends of the diary.
func (svc *Service) NeighbourEntries(ctx context.Context, entry *models.Entry) (*models.Entry, *models.Entry, error) {
	neighbour := func(cmp, order string) (*models.Entry, error) {
		e := &models.Entry{}
		err := svc.db.NewSelect().
			Model(e).
			Column("e.id", "e.diary_date", "e.title").
			Where("e.diary_date "+cmp+" ?", entry.DiaryDate).
			Order("e.diary_date " + order).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return e, errors.WithStack(err)
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

func (svc *Service) UpdateEntry(ctx context.Context, entry *models.Entry, opts UpdateEntryOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	rerender := false
	for _, col := range opts.Columns {
		if col == "text" || col == "footnotes" {
			rerender = true
		}
	}
	if rerender {
		if err := svc.renderEntry(entry); err != nil {
			return err
		}
		opts.Columns = append(opts.Columns, "text_html", "footnotes_html")
	}

	entry.UpdatedAt = time.Now().UTC()
	columns := append(opts.Columns, "updated_at")

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(entry).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Entry")
		}
		if rerender {
			return svc.setEntryTopics(ctx, tx, entry)
		}
		return nil
	})
	if err != nil {
		return err
	}

	svc.index(ctx, entry)
	return nil
}

// ListEntryTopics returns the topics an entry links to, by order title.
func (svc *Service) ListEntryTopics(ctx context.Context, entryID int) ([]*models.Topic, error) {
	topics := []*models.Topic{}
	err := svc.db.NewSelect().
		Model(&topics).
		Column("t.id", "t.title", "t.order_title", "t.is_person").
		Where("t.id IN (SELECT topic_id FROM entry_topics WHERE entry_id = ?)", entryID).
		OrderExpr("t.order_title COLLATE NOCASE ASC").
		Scan(ctx)
	return topics, errors.WithStack(err)
}

// setEntryTopics replaces an entry's topic references with the topics its
// HTML links to. Links to topics that don't exist are ignored.
func (svc *Service) setEntryTopics(ctx context.Context, tx bun.IDB, entry *models.Entry) error {
	_, err := tx.NewDelete().
		Model((*models.EntryTopic)(nil)).
		Where("entry_id = ?", entry.ID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	ids := htmlutil.TopicIDs(entry.TextHTML+entry.FootnotesHTML, svc.siteHost)
	if len(ids) == 0 {
		return nil
	}

	var existing []int
	err = tx.NewSelect().
		Model((*models.Topic)(nil)).
		Column("t.id").
		Where("t.id IN (?)", bun.In(ids)).
		Order("t.id ASC").
		Scan(ctx, &existing)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(existing) == 0 {
		return nil
	}

	rows := make([]*models.EntryTopic, 0, len(existing))
	for _, id := range existing {
		rows = append(rows, &models.EntryTopic{EntryID: entry.ID, TopicID: id})
	}
	_, err = tx.NewInsert().Model(&rows).Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) index(ctx context.Context, entry *models.Entry) {
	if err := svc.searchService.Index(ctx, svc.db, entry, entry.AbsoluteURL()); err != nil {
		logger.FromContext(ctx).Warn("failed to update search index for entry", logger.Data{"entry_id": entry.ID, "error": err.Error()})
	}
}
