package encyclopedia

import (
	"context"
	"database/sql"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/markup"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/ordertitle"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pepysdiary/pepysdiary/pkg/wikipedia"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type RetrieveTopicOptions struct {
	ID *int
}

type ListTopicsOptions struct {
	Limit      *int
	Offset     *int
	CategoryID *int
	IDs        []int
	// Latest orders by creation date, newest first, instead of by order
	// title.
	Latest bool

	includeTotal bool
}

type UpdateTopicOptions struct {
	Columns []string
	// CategoryIDs replaces the topic's categories when set.
	CategoryIDs *[]int
}

// Fetcher fetches cleaned Wikipedia article HTML.
type Fetcher interface {
	Fetch(ctx context.Context, fragment string) wikipedia.Result
}

type Service struct {
	db            *bun.DB
	searchService *search.Service
	fetcher       Fetcher
	fetchDelay    time.Duration
}

type Option func(*Service)

// WithWikipedia sets where Wikipedia texts come from and how long to pause
// between fetches.
func WithWikipedia(fetcher Fetcher, delay time.Duration) Option {
	return func(svc *Service) {
		svc.fetcher = fetcher
		svc.fetchDelay = delay
	}
}

func NewService(db *bun.DB, searchService *search.Service, opts ...Option) *Service {
	svc := &Service{db: db, searchService: searchService}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SetTitle changes a topic's title or person flag and recomputes its order
// title unless that was set by hand. It returns the columns that changed.
func SetTitle(topic *models.Topic, title string, isPerson bool) []string {
	var columns []string
	if title != topic.Title {
		topic.Title = title
		columns = append(columns, "title")
	}
	if isPerson != topic.IsPerson {
		topic.IsPerson = isPerson
		columns = append(columns, "is_person")
	}
	if topic.OrderTitleSource == models.DataSourceManual && topic.OrderTitle != "" {
		return columns
	}
	orderTitle := ordertitle.Make(topic.Title, topic.IsPerson)
	if orderTitle != topic.OrderTitle || topic.OrderTitleSource != models.DataSourceAuto {
		topic.OrderTitle = orderTitle
		topic.OrderTitleSource = models.DataSourceAuto
		columns = append(columns, "order_title", "order_title_source")
	}
	return columns
}

// SetOrderTitle pins a topic's order title. An empty value hands it back to
// automatic computation.
func SetOrderTitle(topic *models.Topic, orderTitle string) []string {
	if orderTitle == "" {
		topic.OrderTitle = ordertitle.Make(topic.Title, topic.IsPerson)
		topic.OrderTitleSource = models.DataSourceAuto
	} else {
		topic.OrderTitle = orderTitle
		topic.OrderTitleSource = models.DataSourceManual
	}
	return []string{"order_title", "order_title_source"}
}

func (svc *Service) CreateTopic(ctx context.Context, topic *models.Topic, categoryIDs []int) error {
	now := time.Now().UTC()
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = now
	}
	topic.UpdatedAt = topic.CreatedAt

	if topic.OrderTitle == "" {
		topic.OrderTitle = ordertitle.Make(topic.Title, topic.IsPerson)
		topic.OrderTitleSource = models.DataSourceAuto
	}
	if topic.OrderTitleSource == "" {
		topic.OrderTitleSource = models.DataSourceManual
	}

	html, err := markup.Render(topic.Summary)
	if err != nil {
		return err
	}
	topic.SummaryHTML = html

	err = svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(topic).Returning("*").Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if len(categoryIDs) > 0 {
			return svc.setTopicCategories(ctx, tx, topic.ID, categoryIDs)
		}
		return nil
	})
	if err != nil {
		return err
	}

	svc.index(ctx, topic)
	return nil
}

func (svc *Service) RetrieveTopic(ctx context.Context, opts RetrieveTopicOptions) (*models.Topic, error) {
	topic := &models.Topic{}

	q := svc.db.
		NewSelect().
		Model(topic)

	if opts.ID != nil {
		q = q.Where("t.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Topic")
		}
		return nil, errors.WithStack(err)
	}

	topic.Categories, err = svc.ListTopicCategories(ctx, topic.ID)
	if err != nil {
		return nil, err
	}

	return topic, nil
}

func (svc *Service) ListTopics(ctx context.Context, opts ListTopicsOptions) ([]*models.Topic, error) {
	t, _, err := svc.listTopicsWithTotal(ctx, opts)
	return t, errors.WithStack(err)
}

func (svc *Service) ListTopicsWithTotal(ctx context.Context, opts ListTopicsOptions) ([]*models.Topic, int, error) {
	opts.includeTotal = true
	return svc.listTopicsWithTotal(ctx, opts)
}

func (svc *Service) listTopicsWithTotal(ctx context.Context, opts ListTopicsOptions) ([]*models.Topic, int, error) {
	var topics []*models.Topic
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&topics)

	if opts.Latest {
		q = q.Order("t.created_at DESC", "t.id DESC")
	} else {
		q = q.OrderExpr("t.order_title COLLATE NOCASE ASC").Order("t.id ASC")
	}

	if opts.CategoryID != nil {
		q = q.Where("t.id IN (SELECT topic_id FROM topic_categories WHERE category_id = ?)", *opts.CategoryID)
	}
	if opts.IDs != nil {
		q = q.Where("t.id IN (?)", bun.In(opts.IDs))
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

	return topics, total, nil
}

func (svc *Service) UpdateTopic(ctx context.Context, topic *models.Topic, opts UpdateTopicOptions) error {
	if len(opts.Columns) == 0 && opts.CategoryIDs == nil {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "summary" {
			html, err := markup.Render(topic.Summary)
			if err != nil {
				return err
			}
			topic.SummaryHTML = html
			opts.Columns = append(opts.Columns, "summary_html")
			break
		}
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if len(opts.Columns) > 0 {
			topic.UpdatedAt = time.Now().UTC()
			columns := append(opts.Columns, "updated_at")

			res, err := tx.NewUpdate().
				Model(topic).
				Column(columns...).
				WherePK().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return errcodes.NotFound("Topic")
			}
		}
		if opts.CategoryIDs != nil {
			return svc.setTopicCategories(ctx, tx, topic.ID, *opts.CategoryIDs)
		}
		return nil
	})
	if err != nil {
		return err
	}

	svc.index(ctx, topic)
	return nil
}

// DeleteTopic removes a topic, its category memberships and its entry
// references.
func (svc *Service) DeleteTopic(ctx context.Context, topicID int) error {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var categoryIDs []int
		err := tx.NewSelect().
			Model((*models.TopicCategory)(nil)).
			Column("category_id").
			Where("topic_id = ?", topicID).
			Scan(ctx, &categoryIDs)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Topic)(nil)).
			Where("id = ?", topicID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Topic")
		}

		if err := svc.searchService.Remove(ctx, tx, models.SearchKindTopic, topicID); err != nil {
			return err
		}
		return recountCategories(ctx, tx, categoryIDs)
	})
	return err
}

// ReorderTitles recomputes the order title of every topic whose order title
// isn't set by hand. It returns how many topics changed.
func (svc *Service) ReorderTitles(ctx context.Context) (int, error) {
	var topics []*models.Topic
	err := svc.db.NewSelect().
		Model(&topics).
		Where("t.order_title_source = ?", models.DataSourceAuto).
		Order("t.id ASC").
		Scan(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	changed := 0
	for _, topic := range topics {
		orderTitle := ordertitle.Make(topic.Title, topic.IsPerson)
		if orderTitle == topic.OrderTitle {
			continue
		}
		topic.OrderTitle = orderTitle
		err := svc.UpdateTopic(ctx, topic, UpdateTopicOptions{Columns: []string{"order_title"}})
		if err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// ListTopicEntries returns the diary entries that link to a topic, oldest
// first.
func (svc *Service) ListTopicEntries(ctx context.Context, topicID int) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := svc.db.NewSelect().
		Model(&entries).
		Column("e.id", "e.diary_date", "e.title").
		Where("e.id IN (SELECT entry_id FROM entry_topics WHERE topic_id = ?)", topicID).
		Order("e.diary_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return entries, nil
}

func (svc *Service) index(ctx context.Context, topic *models.Topic) {
	if err := svc.searchService.Index(ctx, svc.db, topic, topic.AbsoluteURL()); err != nil {
		logger.FromContext(ctx).Warn("failed to update search index for topic", logger.Data{"topic_id": topic.ID, "error": err.Error()})
	}
}
