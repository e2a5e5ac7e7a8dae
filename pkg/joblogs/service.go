package joblogs

import (
	"context"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ListJobLogsOptions filters one job's log lines. AfterID lets a client poll
// for lines written since its last request.
type ListJobLogsOptions struct {
	JobID   int
	AfterID *int
	Levels  []string
	Limit   *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateJobLog(ctx context.Context, line *models.JobLog) error {
	if line.CreatedAt.IsZero() {
		line.CreatedAt = time.Now().UTC()
	}
	if line.Level == "" {
		line.Level = models.JobLogLevelInfo
	}

	_, err := svc.db.NewInsert().Model(line).Returning("*").Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) ListJobLogs(ctx context.Context, opts ListJobLogsOptions) ([]*models.JobLog, error) {
	lines := []*models.JobLog{}

	q := svc.db.NewSelect().
		Model(&lines).
		Where("jl.job_id = ?", opts.JobID).
		Order("jl.id ASC")
	if opts.AfterID != nil {
		q = q.Where("jl.id > ?", *opts.AfterID)
	}
	if len(opts.Levels) > 0 {
		q = q.Where("jl.level IN (?)", bun.In(opts.Levels))
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return lines, nil
}

// DeleteJobLogsBefore removes log lines written before cutoff and returns how
// many went.
func (svc *Service) DeleteJobLogsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := svc.db.NewDelete().
		Model((*models.JobLog)(nil)).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	return int(n), errors.WithStack(err)
}
