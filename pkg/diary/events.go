package diary

import (
	"context"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
)

// ListDayEvents returns the events on a date, grouped by source and then in
// their given order.
func (svc *Service) ListDayEvents(ctx context.Context, date time.Time) ([]*models.DayEvent, error) {
	events := []*models.DayEvent{}
	err := svc.db.NewSelect().
		Model(&events).
		Where("de.event_date = ?", date).
		OrderExpr("de.source IS NULL ASC").
		Order("de.source ASC").
		OrderExpr("de.sort_order IS NULL ASC").
		Order("de.sort_order ASC", "de.id ASC").
		Scan(ctx)
	return events, errors.WithStack(err)
}

func (svc *Service) CreateDayEvent(ctx context.Context, event *models.DayEvent) error {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := svc.db.NewInsert().Model(event).Returning("id").Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) DeleteDayEvent(ctx context.Context, id int) error {
	res, err := svc.db.NewDelete().
		Model((*models.DayEvent)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Day event")
	}
	return nil
}
