package encyclopedia

import (
	"context"

	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
)

// ListMapTopics returns the topics filed directly under a category that have
// coordinates.
func (svc *Service) ListMapTopics(ctx context.Context, categoryID int) ([]*models.Topic, error) {
	topics := []*models.Topic{}
	err := svc.db.NewSelect().
		Model(&topics).
		Column("t.id", "t.title", "t.order_title", "t.latitude", "t.longitude", "t.zoom").
		Where("t.id IN (SELECT topic_id FROM topic_categories WHERE category_id = ?)", categoryID).
		Where("t.latitude IS NOT NULL").
		Where("t.longitude IS NOT NULL").
		OrderExpr("t.order_title COLLATE NOCASE ASC").
		Scan(ctx)
	return topics, errors.WithStack(err)
}
