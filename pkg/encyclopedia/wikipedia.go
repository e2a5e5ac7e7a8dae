package encyclopedia

import (
	"context"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// FetchWikipediaOptions picks the topics to refresh. All wins over Num,
// which wins over TopicIDs. With none of them set nothing is fetched.
type FetchWikipediaOptions struct {
	TopicIDs []int
	// Num fetches this many topics, never-fetched ones first and then those
	// fetched longest ago.
	Num *int
	All bool
}

// FetchWikipediaResult lists the topics whose text was and wasn't fetched.
// Topics without a Wikipedia fragment are in neither list.
type FetchWikipediaResult struct {
	Success []int `json:"success"`
	Failure []int `json:"failure"`
}

func (svc *Service) FetchWikipediaTexts(ctx context.Context, opts FetchWikipediaOptions) (*FetchWikipediaResult, error) {
	result := &FetchWikipediaResult{Success: []int{}, Failure: []int{}}
	if svc.fetcher == nil {
		return nil, errors.New("no wikipedia fetcher configured")
	}

	var topics []*models.Topic
	q := svc.db.NewSelect().
		Model(&topics).
		Where("t.wikipedia_fragment != ''")

	switch {
	case opts.All:
		q = q.Order("t.id ASC")
	case opts.Num != nil:
		q = q.
			OrderExpr("t.wikipedia_last_fetch IS NULL DESC").
			OrderExpr("t.wikipedia_last_fetch ASC").
			Order("t.id ASC").
			Limit(*opts.Num)
	case len(opts.TopicIDs) > 0:
		q = q.Where("t.id IN (?)", bun.In(opts.TopicIDs)).Order("t.id ASC")
	default:
		return result, nil
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	log := logger.FromContext(ctx)
	for i, topic := range topics {
		if i > 0 && svc.fetchDelay > 0 {
			select {
			case <-ctx.Done():
				return result, errors.WithStack(ctx.Err())
			case <-time.After(svc.fetchDelay):
			}
		}

		fetched := svc.fetcher.Fetch(ctx, topic.WikipediaFragment)
		if !fetched.Success {
			result.Failure = append(result.Failure, topic.ID)
			continue
		}

		now := time.Now().UTC()
		topic.WikipediaHTML = fetched.Content
		topic.WikipediaLastFetch = &now
		err := svc.UpdateTopic(ctx, topic, UpdateTopicOptions{
			Columns: []string{"wikipedia_html", "wikipedia_last_fetch"},
		})
		if err != nil {
			log.Err(err).Error("failed to save wikipedia text", logger.Data{"topic_id": topic.ID})
			result.Failure = append(result.Failure, topic.ID)
			continue
		}
		result.Success = append(result.Success, topic.ID)
	}

	log.Info("fetched wikipedia texts", logger.Data{"success": len(result.Success), "failure": len(result.Failure)})
	return result, nil
}
