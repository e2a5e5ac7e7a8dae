package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

const (
	JobTypeFetchWikipedia     = "fetch_wikipedia"
	JobTypeRebuildSearchIndex = "rebuild_search_index"
)

type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID         int         `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Type       string      `bun:",nullzero" json:"type"`
	Status     string      `bun:",nullzero" json:"status"`
	Data       string      `bun:",nullzero" json:"-"`
	DataParsed interface{} `bun:"-" json:"data"`
	Result     *string     `json:"result,omitempty"`
	ProcessID  *string     `json:"process_id,omitempty"`
}

func (job *Job) UnmarshalData() error {
	switch job.Type {
	case JobTypeFetchWikipedia:
		job.DataParsed = &JobFetchWikipediaData{}
	case JobTypeRebuildSearchIndex:
		job.DataParsed = &JobRebuildSearchIndexData{}
	default:
		return errors.Errorf("unknown job type %q", job.Type)
	}

	err := json.Unmarshal([]byte(job.Data), job.DataParsed)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// JobFetchWikipediaData selects which topics to refresh. All wins over Num,
// which wins over TopicIDs.
type JobFetchWikipediaData struct {
	TopicIDs []int `json:"topic_ids,omitempty"`
	Num      *int  `json:"num,omitempty"`
	All      bool  `json:"all,omitempty"`
}

type JobRebuildSearchIndexData struct{}
