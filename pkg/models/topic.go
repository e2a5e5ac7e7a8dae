package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Topic struct {
	bun.BaseModel `bun:"table:topics,alias:t"`

	ID                 int         `bun:",pk,nullzero" json:"id"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Title              string      `bun:",notnull" json:"title"`
	OrderTitle         string      `bun:",notnull" json:"order_title"`
	OrderTitleSource   string      `bun:",notnull" json:"order_title_source"`
	IsPerson           bool        `bun:",notnull" json:"is_person"`
	Summary            string      `bun:",notnull" json:"summary"`
	SummaryHTML        string      `bun:"summary_html,notnull" json:"summary_html"`
	WikipediaFragment  string      `bun:",notnull" json:"wikipedia_fragment"`
	WikipediaHTML      string      `bun:"wikipedia_html,notnull" json:"wikipedia_html"`
	WikipediaLastFetch *time.Time  `json:"wikipedia_last_fetch"`
	Latitude           *float64    `json:"latitude"`
	Longitude          *float64    `json:"longitude"`
	Zoom               *int        `json:"zoom"`
	AllowComments      bool        `bun:",notnull" json:"allow_comments"`
	CommentCount       int         `bun:",notnull" json:"comment_count"`
	Categories         []*Category `bun:"-" json:"categories,omitempty"`
}

func (t *Topic) AbsoluteURL() string {
	return fmt.Sprintf("/encyclopedia/%d/", t.ID)
}

// HasLocation reports whether the topic can be placed on a map.
func (t *Topic) HasLocation() bool {
	return t.Latitude != nil && t.Longitude != nil
}

func (t *Topic) SearchKind() string  { return SearchKindTopic }
func (t *Topic) SearchObjectID() int { return t.ID }

func (t *Topic) IndexComponents() []IndexComponent {
	return []IndexComponent{
		{Text: t.Title, Weight: IndexWeightA},
		{Text: t.SummaryHTML, Weight: IndexWeightB},
		{Text: t.WikipediaHTML, Weight: IndexWeightB},
	}
}

func (t *Topic) CommentObjectType() string { return SearchKindTopic }
func (t *Topic) CommentObjectID() int      { return t.ID }
func (t *Topic) CommentsAllowed() bool     { return t.AllowComments }
