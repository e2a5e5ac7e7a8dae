package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Entry is a single day of the diary.
type Entry struct {
	bun.BaseModel `bun:"table:entries,alias:e"`

	ID            int       `bun:",pk,nullzero" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	DiaryDate     time.Time `bun:",notnull" json:"diary_date"`
	Title         string    `bun:",notnull" json:"title"`
	Text          string    `bun:",notnull" json:"text"`
	TextHTML      string    `bun:"text_html,notnull" json:"text_html"`
	Footnotes     string    `bun:",notnull" json:"footnotes"`
	FootnotesHTML string    `bun:"footnotes_html,notnull" json:"footnotes_html"`
	AllowComments bool      `bun:",notnull" json:"allow_comments"`
	CommentCount  int       `bun:",notnull" json:"comment_count"`
}

func (e *Entry) AbsoluteURL() string {
	return "/diary/" + DatePath(e.DiaryDate) + "/"
}

func (e *Entry) SearchKind() string  { return SearchKindEntry }
func (e *Entry) SearchObjectID() int { return e.ID }

func (e *Entry) IndexComponents() []IndexComponent {
	return []IndexComponent{
		{Text: e.Title, Weight: IndexWeightA},
		{Text: e.TextHTML, Weight: IndexWeightB},
		{Text: e.FootnotesHTML, Weight: IndexWeightB},
	}
}

func (e *Entry) CommentObjectType() string { return SearchKindEntry }
func (e *Entry) CommentObjectID() int      { return e.ID }
func (e *Entry) CommentsAllowed() bool     { return e.AllowComments }

// EntryTopic records that an entry links to an encyclopedia topic.
type EntryTopic struct {
	bun.BaseModel `bun:"table:entry_topics,alias:et"`

	ID      int `bun:",pk,nullzero" json:"id"`
	EntryID int `bun:",nullzero" json:"entry_id"`
	TopicID int `bun:",nullzero" json:"topic_id"`
}

// Summary describes a month of the diary. SummaryDate is the first of the
// month.
type Summary struct {
	bun.BaseModel `bun:"table:summaries,alias:s"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	SummaryDate time.Time `bun:",notnull" json:"summary_date"`
	Title       string    `bun:",notnull" json:"title"`
	Text        string    `bun:",notnull" json:"text"`
	TextHTML    string    `bun:"text_html,notnull" json:"text_html"`
}
