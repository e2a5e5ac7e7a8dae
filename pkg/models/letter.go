package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Letter struct {
	bun.BaseModel `bun:"table:letters,alias:l"`

	ID            int       `bun:",pk,nullzero" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Title         string    `bun:",notnull" json:"title"`
	Slug          string    `bun:",notnull" json:"slug"`
	LetterDate    time.Time `bun:",notnull" json:"letter_date"`
	Sender        string    `bun:",notnull" json:"sender"`
	Recipient     string    `bun:",notnull" json:"recipient"`
	Text          string    `bun:",notnull" json:"text"`
	TextHTML      string    `bun:"text_html,notnull" json:"text_html"`
	Footnotes     string    `bun:",notnull" json:"footnotes"`
	FootnotesHTML string    `bun:"footnotes_html,notnull" json:"footnotes_html"`
	AllowComments bool      `bun:",notnull" json:"allow_comments"`
	CommentCount  int       `bun:",notnull" json:"comment_count"`
}

func (l *Letter) AbsoluteURL() string {
	return "/letters/" + DatePath(l.LetterDate) + "/" + l.Slug + "/"
}

func (l *Letter) SearchKind() string  { return SearchKindLetter }
func (l *Letter) SearchObjectID() int { return l.ID }

func (l *Letter) IndexComponents() []IndexComponent {
	return []IndexComponent{
		{Text: l.Title, Weight: IndexWeightA},
		{Text: l.TextHTML, Weight: IndexWeightB},
		{Text: l.FootnotesHTML, Weight: IndexWeightB},
	}
}

func (l *Letter) CommentObjectType() string { return SearchKindLetter }
func (l *Letter) CommentObjectID() int      { return l.ID }
func (l *Letter) CommentsAllowed() bool     { return l.AllowComments }
