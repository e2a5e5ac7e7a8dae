package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Article is an in-depth piece about some aspect of the diary.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID            int       `bun:",pk,nullzero" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Title         string    `bun:",notnull" json:"title"`
	Slug          string    `bun:",notnull" json:"slug"`
	DatePublished time.Time `bun:",notnull" json:"date_published"`
	Status        string    `bun:",notnull" json:"status"`
	AuthorName    string    `bun:",notnull" json:"author_name"`
	AuthorURL     string    `bun:"author_url,notnull" json:"author_url"`
	// ItemAuthors names the authors of the thing being written about, e.g.
	// the book in a book review.
	ItemAuthors   string `bun:",notnull" json:"item_authors"`
	Intro         string `bun:",notnull" json:"intro"`
	IntroHTML     string `bun:"intro_html,notnull" json:"intro_html"`
	Text          string `bun:",notnull" json:"text"`
	TextHTML      string `bun:"text_html,notnull" json:"text_html"`
	CoverWidth    *int   `json:"cover_width"`
	CoverHeight   *int   `json:"cover_height"`
	AllowComments bool   `bun:",notnull" json:"allow_comments"`
	CommentCount  int    `bun:",notnull" json:"comment_count"`
}

func (a *Article) AbsoluteURL() string {
	return "/indepth/" + DatePath(a.DatePublished) + "/" + a.Slug + "/"
}

func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

func (a *Article) SearchKind() string  { return SearchKindArticle }
func (a *Article) SearchObjectID() int { return a.ID }

func (a *Article) IndexComponents() []IndexComponent {
	return []IndexComponent{
		{Text: a.Title, Weight: IndexWeightA},
		{Text: a.IntroHTML, Weight: IndexWeightB},
		{Text: a.TextHTML, Weight: IndexWeightB},
	}
}

func (a *Article) CommentObjectType() string { return SearchKindArticle }
func (a *Article) CommentObjectID() int      { return a.ID }
func (a *Article) CommentsAllowed() bool     { return a.AllowComments && a.IsPublished() }
