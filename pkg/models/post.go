package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// News post categories.
const (
	PostCategoryBlog        = "blog"
	PostCategoryEvents      = "events"
	PostCategoryNewFeatures = "new-features"
	PostCategorySiteNews    = "site-news"
	PostCategoryStatistics  = "statistics"
)

var PostCategoryLabels = map[string]string{
	PostCategoryBlog:        "Blog",
	PostCategoryEvents:      "Events",
	PostCategoryNewFeatures: "New features",
	PostCategorySiteNews:    "Site news",
	PostCategoryStatistics:  "Statistics",
}

// Post is a site news item.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:po"`

	ID            int       `bun:",pk,nullzero" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Title         string    `bun:",notnull" json:"title"`
	DatePublished time.Time `bun:",notnull" json:"date_published"`
	Status        string    `bun:",notnull" json:"status"`
	Category      string    `bun:",notnull" json:"category"`
	Intro         string    `bun:",notnull" json:"intro"`
	IntroHTML     string    `bun:"intro_html,notnull" json:"intro_html"`
	Text          string    `bun:",notnull" json:"text"`
	TextHTML      string    `bun:"text_html,notnull" json:"text_html"`
	AllowComments bool      `bun:",notnull" json:"allow_comments"`
	CommentCount  int       `bun:",notnull" json:"comment_count"`
}

func (p *Post) AbsoluteURL() string {
	return fmt.Sprintf("/news/%s/%d/", DatePath(p.DatePublished), p.ID)
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

func (p *Post) SearchKind() string  { return SearchKindPost }
func (p *Post) SearchObjectID() int { return p.ID }

func (p *Post) IndexComponents() []IndexComponent {
	return []IndexComponent{
		{Text: p.Title, Weight: IndexWeightA},
		{Text: p.IntroHTML, Weight: IndexWeightB},
		{Text: p.TextHTML, Weight: IndexWeightB},
	}
}

func (p *Post) CommentObjectType() string { return SearchKindPost }
func (p *Post) CommentObjectID() int      { return p.ID }
func (p *Post) CommentsAllowed() bool     { return p.AllowComments && p.IsPublished() }
