package indepth

import (
	"github.com/pepysdiary/pepysdiary/pkg/models"
)

type ListArticlesQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type AdminListArticlesQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type CreateArticlePayload struct {
	Title         string `json:"title" mod:"trim" validate:"required,max=255"`
	Slug          string `json:"slug,omitempty" mod:"trim" validate:"omitempty,slug,max=255"`
	DatePublished string `json:"date_published,omitempty" validate:"omitempty,date"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	AuthorName    string `json:"author_name" mod:"trim" validate:"required,max=255"`
	AuthorURL     string `json:"author_url,omitempty" mod:"trim" validate:"omitempty,url,max=255"`
	ItemAuthors   string `json:"item_authors,omitempty" mod:"trim" validate:"max=255"`
	Intro         string `json:"intro,omitempty"`
	Text          string `json:"text,omitempty"`
	CoverWidth    *int   `json:"cover_width,omitempty" validate:"omitempty,min=1"`
	CoverHeight   *int   `json:"cover_height,omitempty" validate:"omitempty,min=1"`
	AllowComments *bool  `json:"allow_comments,omitempty"`
}

type UpdateArticlePayload struct {
	Title         *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	Slug          *string `json:"slug,omitempty" mod:"trim" validate:"omitempty,min=1,slug,max=255"`
	DatePublished *string `json:"date_published,omitempty" validate:"omitempty,date"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	AuthorName    *string `json:"author_name,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	AuthorURL     *string `json:"author_url,omitempty" mod:"trim" validate:"omitempty,url,max=255"`
	ItemAuthors   *string `json:"item_authors,omitempty" mod:"trim" validate:"omitempty,max=255"`
	Intro         *string `json:"intro,omitempty"`
	Text          *string `json:"text,omitempty"`
	AllowComments *bool   `json:"allow_comments,omitempty"`
}

type ArticleLink struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func newArticleLink(a *models.Article) *ArticleLink {
	if a == nil {
		return nil
	}
	return &ArticleLink{ID: a.ID, Title: a.Title, URL: a.AbsoluteURL()}
}

type ArticleSummary struct {
	*models.Article
	URL string `json:"url"`
}

type ListArticlesResponse struct {
	Articles []*ArticleSummary `json:"articles"`
	Total    int               `json:"total"`
}

type ArticleResponse struct {
	*models.Article
	URL         string               `json:"url"`
	Previous    *ArticleLink         `json:"previous"`
	Next        *ArticleLink         `json:"next"`
	Annotations []*models.Annotation `json:"annotations"`
}
