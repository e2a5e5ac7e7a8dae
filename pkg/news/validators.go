package news

import (
	"github.com/pepysdiary/pepysdiary/pkg/models"
)

type ListPostsQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type AdminListPostsQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Category *string `query:"category" json:"category,omitempty" validate:"omitempty,oneof=blog events new-features site-news statistics"`
}

type CreatePostPayload struct {
	Title         string `json:"title" mod:"trim" validate:"required,max=255"`
	DatePublished string `json:"date_published,omitempty" validate:"omitempty,date"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	Category      string `json:"category" validate:"required,oneof=blog events new-features site-news statistics"`
	Intro         string `json:"intro,omitempty"`
	Text          string `json:"text,omitempty"`
	AllowComments *bool  `json:"allow_comments,omitempty"`
}

type UpdatePostPayload struct {
	Title         *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	DatePublished *string `json:"date_published,omitempty" validate:"omitempty,date"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	Category      *string `json:"category,omitempty" validate:"omitempty,oneof=blog events new-features site-news statistics"`
	Intro         *string `json:"intro,omitempty"`
	Text          *string `json:"text,omitempty"`
	AllowComments *bool   `json:"allow_comments,omitempty"`
}

type PostSummary struct {
	*models.Post
	URL           string `json:"url"`
	CategoryLabel string `json:"category_label"`
}

func newPostSummary(p *models.Post) *PostSummary {
	return &PostSummary{Post: p, URL: p.AbsoluteURL(), CategoryLabel: models.PostCategoryLabels[p.Category]}
}

type ListPostsResponse struct {
	Category      string         `json:"category,omitempty"`
	CategoryLabel string         `json:"category_label,omitempty"`
	Posts         []*PostSummary `json:"posts"`
	Total         int            `json:"total"`
}

type PostResponse struct {
	*PostSummary
	Annotations []*models.Annotation `json:"annotations"`
}
