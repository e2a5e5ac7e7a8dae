package encyclopedia

import (
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/models"
)

type ListCategoryTopicsQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=500"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type MapQuery struct {
	CategoryID *int `query:"category_id" json:"category_id,omitempty" validate:"omitempty,min=1"`
}

type CreateTopicPayload struct {
	Title             string   `json:"title" mod:"trim" validate:"required,max=255"`
	OrderTitle        string   `json:"order_title,omitempty" mod:"trim" validate:"max=255"`
	IsPerson          bool     `json:"is_person,omitempty"`
	Summary           string   `json:"summary,omitempty"`
	WikipediaFragment string   `json:"wikipedia_fragment,omitempty" mod:"trim" validate:"max=255"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Zoom              *int     `json:"zoom,omitempty" validate:"omitempty,min=1,max=20"`
	AllowComments     *bool    `json:"allow_comments,omitempty"`
	CategoryIDs       []int    `json:"category_ids,omitempty" validate:"dive,min=1"`
}

// UpdateTopicPayload changes only the fields that are present. An empty
// order_title hands the order title back to automatic computation.
type UpdateTopicPayload struct {
	Title             *string  `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	OrderTitle        *string  `json:"order_title,omitempty" mod:"trim" validate:"omitempty,max=255"`
	IsPerson          *bool    `json:"is_person,omitempty"`
	Summary           *string  `json:"summary,omitempty"`
	WikipediaFragment *string  `json:"wikipedia_fragment,omitempty" mod:"trim" validate:"omitempty,max=255"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Zoom              *int     `json:"zoom,omitempty" validate:"omitempty,min=1,max=20"`
	AllowComments     *bool    `json:"allow_comments,omitempty"`
	CategoryIDs       *[]int   `json:"category_ids,omitempty" validate:"omitempty,dive,min=1"`
}

type CreateCategoryPayload struct {
	Title    string `json:"title" mod:"trim" validate:"required,max=255"`
	Slug     string `json:"slug,omitempty" mod:"trim" validate:"omitempty,slug,max=255"`
	ParentID *int   `json:"parent_id,omitempty" validate:"omitempty,min=1"`
}

type UpdateCategoryPayload struct {
	Title *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	Slug  *string `json:"slug,omitempty" mod:"trim" validate:"omitempty,slug,max=255"`
}

type CategoryWithChildren struct {
	*models.Category
	URL      string             `json:"url"`
	Children []*models.Category `json:"children"`
}

type EncyclopediaResponse struct {
	Categories []*CategoryWithChildren `json:"categories"`
}

type TopicReference struct {
	ID        int       `json:"id"`
	DiaryDate time.Time `json:"diary_date"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
}

type TopicResponse struct {
	*models.Topic
	URL        string            `json:"url"`
	References []*TopicReference `json:"references"`
}

type CategoryResponse struct {
	Category  *models.Category   `json:"category"`
	URL       string             `json:"url"`
	Ancestors []*models.Category `json:"ancestors"`
	Children  []*models.Category `json:"children"`
	Topics    []*models.Topic    `json:"topics"`
	Total     int                `json:"total"`
}

type MapResponse struct {
	Category   *models.Category   `json:"category"`
	Categories []*models.Category `json:"categories"`
	Topics     []*models.Topic    `json:"topics"`
}
