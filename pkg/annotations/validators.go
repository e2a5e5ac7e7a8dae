package annotations

import (
	"github.com/pepysdiary/pepysdiary/pkg/models"
)

type CreateAnnotationPayload struct {
	ObjectType string `form:"object_type" json:"object_type" validate:"required,oneof=entry topic letter article post"`
	ObjectID   int    `form:"object_id" json:"object_id" validate:"required,min=1"`
	UserName   string `form:"user_name" json:"user_name" mod:"trim" validate:"required,max=50"`
	UserEmail  string `form:"user_email" json:"user_email" mod:"trim" validate:"required,email,max=254"`
	UserURL    string `form:"user_url" json:"user_url,omitempty" mod:"trim" validate:"omitempty,url,max=200"`
	Comment    string `form:"comment" json:"comment" mod:"trim" validate:"required,max=3000"`
}

type ListAnnotationsQuery struct {
	ObjectType string `query:"object_type" json:"object_type" validate:"required,oneof=entry topic letter article post"`
	ObjectID   int    `query:"object_id" json:"object_id" validate:"required,min=1"`
}

type RecentAnnotationsQuery struct {
	Limit int `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
}

type AdminListAnnotationsQuery struct {
	Limit      int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset     int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	ObjectType *string `query:"object_type" json:"object_type,omitempty" validate:"omitempty,oneof=entry topic letter article post"`
	ObjectID   *int    `query:"object_id" json:"object_id,omitempty" validate:"omitempty,min=1"`
	IsPublic   *bool   `query:"is_public" json:"is_public,omitempty"`
	IsRemoved  *bool   `query:"is_removed" json:"is_removed,omitempty"`
}

type UpdateAnnotationPayload struct {
	UserName  *string `json:"user_name,omitempty" mod:"trim" validate:"omitempty,min=1,max=50"`
	UserURL   *string `json:"user_url,omitempty" mod:"trim" validate:"omitempty,url,max=200"`
	Comment   *string `json:"comment,omitempty" mod:"trim" validate:"omitempty,min=1,max=3000"`
	IsPublic  *bool   `json:"is_public,omitempty"`
	IsRemoved *bool   `json:"is_removed,omitempty"`
}

type CreateFlagPayload struct {
	Flag      string `json:"flag" validate:"required,oneof=spam 'removal suggestion' 'moderator approval' 'moderator deletion'"`
	FlaggedBy string `json:"flagged_by" mod:"trim" validate:"required,max=100"`
}

// AnnotationResponse is an annotation with a link to it on its object's page.
type AnnotationResponse struct {
	*models.Annotation
	URL string `json:"url"`
}

type ListAnnotationsResponse struct {
	Annotations []*AnnotationResponse `json:"annotations"`
	Total       int                   `json:"total"`
}
