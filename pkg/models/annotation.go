package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Annotation is a reader's comment on an entry, topic, letter, article or
// post. ObjectType takes the same values as the search kinds.
type Annotation struct {
	bun.BaseModel `bun:"table:annotations,alias:an"`

	ID          int               `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ObjectType  string            `bun:",notnull" json:"object_type"`
	ObjectID    int               `bun:",notnull" json:"object_id"`
	UserName    string            `bun:",notnull" json:"user_name"`
	UserEmail   string            `bun:",notnull" json:"-"`
	UserURL     string            `bun:"user_url,notnull" json:"user_url"`
	Comment     string            `bun:",notnull" json:"comment"`
	CommentHTML string            `bun:"comment_html,notnull" json:"comment_html"`
	SubmitDate  time.Time         `bun:",notnull" json:"submit_date"`
	IPAddress   string            `bun:"ip_address,notnull" json:"-"`
	IsPublic    bool              `bun:",notnull" json:"is_public"`
	IsRemoved   bool              `bun:",notnull" json:"is_removed"`
	Flags       []*AnnotationFlag `bun:"rel:has-many,join:id=annotation_id" json:"flags,omitempty"`
}

// IsVisible reports whether the annotation should be shown and counted.
func (a *Annotation) IsVisible() bool {
	return a.IsPublic && !a.IsRemoved
}

// Anchor is the fragment identifier of the annotation on its object's page.
func (a *Annotation) Anchor() string {
	return fmt.Sprintf("c%d", a.ID)
}

func (a *Annotation) SearchKind() string  { return SearchKindAnnotation }
func (a *Annotation) SearchObjectID() int { return a.ID }

func (a *Annotation) IndexComponents() []IndexComponent {
	return []IndexComponent{
		{Text: a.UserName, Weight: IndexWeightA},
		{Text: a.CommentHTML, Weight: IndexWeightB},
	}
}

// Annotation flags.
const (
	AnnotationFlagSpam              = "spam"
	AnnotationFlagSuggestRemoval    = "removal suggestion"
	AnnotationFlagModeratorApproval = "moderator approval"
	AnnotationFlagModeratorDeletion = "moderator deletion"
)

type AnnotationFlag struct {
	bun.BaseModel `bun:"table:annotation_flags,alias:af"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	AnnotationID int       `bun:",nullzero" json:"annotation_id"`
	Flag         string    `bun:",notnull" json:"flag"`
	FlagDate     time.Time `bun:",notnull" json:"flag_date"`
	FlaggedBy    string    `bun:",notnull" json:"flagged_by"`
}
