package letters

import (
	"github.com/pepysdiary/pepysdiary/pkg/models"
)

type ListLettersQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=500"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Person *string `query:"person" json:"person,omitempty" mod:"trim" validate:"omitempty,max=255"`
}

type CreateLetterPayload struct {
	Title         string `json:"title" mod:"trim" validate:"required,max=255"`
	Slug          string `json:"slug,omitempty" mod:"trim" validate:"omitempty,slug,max=255"`
	LetterDate    string `json:"letter_date" validate:"required,date"`
	Sender        string `json:"sender" mod:"trim" validate:"required,max=255"`
	Recipient     string `json:"recipient" mod:"trim" validate:"required,max=255"`
	Text          string `json:"text"`
	Footnotes     string `json:"footnotes,omitempty"`
	AllowComments *bool  `json:"allow_comments,omitempty"`
}

type UpdateLetterPayload struct {
	Title         *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	Slug          *string `json:"slug,omitempty" mod:"trim" validate:"omitempty,min=1,slug,max=255"`
	Sender        *string `json:"sender,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	Recipient     *string `json:"recipient,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	Text          *string `json:"text,omitempty"`
	Footnotes     *string `json:"footnotes,omitempty"`
	AllowComments *bool   `json:"allow_comments,omitempty"`
}

type LetterLink struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func newLetterLink(l *models.Letter) *LetterLink {
	if l == nil {
		return nil
	}
	return &LetterLink{ID: l.ID, Title: l.Title, URL: l.AbsoluteURL()}
}

type ListLettersResponse struct {
	Letters []*models.Letter `json:"letters"`
	Total   int              `json:"total"`
}

type LetterResponse struct {
	*models.Letter
	URL         string               `json:"url"`
	Previous    *LetterLink          `json:"previous"`
	Next        *LetterLink          `json:"next"`
	Annotations []*models.Annotation `json:"annotations"`
}
