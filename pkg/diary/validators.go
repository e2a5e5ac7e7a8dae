package diary

import (
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/models"
)

type CreateEntryPayload struct {
	DiaryDate     string `json:"diary_date" validate:"required,date"`
	Title         string `json:"title" mod:"trim" validate:"required,max=255"`
	Text          string `json:"text"`
	Footnotes     string `json:"footnotes,omitempty"`
	AllowComments *bool  `json:"allow_comments,omitempty"`
}

type UpdateEntryPayload struct {
	Title         *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	Text          *string `json:"text,omitempty"`
	Footnotes     *string `json:"footnotes,omitempty"`
	AllowComments *bool   `json:"allow_comments,omitempty"`
}

type CreateSummaryPayload struct {
	SummaryDate string `json:"summary_date" validate:"required,date"`
	Title       string `json:"title" mod:"trim" validate:"required,max=255"`
	Text        string `json:"text"`
}

type UpdateSummaryPayload struct {
	Title *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=255"`
	Text  *string `json:"text,omitempty"`
}

type CreateDayEventPayload struct {
	EventDate string `json:"event_date" validate:"required,date"`
	Title     string `json:"title" mod:"trim" validate:"required,max=255"`
	URL       string `json:"url,omitempty" mod:"trim" validate:"omitempty,url,max=255"`
	Source    *int   `json:"source,omitempty" validate:"omitempty,oneof=10 20 30 40"`
	SortOrder *int   `json:"sort_order,omitempty" validate:"omitempty,min=0,max=32767"`
}

type EntryLink struct {
	ID        int       `json:"id"`
	DiaryDate time.Time `json:"diary_date"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
}

func newEntryLink(e *models.Entry) *EntryLink {
	if e == nil {
		return nil
	}
	return &EntryLink{ID: e.ID, DiaryDate: e.DiaryDate, Title: e.Title, URL: e.AbsoluteURL()}
}

type MonthLink struct {
	*Month
	URL string `json:"url"`
}

type YearMonths struct {
	Year   int          `json:"year"`
	Months []*MonthLink `json:"months"`
}

type ArchiveResponse struct {
	Years []*YearMonths `json:"years"`
}

type MonthEntry struct {
	*EntryLink
	CommentCount int `json:"comment_count"`
}

type MonthResponse struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Summary *models.Summary `json:"summary"`
	Entries []*MonthEntry   `json:"entries"`
}

type DayEventResponse struct {
	*models.DayEvent
	SourceLabel string `json:"source_label"`
}

type EntryResponse struct {
	*models.Entry
	URL         string               `json:"url"`
	Previous    *EntryLink           `json:"previous"`
	Next        *EntryLink           `json:"next"`
	Topics      []*models.Topic      `json:"topics"`
	DayEvents   []*DayEventResponse  `json:"day_events"`
	Annotations []*models.Annotation `json:"annotations"`
}

type SummaryIndexResponse struct {
	Years []int `json:"years"`
}

type SummaryYearResponse struct {
	Year      int               `json:"year"`
	Summaries []*models.Summary `json:"summaries"`
}
