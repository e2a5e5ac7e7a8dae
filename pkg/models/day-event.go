package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Sources of day events.
const (
	DayEventSourceGadbury     = 10
	DayEventSourceParliament  = 20
	DayEventSourceJosselin    = 30
	DayEventSourceTimeAndDate = 40
)

var DayEventSourceLabels = map[int]string{
	DayEventSourceGadbury:     "John Gadbury’s London Diary",
	DayEventSourceParliament:  "In Parliament",
	DayEventSourceJosselin:    "In Earl’s Colne, Essex",
	DayEventSourceTimeAndDate: "Times",
}

// DayEvent is something that happened elsewhere on a diary day.
type DayEvent struct {
	bun.BaseModel `bun:"table:day_events,alias:de"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",notnull" json:"title"`
	EventDate time.Time `bun:",notnull" json:"event_date"`
	URL       string    `bun:"url,notnull" json:"url"`
	Source    *int      `json:"source"`
	// SortOrder optionally orders events within a source.
	SortOrder *int `json:"sort_order"`
}

// SourceLabel returns the human name of the event's source, if it has one.
func (de *DayEvent) SourceLabel() string {
	if de.Source == nil {
		return ""
	}
	return DayEventSourceLabels[*de.Source]
}
