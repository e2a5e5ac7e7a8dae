package diary

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/feeds"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	config            *config.Config
	diaryService      *Service
	annotationService *annotations.Service
	feedBuilder       *feeds.Builder
}

func monthURL(year int, month time.Month) string {
	return fmt.Sprintf("/diary/%04d/%02d/", year, month)
}

// parseDateParams reads :year, :month and, if present, :day. Anything that
// isn't a real calendar date is reported as not found.
func parseDateParams(c echo.Context, resource string) (time.Time, error) {
	day := c.Param("day")
	if day == "" {
		day = "1"
	}
	date, ok := models.ParseDatePath(c.Param("year"), c.Param("month"), day)
	if !ok {
		return time.Time{}, errcodes.NotFound(resource)
	}
	return date, nil
}

func (h *handler) archive(c echo.Context) error {
	ctx := c.Request().Context()

	months, err := h.diaryService.ListMonths(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := &ArchiveResponse{Years: []*YearMonths{}}
	for _, m := range months {
		n := len(resp.Years)
		if n == 0 || resp.Years[n-1].Year != m.Year {
			resp.Years = append(resp.Years, &YearMonths{Year: m.Year, Months: []*MonthLink{}})
			n++
		}
		resp.Years[n-1].Months = append(resp.Years[n-1].Months, &MonthLink{Month: m, URL: monthURL(m.Year, m.Month)})
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) month(c echo.Context) error {
	ctx := c.Request().Context()

	date, err := parseDateParams(c, "Month")
	if err != nil {
		return err
	}
	year := date.Year()
	month := date.Month()

	entries, err := h.diaryService.ListEntries(ctx, ListEntriesOptions{Year: &year, Month: &month})
	if err != nil {
		return errors.WithStack(err)
	}
	if len(entries) == 0 {
		return errcodes.NotFound("Month")
	}

	summary, err := h.diaryService.RetrieveSummary(ctx, RetrieveSummaryOptions{Month: &date})
	if err != nil && !errors.Is(err, errcodes.NotFound("Summary")) {
		return errors.WithStack(err)
	}

	resp := &MonthResponse{Year: year, Month: month, Summary: summary, Entries: make([]*MonthEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, &MonthEntry{EntryLink: newEntryLink(e), CommentCount: e.CommentCount})
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) entry(c echo.Context) error {
	ctx := c.Request().Context()

	date, err := parseDateParams(c, "Entry")
	if err != nil {
		return err
	}

	entry, err := h.diaryService.RetrieveEntry(ctx, RetrieveEntryOptions{Date: &date})
	if err != nil {
		return errors.WithStack(err)
	}

	previous, next, err := h.diaryService.NeighbourEntries(ctx, entry)
	if err != nil {
		return errors.WithStack(err)
	}

	topics, err := h.diaryService.ListEntryTopics(ctx, entry.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	events, err := h.diaryService.ListDayEvents(ctx, entry.DiaryDate)
	if err != nil {
		return errors.WithStack(err)
	}
	dayEvents := make([]*DayEventResponse, 0, len(events))
	for _, e := range events {
		dayEvents = append(dayEvents, &DayEventResponse{DayEvent: e, SourceLabel: e.SourceLabel()})
	}

	notes, err := h.annotationService.ListVisibleAnnotations(ctx, entry)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &EntryResponse{
		Entry:       entry,
		URL:         entry.AbsoluteURL(),
		Previous:    newEntryLink(previous),
		Next:        newEntryLink(next),
		Topics:      topics,
		DayEvents:   dayEvents,
		Annotations: notes,
	}))
}

func (h *handler) summaryIndex(c echo.Context) error {
	years, err := h.diaryService.ListSummaryYears(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, &SummaryIndexResponse{Years: years}))
}

func (h *handler) summaryYear(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return errcodes.NotFound("Summary")
	}

	summaries, err := h.diaryService.ListSummaries(c.Request().Context(), ListSummariesOptions{Year: &year})
	if err != nil {
		return errors.WithStack(err)
	}
	if len(summaries) == 0 {
		return errcodes.NotFound("Summary")
	}

	return errors.WithStack(c.JSON(http.StatusOK, &SummaryYearResponse{Year: year, Summaries: summaries}))
}

func (h *handler) rss(c echo.Context) error {
	ctx := c.Request().Context()

	limit := h.config.FeedItemCount
	entries, err := h.diaryService.ListEntries(ctx, ListEntriesOptions{Latest: true, Limit: &limit})
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]feeds.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, feeds.Item{
			Title:     e.Title,
			Path:      e.AbsoluteURL(),
			Content:   e.TextHTML,
			Author:    "Samuel Pepys",
			Published: e.CreatedAt,
			Updated:   e.UpdatedAt,
		})
	}

	feed := h.feedBuilder.Build(
		"The Diary of Samuel Pepys",
		"/diary/",
		"Daily entries from the 17th century London diary",
		items,
	)
	return feeds.Write(c, feed)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errcodes.ValidationError("Dates must be YYYY-MM-DD.")
	}
	return t, nil
}

func (h *handler) createEntry(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateEntryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	date, err := parseDate(params.DiaryDate)
	if err != nil {
		return err
	}

	entry := &models.Entry{
		DiaryDate:     date,
		Title:         params.Title,
		Text:          params.Text,
		Footnotes:     params.Footnotes,
		AllowComments: params.AllowComments == nil || *params.AllowComments,
	}
	if err := h.diaryService.CreateEntry(ctx, entry); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, entry))
}

func (h *handler) updateEntry(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Entry")
	}

	params := UpdateEntryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	entry, err := h.diaryService.RetrieveEntry(ctx, RetrieveEntryOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateEntryOptions{Columns: []string{}}
	if params.Title != nil && *params.Title != entry.Title {
		entry.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Text != nil && *params.Text != entry.Text {
		entry.Text = *params.Text
		opts.Columns = append(opts.Columns, "text")
	}
	if params.Footnotes != nil && *params.Footnotes != entry.Footnotes {
		entry.Footnotes = *params.Footnotes
		opts.Columns = append(opts.Columns, "footnotes")
	}
	if params.AllowComments != nil && *params.AllowComments != entry.AllowComments {
		entry.AllowComments = *params.AllowComments
		opts.Columns = append(opts.Columns, "allow_comments")
	}

	if err := h.diaryService.UpdateEntry(ctx, entry, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, entry))
}

func (h *handler) createSummary(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateSummaryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	date, err := parseDate(params.SummaryDate)
	if err != nil {
		return err
	}

	summary := &models.Summary{SummaryDate: date, Title: params.Title, Text: params.Text}
	if err := h.diaryService.CreateSummary(ctx, summary); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, summary))
}

func (h *handler) updateSummary(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Summary")
	}

	params := UpdateSummaryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	summary, err := h.diaryService.RetrieveSummary(ctx, RetrieveSummaryOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateSummaryOptions{Columns: []string{}}
	if params.Title != nil && *params.Title != summary.Title {
		summary.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Text != nil && *params.Text != summary.Text {
		summary.Text = *params.Text
		opts.Columns = append(opts.Columns, "text")
	}

	if err := h.diaryService.UpdateSummary(ctx, summary, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, summary))
}

func (h *handler) createDayEvent(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateDayEventPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	date, err := parseDate(params.EventDate)
	if err != nil {
		return err
	}

	event := &models.DayEvent{
		EventDate: date,
		Title:     params.Title,
		URL:       params.URL,
		Source:    params.Source,
		SortOrder: params.SortOrder,
	}
	if err := h.diaryService.CreateDayEvent(ctx, event); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, event))
}

func (h *handler) deleteDayEvent(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Day event")
	}

	if err := h.diaryService.DeleteDayEvent(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
