package diary

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pepysdiary/pepysdiary/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestService(t *testing.T) (*Service, *bun.DB) {
	t.Helper()
	db := testutils.SetupDB(t)
	return NewService(db, search.NewService(db), "https://www.pepysdiary.com"), db
}

func entryTopicIDs(t *testing.T, db bun.IDB, entryID int) []int {
	t.Helper()
	var ids []int
	err := db.NewSelect().
		Model((*models.EntryTopic)(nil)).
		Column("topic_id").
		Where("entry_id = ?", entryID).
		Order("topic_id ASC").
		Scan(context.Background(), &ids)
	require.NoError(t, err)
	return ids
}

func intPtr(i int) *int { return &i }

func TestCreateEntry(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	pepys := testutils.CreateTopic(t, db, "Samuel Pepys", true)
	whitehall := testutils.CreateTopic(t, db, "Whitehall", false)

	entry := &models.Entry{
		DiaryDate: models.Date(1660, time.January, 1),
		Title:     "Sunday 1 January 1659/60",
		Text: "Blessed be God, at the end of the last year I was in very good health. " +
			"I went to [Whitehall](/encyclopedia/" + strconv.Itoa(whitehall.ID) + "/) and " +
			"[elsewhere](https://www.pepysdiary.com/encyclopedia/9999/).",
		Footnotes: "[Pepys](https://www.pepysdiary.com/encyclopedia/" + strconv.Itoa(pepys.ID) + "/)",
	}
	require.NoError(t, svc.CreateEntry(ctx, entry))

	assert.NotZero(t, entry.ID)
	assert.Equal(t, models.Date(1660, time.January, 1), entry.DiaryDate)
	assert.Contains(t, entry.TextHTML, "<p>Blessed be God")
	assert.Equal(t, []int{pepys.ID, whitehall.ID}, entryTopicIDs(t, db, entry.ID))

	topics, err := svc.ListEntryTopics(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, pepys.ID, topics[0].ID)

	results, _, err := svc.searchService.Search(ctx, search.SearchOptions{Query: "health", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/diary/1660/01/01/", results[0].URL)

	dupe := &models.Entry{DiaryDate: models.Date(1660, time.January, 1), Title: "Again"}
	assert.Equal(t, errcodes.Conflict("An entry for 1660-01-01"), svc.CreateEntry(ctx, dupe))
}

func TestUpdateEntry_RefreshesTopics(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	first := testutils.CreateTopic(t, db, "Navy Office", false)
	second := testutils.CreateTopic(t, db, "Seething Lane", false)

	entry := &models.Entry{
		DiaryDate: models.Date(1660, time.July, 4),
		Title:     "Wednesday 4 July 1660",
		Text:      "To the [office](/encyclopedia/" + strconv.Itoa(first.ID) + "/).",
	}
	require.NoError(t, svc.CreateEntry(ctx, entry))
	assert.Equal(t, []int{first.ID}, entryTopicIDs(t, db, entry.ID))

	entry.Text = "Home to [Seething Lane](/encyclopedia/" + strconv.Itoa(second.ID) + "/)."
	require.NoError(t, svc.UpdateEntry(ctx, entry, UpdateEntryOptions{Columns: []string{"text"}}))
	assert.Contains(t, entry.TextHTML, "Seething Lane")
	assert.Equal(t, []int{second.ID}, entryTopicIDs(t, db, entry.ID))

	entry.Title = "Changed"
	require.NoError(t, svc.UpdateEntry(ctx, entry, UpdateEntryOptions{Columns: []string{"title"}}))
	assert.Equal(t, []int{second.ID}, entryTopicIDs(t, db, entry.ID))

	missing := &models.Entry{ID: 999}
	err := svc.UpdateEntry(ctx, missing, UpdateEntryOptions{Columns: []string{"title"}})
	assert.Equal(t, errcodes.NotFound("Entry"), err)
}

func TestListEntriesAndMonths(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	testutils.CreateEntry(t, db, models.Date(1660, time.February, 1), "Feb 1")
	testutils.CreateEntry(t, db, models.Date(1660, time.January, 2), "Jan 2")
	testutils.CreateEntry(t, db, models.Date(1660, time.January, 1), "Jan 1")
	testutils.CreateEntry(t, db, models.Date(1661, time.January, 1), "Jan 1 1661")

	year := 1660
	month := time.January
	entries, err := svc.ListEntries(ctx, ListEntriesOptions{Year: &year, Month: &month})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Jan 1", entries[0].Title)
	assert.Equal(t, "Jan 2", entries[1].Title)

	entries, total, err := svc.ListEntriesWithTotal(ctx, ListEntriesOptions{Year: &year, Limit: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, entries, 1)

	latest, err := svc.ListEntries(ctx, ListEntriesOptions{Latest: true, Limit: intPtr(1)})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "Jan 1 1661", latest[0].Title)

	months, err := svc.ListMonths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*Month{
		{Year: 1660, Month: time.January, Entries: 2},
		{Year: 1660, Month: time.February, Entries: 1},
		{Year: 1661, Month: time.January, Entries: 1},
	}, months)
}

func TestNeighbourEntries(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	first := testutils.CreateEntry(t, db, models.Date(1660, time.January, 1), "Jan 1")
	middle := testutils.CreateEntry(t, db, models.Date(1660, time.January, 2), "Jan 2")
	last := testutils.CreateEntry(t, db, models.Date(1660, time.January, 5), "Jan 5")

	previous, next, err := svc.NeighbourEntries(ctx, middle)
	require.NoError(t, err)
	require.NotNil(t, previous)
	require.NotNil(t, next)
	assert.Equal(t, first.ID, previous.ID)
	assert.Equal(t, last.ID, next.ID)

	previous, next, err = svc.NeighbourEntries(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, previous)
	assert.Equal(t, middle.ID, next.ID)

	previous, next, err = svc.NeighbourEntries(ctx, last)
	require.NoError(t, err)
	assert.Equal(t, middle.ID, previous.ID)
	assert.Nil(t, next)
}

func TestDayEvents(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	date := models.Date(1660, time.January, 1)
	events := []*models.DayEvent{
		{Title: "No source", EventDate: date},
		{Title: "Parliament", EventDate: date, Source: intPtr(models.DayEventSourceParliament)},
		{Title: "Gadbury second", EventDate: date, Source: intPtr(models.DayEventSourceGadbury), SortOrder: intPtr(2)},
		{Title: "Gadbury first", EventDate: date, Source: intPtr(models.DayEventSourceGadbury), SortOrder: intPtr(1)},
		{Title: "Another day", EventDate: models.Date(1660, time.January, 2)},
	}
	for _, e := range events {
		require.NoError(t, svc.CreateDayEvent(ctx, e))
	}

	got, err := svc.ListDayEvents(ctx, date)
	require.NoError(t, err)
	titles := make([]string, 0, len(got))
	for _, e := range got {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Gadbury first", "Gadbury second", "Parliament", "No source"}, titles)
	assert.Equal(t, "John Gadbury’s London Diary", got[0].SourceLabel())

	require.NoError(t, svc.DeleteDayEvent(ctx, got[0].ID))
	assert.Equal(t, errcodes.NotFound("Day event"), svc.DeleteDayEvent(ctx, got[0].ID))
}

func TestSummaries(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	jan := &models.Summary{SummaryDate: models.Date(1660, time.January, 15), Title: "January 1660", Text: "A *cold* month."}
	require.NoError(t, svc.CreateSummary(ctx, jan))
	assert.Equal(t, models.Date(1660, time.January, 1), jan.SummaryDate)
	assert.Contains(t, jan.TextHTML, "<em>cold</em>")

	require.NoError(t, svc.CreateSummary(ctx, &models.Summary{SummaryDate: models.Date(1661, time.March, 1), Title: "March 1661"}))

	err := svc.CreateSummary(ctx, &models.Summary{SummaryDate: models.Date(1660, time.January, 3), Title: "Again"})
	assert.Equal(t, errcodes.Conflict("A summary for January 1660"), err)

	years, err := svc.ListSummaryYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1660, 1661}, years)

	year := 1660
	summaries, err := svc.ListSummaries(ctx, ListSummariesOptions{Year: &year})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, jan.ID, summaries[0].ID)

	month := models.Date(1660, time.January, 20)
	got, err := svc.RetrieveSummary(ctx, RetrieveSummaryOptions{Month: &month})
	require.NoError(t, err)
	assert.Equal(t, jan.ID, got.ID)

	got.Text = "Changed"
	require.NoError(t, svc.UpdateSummary(ctx, got, UpdateSummaryOptions{Columns: []string{"text"}}))
	assert.Equal(t, "<p>Changed</p>", got.TextHTML)
}
