package diary

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pepysdiary/pepysdiary/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupHandlerTest(t *testing.T) (*echo.Echo, *Service, *bun.DB) {
	t.Helper()
	svc, db := newTestService(t)
	cfg := config.NewForTest()
	annotationService := annotations.NewService(db, search.NewService(db))

	e := testutils.NewEcho(t)
	RegisterRoutesWithGroup(e.Group("/diary"), cfg, svc, annotationService)
	RegisterAdminRoutesWithGroup(e.Group("/admin"), cfg, svc, annotationService)
	return e, svc, db
}

func TestHandlers_EntryDetail(t *testing.T) {
	t.Parallel()
	e, svc, db := setupHandlerTest(t)
	ctx := context.Background()

	testutils.CreateEntry(t, db, models.Date(1660, time.January, 1), "Jan 1")
	entry := testutils.CreateEntry(t, db, models.Date(1660, time.January, 2), "Jan 2")
	testutils.CreateAnnotation(t, db, entry, "Bill", "Interesting")
	require.NoError(t, svc.CreateDayEvent(ctx, &models.DayEvent{
		Title:     "Parliament sat",
		EventDate: entry.DiaryDate,
		Source:    intPtr(models.DayEventSourceParliament),
	}))

	rec := testutils.Do(t, e, http.MethodGet, "/diary/1660/01/02/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ID       int    `json:"id"`
		URL      string `json:"url"`
		Previous *struct {
			URL string `json:"url"`
		} `json:"previous"`
		Next      interface{} `json:"next"`
		DayEvents []struct {
			Title       string `json:"title"`
			SourceLabel string `json:"source_label"`
		} `json:"day_events"`
		Annotations []struct {
			UserName string `json:"user_name"`
		} `json:"annotations"`
	}
	testutils.DecodeJSON(t, rec, &resp)
	assert.Equal(t, entry.ID, resp.ID)
	assert.Equal(t, "/diary/1660/01/02/", resp.URL)
	require.NotNil(t, resp.Previous)
	assert.Equal(t, "/diary/1660/01/01/", resp.Previous.URL)
	assert.Nil(t, resp.Next)
	require.Len(t, resp.DayEvents, 1)
	assert.Equal(t, "In Parliament", resp.DayEvents[0].SourceLabel)
	require.Len(t, resp.Annotations, 1)
	assert.Equal(t, "Bill", resp.Annotations[0].UserName)
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()
	e, _, db := setupHandlerTest(t)

	testutils.CreateEntry(t, db, models.Date(1660, time.January, 1), "Jan 1")

	for _, path := range []string{
		"/diary/1660/01/03/",
		"/diary/1660/02/30/",
		"/diary/1660/13/01/",
		"/diary/1660/xx/01/",
		"/diary/1661/01/",
		"/diary/summary/1660/",
	} {
		rec := testutils.Do(t, e, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestHandlers_ArchiveAndMonth(t *testing.T) {
	t.Parallel()
	e, svc, db := setupHandlerTest(t)

	testutils.CreateEntry(t, db, models.Date(1660, time.January, 1), "Jan 1")
	testutils.CreateEntry(t, db, models.Date(1660, time.January, 2), "Jan 2")
	testutils.CreateEntry(t, db, models.Date(1661, time.March, 1), "Mar 1")
	require.NoError(t, svc.CreateSummary(context.Background(), &models.Summary{SummaryDate: models.Date(1660, time.January, 1), Title: "January 1660"}))

	rec := testutils.Do(t, e, http.MethodGet, "/diary/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var archive ArchiveResponse
	testutils.DecodeJSON(t, rec, &archive)
	require.Len(t, archive.Years, 2)
	assert.Equal(t, 1660, archive.Years[0].Year)
	require.Len(t, archive.Years[0].Months, 1)
	assert.Equal(t, "/diary/1660/01/", archive.Years[0].Months[0].URL)
	assert.Equal(t, 2, archive.Years[0].Months[0].Entries)

	rec = testutils.Do(t, e, http.MethodGet, "/diary/1660/01/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var month MonthResponse
	testutils.DecodeJSON(t, rec, &month)
	require.Len(t, month.Entries, 2)
	require.NotNil(t, month.Summary)
	assert.Equal(t, "January 1660", month.Summary.Title)

	rec = testutils.Do(t, e, http.MethodGet, "/diary/1661/03/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	month = MonthResponse{}
	testutils.DecodeJSON(t, rec, &month)
	assert.Nil(t, month.Summary)

	rec = testutils.Do(t, e, http.MethodGet, "/diary/summary/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries SummaryIndexResponse
	testutils.DecodeJSON(t, rec, &summaries)
	assert.Equal(t, []int{1660}, summaries.Years)

	rec = testutils.Do(t, e, http.MethodGet, "/diary/summary/1660/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlers_RSS(t *testing.T) {
	t.Parallel()
	e, _, db := setupHandlerTest(t)

	testutils.CreateEntry(t, db, models.Date(1660, time.January, 1), "Sunday 1 January 1659/60")

	rec := testutils.Do(t, e, http.MethodGet, "/diary/rss/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sunday 1 January 1659/60")
	assert.Contains(t, rec.Body.String(), "http://localhost:8000/diary/1660/01/01/")
}

func TestHandlers_Admin(t *testing.T) {
	t.Parallel()
	e, _, _ := setupHandlerTest(t)

	rec := testutils.Do(t, e, http.MethodPost, "/admin/entries", map[string]interface{}{
		"diary_date": "1660-01-01",
		"title":      "Sunday 1 January 1659/60",
		"text":       "Blessed be God.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry models.Entry
	testutils.DecodeJSON(t, rec, &entry)
	assert.Equal(t, "<p>Blessed be God.</p>", entry.TextHTML)
	assert.True(t, entry.AllowComments)

	rec = testutils.Do(t, e, http.MethodPost, "/admin/entries", map[string]interface{}{
		"diary_date": "1660-01-01",
		"title":      "Duplicate",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = testutils.Do(t, e, http.MethodPost, "/admin/entries", map[string]interface{}{
		"diary_date": "1 Jan 1660",
		"title":      "Bad date",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = testutils.Do(t, e, http.MethodPatch, "/admin/entries/"+strconv.Itoa(entry.ID), map[string]interface{}{
		"allow_comments": false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	testutils.DecodeJSON(t, rec, &entry)
	assert.False(t, entry.AllowComments)

	rec = testutils.Do(t, e, http.MethodPost, "/admin/summaries", map[string]interface{}{
		"summary_date": "1660-01-01",
		"title":        "January 1660",
		"text":         "Cold.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var summary models.Summary
	testutils.DecodeJSON(t, rec, &summary)

	rec = testutils.Do(t, e, http.MethodPatch, "/admin/summaries/"+strconv.Itoa(summary.ID), map[string]interface{}{
		"title": "January, 1660",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = testutils.Do(t, e, http.MethodPost, "/admin/day-events", map[string]interface{}{
		"event_date": "1660-01-01",
		"title":      "Frost",
		"source":     10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var event models.DayEvent
	testutils.DecodeJSON(t, rec, &event)

	rec = testutils.Do(t, e, http.MethodPost, "/admin/day-events", map[string]interface{}{
		"event_date": "1660-01-01",
		"title":      "Frost",
		"source":     15,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = testutils.Do(t, e, http.MethodDelete, "/admin/day-events/"+strconv.Itoa(event.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
