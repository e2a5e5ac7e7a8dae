package letters

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pepysdiary/pepysdiary/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupHandlerTest(t *testing.T) (*echo.Echo, *bun.DB) {
	t.Helper()
	svc, db := newTestService(t)
	annotationService := annotations.NewService(db, search.NewService(db))

	e := testutils.NewEcho(t)
	RegisterRoutesWithGroup(e.Group("/letters"), svc, annotationService)
	RegisterAdminRoutesWithGroup(e.Group("/admin/letters"), svc)
	return e, db
}

func TestHandlers_LetterDetail(t *testing.T) {
	t.Parallel()
	e, db := setupHandlerTest(t)

	testutils.CreateLetter(t, db, models.Date(1665, time.September, 1), "first", "First")
	letter := testutils.CreateLetter(t, db, models.Date(1665, time.September, 3), "to-evelyn", "To Evelyn")
	testutils.CreateAnnotation(t, db, letter, "Bill", "Evelyn kept a diary too.")

	rec := testutils.Do(t, e, http.MethodGet, "/letters/1665/09/03/to-evelyn/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LetterResponse
	testutils.DecodeJSON(t, rec, &resp)
	assert.Equal(t, letter.ID, resp.ID)
	assert.Equal(t, "/letters/1665/09/03/to-evelyn/", resp.URL)
	require.NotNil(t, resp.Previous)
	assert.Equal(t, "/letters/1665/09/01/first/", resp.Previous.URL)
	assert.Nil(t, resp.Next)
	require.Len(t, resp.Annotations, 1)
	assert.Equal(t, "Bill", resp.Annotations[0].UserName)

	for _, path := range []string{
		"/letters/1665/09/04/to-evelyn/",
		"/letters/1665/09/03/nope/",
		"/letters/1665/02/30/to-evelyn/",
	} {
		rec := testutils.Do(t, e, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestHandlers_List(t *testing.T) {
	t.Parallel()
	e, db := setupHandlerTest(t)

	testutils.CreateLetter(t, db, models.Date(1665, time.September, 3), "a", "A")
	testutils.Insert(t, db, &models.Letter{
		Title:      "From Coventry",
		Slug:       "from-coventry",
		LetterDate: models.Date(1664, time.May, 1),
		Sender:     "William Coventry",
		Recipient:  "Samuel Pepys",
	})

	rec := testutils.Do(t, e, http.MethodGet, "/letters/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ListLettersResponse
	testutils.DecodeJSON(t, rec, &resp)
	assert.Equal(t, 2, resp.Total)

	rec = testutils.Do(t, e, http.MethodGet, "/letters/?person=William+Coventry", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = ListLettersResponse{}
	testutils.DecodeJSON(t, rec, &resp)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Letters, 1)
	assert.Equal(t, "from-coventry", resp.Letters[0].Slug)

	rec = testutils.Do(t, e, http.MethodGet, "/letters/?sender=x", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unknown_parameter", testutils.ErrorCode(t, rec))
}

func TestHandlers_Admin(t *testing.T) {
	t.Parallel()
	e, _ := setupHandlerTest(t)

	rec := testutils.Do(t, e, http.MethodPost, "/admin/letters", map[string]interface{}{
		"title":       "  Letter to John Evelyn ",
		"letter_date": "1665-09-03",
		"sender":      "Samuel Pepys",
		"recipient":   "John Evelyn",
		"text":        "The plague.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var letter models.Letter
	testutils.DecodeJSON(t, rec, &letter)
	assert.Equal(t, "Letter to John Evelyn", letter.Title)
	assert.Equal(t, "letter-to-john-evelyn", letter.Slug)
	assert.True(t, letter.AllowComments)

	rec = testutils.Do(t, e, http.MethodPost, "/admin/letters", map[string]interface{}{
		"title":       "Bad",
		"letter_date": "1665-09-03",
		"sender":      "Samuel Pepys",
		"recipient":   "John Evelyn",
		"slug":        "Not A Slug",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = testutils.Do(t, e, http.MethodPatch, "/admin/letters/"+strconv.Itoa(letter.ID), map[string]interface{}{
		"recipient":      "Mr Evelyn",
		"allow_comments": false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	testutils.DecodeJSON(t, rec, &letter)
	assert.Equal(t, "Mr Evelyn", letter.Recipient)
	assert.False(t, letter.AllowComments)

	rec = testutils.Do(t, e, http.MethodPatch, "/admin/letters/9999", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
