package letters

import (
	"context"
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
	return NewService(db, search.NewService(db)), db
}

func strPtr(s string) *string { return &s }

func TestCreateLetter(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	letter := &models.Letter{
		Title:      "Letter to John Evelyn",
		LetterDate: models.Date(1665, time.September, 3),
		Sender:     "Samuel Pepys",
		Recipient:  "John Evelyn",
		Text:       "The plague increases *daily*.",
		Footnotes:  "Written from Greenwich.",
	}
	require.NoError(t, svc.CreateLetter(ctx, letter))

	assert.NotZero(t, letter.ID)
	assert.Equal(t, models.Date(1665, time.September, 3), letter.LetterDate)
	assert.Equal(t, "letter-to-john-evelyn", letter.Slug)
	assert.Equal(t, "<p>The plague increases <em>daily</em>.</p>", letter.TextHTML)
	assert.Contains(t, letter.FootnotesHTML, "Greenwich")
	assert.Equal(t, "/letters/1665/09/03/letter-to-john-evelyn/", letter.AbsoluteURL())

	results, _, err := svc.searchService.Search(ctx, search.SearchOptions{Query: "plague", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, letter.AbsoluteURL(), results[0].URL)

	withSlug := &models.Letter{Title: "Another", Slug: "custom", LetterDate: models.Date(1665, time.September, 4)}
	require.NoError(t, svc.CreateLetter(ctx, withSlug))
	assert.Equal(t, "custom", withSlug.Slug)
}

func TestRetrieveLetter(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	date := models.Date(1665, time.September, 3)
	letter := testutils.CreateLetter(t, db, date, "to-evelyn", "To Evelyn")

	got, err := svc.RetrieveLetter(ctx, RetrieveLetterOptions{Date: &date, Slug: strPtr("to-evelyn")})
	require.NoError(t, err)
	assert.Equal(t, letter.ID, got.ID)

	other := models.Date(1665, time.September, 4)
	_, err = svc.RetrieveLetter(ctx, RetrieveLetterOptions{Date: &other, Slug: strPtr("to-evelyn")})
	assert.Equal(t, errcodes.NotFound("Letter"), err)
}

func TestListLetters_Person(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	testutils.CreateLetter(t, db, models.Date(1665, time.September, 3), "a", "A")
	fromCoventry := &models.Letter{
		Title:      "From Coventry",
		Slug:       "from-coventry",
		LetterDate: models.Date(1664, time.May, 1),
		Sender:     "William Coventry",
		Recipient:  "Samuel Pepys",
	}
	testutils.Insert(t, db, fromCoventry)

	letters, total, err := svc.ListLettersWithTotal(ctx, ListLettersOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, letters, 2)
	assert.Equal(t, fromCoventry.ID, letters[0].ID)

	letters, err = svc.ListLetters(ctx, ListLettersOptions{Person: strPtr("Samuel Pepys")})
	require.NoError(t, err)
	assert.Len(t, letters, 2)

	letters, err = svc.ListLetters(ctx, ListLettersOptions{Person: strPtr("John Evelyn")})
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "a", letters[0].Slug)
}

func TestNeighbourLetters(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	date := models.Date(1665, time.September, 3)
	first := testutils.CreateLetter(t, db, models.Date(1665, time.September, 1), "first", "First")
	second := testutils.CreateLetter(t, db, date, "second", "Second")
	third := testutils.CreateLetter(t, db, date, "third", "Third")

	previous, next, err := svc.NeighbourLetters(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, previous)
	require.NotNil(t, next)
	assert.Equal(t, first.ID, previous.ID)
	assert.Equal(t, third.ID, next.ID)

	previous, next, err = svc.NeighbourLetters(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, previous)
	require.NotNil(t, next)
	assert.Equal(t, second.ID, next.ID)
}

func TestUpdateLetter(t *testing.T) {
	t.Parallel()
	svc, db := newTestService(t)
	ctx := context.Background()

	letter := testutils.CreateLetter(t, db, models.Date(1665, time.September, 3), "a", "A")
	letter.Text = "Now **bold**."
	require.NoError(t, svc.UpdateLetter(ctx, letter, UpdateLetterOptions{Columns: []string{"text"}}))

	got, err := svc.RetrieveLetter(ctx, RetrieveLetterOptions{ID: &letter.ID})
	require.NoError(t, err)
	assert.Equal(t, "<p>Now <strong>bold</strong>.</p>", got.TextHTML)

	missing := &models.Letter{ID: 9999, Title: "Gone"}
	assert.Equal(t, errcodes.NotFound("Letter"), svc.UpdateLetter(ctx, missing, UpdateLetterOptions{Columns: []string{"title"}}))
}
