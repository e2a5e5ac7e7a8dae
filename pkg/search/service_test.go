package search

import (
	"context"
	"testing"

	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pepysdiary/pepysdiary/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSearch_RanksTitleAboveBody(t *testing.T) {
	t.Parallel()
	db := testutils.SetupDB(t)
	ctx := context.Background()
	svc := NewService(db)

	topic := testutils.CreateTopic(t, db, "Plague", false)
	entry := testutils.CreateEntry(t, db, models.Date(1665, 6, 7), "Wednesday 7 June 1665")
	entry.TextHTML = "<p>Much troubled with the <em>plague</em> in Drury Lane.</p>"

	require.NoError(t, svc.Index(ctx, db, topic, topic.AbsoluteURL()))
	require.NoError(t, svc.Index(ctx, db, entry, entry.AbsoluteURL()))

	results, total, err := svc.Search(ctx, SearchOptions{Query: "plague", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, models.SearchKindTopic, results[0].Kind)
	assert.Equal(t, topic.ID, results[0].ObjectID)
	assert.Equal(t, "/encyclopedia/"+itoa(topic.ID)+"/", results[0].URL)
	assert.Equal(t, models.SearchKindEntry, results[1].Kind)
	assert.Contains(t, results[1].Snippet, "<b>plague</b>")
}

func TestSearch_FiltersByKindAndPages(t *testing.T) {
	t.Parallel()
	db := testutils.SetupDB(t)
	ctx := context.Background()
	svc := NewService(db)

	for _, title := range []string{"Whitehall", "Whitehall Stairs", "Whitehall Palace"} {
		topic := testutils.CreateTopic(t, db, title, false)
		require.NoError(t, svc.Index(ctx, db, topic, topic.AbsoluteURL()))
	}
	entry := testutils.CreateEntry(t, db, models.Date(1660, 3, 1), "To Whitehall")
	require.NoError(t, svc.Index(ctx, db, entry, entry.AbsoluteURL()))

	results, total, err := svc.Search(ctx, SearchOptions{Query: "whitehall", Kind: strPtr(models.SearchKindTopic), Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 3, total)

	results, _, err = svc.Search(ctx, SearchOptions{Query: "whitehall", Kind: strPtr(models.SearchKindTopic), Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()
	db := testutils.SetupDB(t)

	results, total, err := NewService(db).Search(context.Background(), SearchOptions{Query: "  ", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, total)
}

func TestSearch_OperatorsAreLiteral(t *testing.T) {
	t.Parallel()
	db := testutils.SetupDB(t)
	ctx := context.Background()
	svc := NewService(db)

	topic := testutils.CreateTopic(t, db, "Tower of London", false)
	require.NoError(t, svc.Index(ctx, db, topic, topic.AbsoluteURL()))

	_, _, err := svc.Search(ctx, SearchOptions{Query: `tower" OR NEAR(`, Limit: 10})
	require.NoError(t, err)
}

func TestIndex_ReplacesExistingDocument(t *testing.T) {
	t.Parallel()
	db := testutils.SetupDB(t)
	ctx := context.Background()
	svc := NewService(db)

	topic := testutils.CreateTopic(t, db, "Cock Tavern", false)
	require.NoError(t, svc.Index(ctx, db, topic, topic.AbsoluteURL()))

	topic.Title = "Dolphin Tavern"
	require.NoError(t, svc.Index(ctx, db, topic, topic.AbsoluteURL()))

	results, _, err := svc.Search(ctx, SearchOptions{Query: "tavern", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dolphin Tavern", results[0].Title)
}

func TestIndex_SkipsHiddenObjects(t *testing.T) {
	t.Parallel()
	db := testutils.SetupDB(t)
	ctx := context.Background()
	svc := NewService(db)

	draft := testutils.CreateArticle(t, db, models.Date(2010, 1, 1), "draft-piece", "Draft piece on music", models.StatusDraft)
	require.NoError(t, svc.Index(ctx, db, draft, draft.AbsoluteURL()))

	entry := testutils.CreateEntry(t, db, models.Date(1660, 1, 1), "New Year")
	annotation := testutils.CreateAnnotation(t, db, entry, "Reader", "Lovely music tonight")
	annotation.IsPublic = false
	require.NoError(t, svc.Index(ctx, db, annotation, AnnotationURL(entry.AbsoluteURL(), annotation)))

	results, _, err := svc.Search(ctx, SearchOptions{Query: "music", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRebuildAll(t *testing.T) {
	t.Parallel()
	db := testutils.SetupDB(t)
	ctx := context.Background()
	svc := NewService(db)

	testutils.CreateTopic(t, db, "Navy Office", false)
	entry := testutils.CreateEntry(t, db, models.Date(1660, 7, 4), "Navy business")
	testutils.CreateArticle(t, db, models.Date(2010, 1, 1), "navy", "The Navy", models.StatusPublished)
	testutils.CreateArticle(t, db, models.Date(2010, 1, 2), "navy-draft", "Navy draft", models.StatusDraft)
	testutils.CreatePost(t, db, models.Date(2011, 1, 1), "Navy news", models.PostCategorySiteNews, models.StatusPublished)
	testutils.CreateLetter(t, db, models.Date(1665, 1, 1), "navy-letter", "About the navy")
	visible := testutils.CreateAnnotation(t, db, entry, "Reader", "The navy again")
	removed := testutils.CreateAnnotation(t, db, entry, "Spammer", "Buy navy boots")
	_, err := db.NewUpdate().Model(removed).Set("is_removed = ?", true).WherePK().Exec(ctx)
	require.NoError(t, err)

	counts, err := svc.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.SearchKindTopic])
	assert.Equal(t, 1, counts[models.SearchKindEntry])
	assert.Equal(t, 1, counts[models.SearchKindArticle])
	assert.Equal(t, 1, counts[models.SearchKindPost])
	assert.Equal(t, 1, counts[models.SearchKindLetter])
	assert.Equal(t, 1, counts[models.SearchKindAnnotation])

	results, total, err := svc.Search(ctx, SearchOptions{Query: "navy", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 6, total)

	var annotationURL string
	for _, r := range results {
		if r.Kind == models.SearchKindAnnotation {
			annotationURL = r.URL
		}
	}
	assert.Equal(t, "/diary/1660/07/04/#c"+itoa(visible.ID), annotationURL)
}
