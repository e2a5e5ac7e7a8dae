package news

import (
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

func setupHandlerTest(t *testing.T) (*echo.Echo, *bun.DB) {
	t.Helper()
	svc, db := newTestService(t)
	annotationService := annotations.NewService(db, search.NewService(db))

	e := testutils.NewEcho(t)
	RegisterRoutesWithGroup(e.Group("/news"), config.NewForTest(), svc, annotationService)
	RegisterAdminRoutesWithGroup(e.Group("/admin/posts"), svc)
	return e, db
}

func TestHandlers_Public(t *testing.T) {
	t.Parallel()
	e, db := setupHandlerTest(t)

	post := testutils.CreatePost(t, db, models.Date(2013, time.May, 2), "Hello readers", models.PostCategoryBlog, models.StatusPublished)
	testutils.CreatePost(t, db, models.Date(2013, time.June, 2), "Numbers", models.PostCategoryStatistics, models.StatusPublished)
	draft := testutils.CreatePost(t, db, models.Date(2013, time.July, 2), "Secret", models.PostCategoryBlog, models.StatusDraft)

	rec := testutils.Do(t, e, http.MethodGet, "/news/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list ListPostsResponse
	testutils.DecodeJSON(t, rec, &list)
	assert.Equal(t, 2, list.Total)

	rec = testutils.Do(t, e, http.MethodGet, "/news/blog/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list = ListPostsResponse{}
	testutils.DecodeJSON(t, rec, &list)
	assert.Equal(t, "Blog", list.CategoryLabel)
	require.Len(t, list.Posts, 1)
	assert.Equal(t, "/news/2013/05/02/"+strconv.Itoa(post.ID)+"/", list.Posts[0].URL)

	rec = testutils.Do(t, e, http.MethodGet, "/news/gossip/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutils.Do(t, e, http.MethodGet, post.AbsoluteURL(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp PostResponse
	testutils.DecodeJSON(t, rec, &resp)
	assert.Equal(t, post.ID, resp.ID)
	assert.Equal(t, "Blog", resp.CategoryLabel)

	for _, path := range []string{
		draft.AbsoluteURL(),
		"/news/2013/05/03/" + strconv.Itoa(post.ID) + "/",
		"/news/2013/05/02/abc/",
	} {
		rec := testutils.Do(t, e, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec = testutils.Do(t, e, http.MethodGet, "/news/rss/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello readers")
	assert.NotContains(t, rec.Body.String(), "Secret")
}

func TestHandlers_Admin(t *testing.T) {
	t.Parallel()
	e, _ := setupHandlerTest(t)

	rec := testutils.Do(t, e, http.MethodPost, "/admin/posts", map[string]interface{}{
		"title":          "New search",
		"category":       "new-features",
		"date_published": "2013-05-02",
		"status":         "published",
		"intro":          "Search is faster.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post PostSummary
	testutils.DecodeJSON(t, rec, &post)
	assert.Equal(t, "New features", post.CategoryLabel)

	rec = testutils.Do(t, e, http.MethodPost, "/admin/posts", map[string]interface{}{
		"title":    "Bad",
		"category": "gossip",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = testutils.Do(t, e, http.MethodPatch, "/admin/posts/"+strconv.Itoa(post.ID), map[string]interface{}{
		"category": "site-news",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	post = PostSummary{}
	testutils.DecodeJSON(t, rec, &post)
	assert.Equal(t, models.PostCategorySiteNews, post.Category)

	rec = testutils.Do(t, e, http.MethodGet, "/admin/posts?category=site-news", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list ListPostsResponse
	testutils.DecodeJSON(t, rec, &list)
	assert.Equal(t, 1, list.Total)
}
