package indepth

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
	RegisterRoutesWithGroup(e.Group("/indepth"), config.NewForTest(), svc, annotationService)
	RegisterAdminRoutesWithGroup(e.Group("/admin/articles"), svc)
	return e, db
}

func TestHandlers_PublicOnlySeesPublished(t *testing.T) {
	t.Parallel()
	e, db := setupHandlerTest(t)

	article := testutils.CreateArticle(t, db, models.Date(2012, time.March, 5), "plague", "The Plague Year", models.StatusPublished)
	testutils.CreateArticle(t, db, models.Date(2012, time.March, 6), "unfinished", "Unfinished", models.StatusDraft)
	testutils.CreateAnnotation(t, db, article, "Bill", "Grim.")

	rec := testutils.Do(t, e, http.MethodGet, "/indepth/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list ListArticlesResponse
	testutils.DecodeJSON(t, rec, &list)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Articles, 1)
	assert.Equal(t, "/indepth/2012/03/05/plague/", list.Articles[0].URL)

	rec = testutils.Do(t, e, http.MethodGet, "/indepth/2012/03/05/plague/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ArticleResponse
	testutils.DecodeJSON(t, rec, &resp)
	assert.Equal(t, article.ID, resp.ID)
	require.Len(t, resp.Annotations, 1)

	rec = testutils.Do(t, e, http.MethodGet, "/indepth/2012/03/06/unfinished/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutils.Do(t, e, http.MethodGet, "/indepth/rss/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Plague Year")
	assert.NotContains(t, rec.Body.String(), "Unfinished")
}

func TestHandlers_Admin(t *testing.T) {
	t.Parallel()
	e, _ := setupHandlerTest(t)

	rec := testutils.Do(t, e, http.MethodPost, "/admin/articles", map[string]interface{}{
		"title":          "The Great Fire",
		"author_name":    "Phil Gyford",
		"date_published": "2012-09-02",
		"intro":          "London burns.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var article models.Article
	testutils.DecodeJSON(t, rec, &article)
	assert.Equal(t, "the-great-fire", article.Slug)
	assert.Equal(t, models.StatusDraft, article.Status)

	rec = testutils.Do(t, e, http.MethodGet, "/indepth/2012/09/02/the-great-fire/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutils.Do(t, e, http.MethodPatch, "/admin/articles/"+strconv.Itoa(article.ID), map[string]interface{}{
		"status": "published",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = testutils.Do(t, e, http.MethodGet, "/indepth/2012/09/02/the-great-fire/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutils.Do(t, e, http.MethodPatch, "/admin/articles/"+strconv.Itoa(article.ID), map[string]interface{}{
		"status": "archived",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = testutils.Do(t, e, http.MethodGet, "/admin/articles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListArticlesResponse
	testutils.DecodeJSON(t, rec, &list)
	assert.Equal(t, 1, list.Total)
}
