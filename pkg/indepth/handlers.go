package indepth

import (
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
	articleService    *Service
	annotationService *annotations.Service
	feedBuilder       *feeds.Builder
}

func summaries(articles []*models.Article) []*ArticleSummary {
	out := make([]*ArticleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, &ArticleSummary{Article: a, URL: a.AbsoluteURL()})
	}
	return out
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListArticlesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	articles, total, err := h.articleService.ListArticlesWithTotal(ctx, ListArticlesOptions{
		Limit:         &params.Limit,
		Offset:        &params.Offset,
		PublishedOnly: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ListArticlesResponse{Articles: summaries(articles), Total: total}))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	day, ok := models.ParseDatePath(c.Param("year"), c.Param("month"), c.Param("day"))
	if !ok {
		return errcodes.NotFound("Article")
	}
	slug := c.Param("slug")

	article, err := h.articleService.RetrieveArticle(ctx, RetrieveArticleOptions{
		Day:           &day,
		Slug:          &slug,
		PublishedOnly: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	previous, next, err := h.articleService.NeighbourArticles(ctx, article)
	if err != nil {
		return errors.WithStack(err)
	}

	notes, err := h.annotationService.ListVisibleAnnotations(ctx, article)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ArticleResponse{
		Article:     article,
		URL:         article.AbsoluteURL(),
		Previous:    newArticleLink(previous),
		Next:        newArticleLink(next),
		Annotations: notes,
	}))
}

func (h *handler) rss(c echo.Context) error {
	ctx := c.Request().Context()

	limit := h.config.FeedItemCount
	articles, err := h.articleService.ListArticles(ctx, ListArticlesOptions{Limit: &limit, PublishedOnly: true})
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]feeds.Item, 0, len(articles))
	for _, a := range articles {
		items = append(items, feeds.Item{
			Title:       a.Title,
			Path:        a.AbsoluteURL(),
			Description: a.IntroHTML,
			Content:     a.IntroHTML + a.TextHTML,
			Author:      a.AuthorName,
			Published:   a.DatePublished,
			Updated:     a.UpdatedAt,
		})
	}

	feed := h.feedBuilder.Build(
		"The Diary of Samuel Pepys: In-Depth Articles",
		"/indepth/",
		"Longer articles about Pepys and his world",
		items,
	)
	return feeds.Write(c, feed)
}

func (h *handler) adminList(c echo.Context) error {
	ctx := c.Request().Context()

	params := AdminListArticlesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	articles, total, err := h.articleService.ListArticlesWithTotal(ctx, ListArticlesOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ListArticlesResponse{Articles: summaries(articles), Total: total}))
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errcodes.ValidationError("date_published must be YYYY-MM-DD.")
	}
	return t, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateArticlePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	article := &models.Article{
		Title:         params.Title,
		Slug:          params.Slug,
		Status:        params.Status,
		AuthorName:    params.AuthorName,
		AuthorURL:     params.AuthorURL,
		ItemAuthors:   params.ItemAuthors,
		Intro:         params.Intro,
		Text:          params.Text,
		CoverWidth:    params.CoverWidth,
		CoverHeight:   params.CoverHeight,
		AllowComments: params.AllowComments == nil || *params.AllowComments,
	}
	if params.DatePublished != "" {
		date, err := parseDate(params.DatePublished)
		if err != nil {
			return err
		}
		article.DatePublished = date
	}

	if err := h.articleService.CreateArticle(ctx, article); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, article))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Article")
	}

	params := UpdateArticlePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	article, err := h.articleService.RetrieveArticle(ctx, RetrieveArticleOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateArticleOptions{Columns: []string{}}
	setString := func(value *string, field *string, column string) {
		if value != nil && *value != *field {
			*field = *value
			opts.Columns = append(opts.Columns, column)
		}
	}
	setString(params.Title, &article.Title, "title")
	setString(params.Slug, &article.Slug, "slug")
	setString(params.Status, &article.Status, "status")
	setString(params.AuthorName, &article.AuthorName, "author_name")
	setString(params.AuthorURL, &article.AuthorURL, "author_url")
	setString(params.ItemAuthors, &article.ItemAuthors, "item_authors")
	setString(params.Intro, &article.Intro, "intro")
	setString(params.Text, &article.Text, "text")

	if params.DatePublished != nil {
		date, err := parseDate(*params.DatePublished)
		if err != nil {
			return err
		}
		if !date.Equal(article.DatePublished) {
			article.DatePublished = date
			opts.Columns = append(opts.Columns, "date_published")
		}
	}
	if params.AllowComments != nil && *params.AllowComments != article.AllowComments {
		article.AllowComments = *params.AllowComments
		opts.Columns = append(opts.Columns, "allow_comments")
	}

	if err := h.articleService.UpdateArticle(ctx, article, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, article))
}
