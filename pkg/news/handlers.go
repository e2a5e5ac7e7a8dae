package news

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
	postService       *Service
	annotationService *annotations.Service
	feedBuilder       *feeds.Builder
}

func summaries(posts []*models.Post) []*PostSummary {
	out := make([]*PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostSummary(p))
	}
	return out
}

func (h *handler) listPosts(c echo.Context, category *string) error {
	ctx := c.Request().Context()

	params := ListPostsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	posts, total, err := h.postService.ListPostsWithTotal(ctx, ListPostsOptions{
		Limit:         &params.Limit,
		Offset:        &params.Offset,
		Category:      category,
		PublishedOnly: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := &ListPostsResponse{Posts: summaries(posts), Total: total}
	if category != nil {
		resp.Category = *category
		resp.CategoryLabel = models.PostCategoryLabels[*category]
	}
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) list(c echo.Context) error {
	return h.listPosts(c, nil)
}

func (h *handler) category(c echo.Context) error {
	category := c.Param("category")
	if _, ok := models.PostCategoryLabels[category]; !ok {
		return errcodes.NotFound("Category")
	}
	return h.listPosts(c, &category)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	day, ok := models.ParseDatePath(c.Param("year"), c.Param("month"), c.Param("day"))
	if !ok {
		return errcodes.NotFound("Post")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Post")
	}

	post, err := h.postService.RetrievePost(ctx, RetrievePostOptions{ID: &id, Day: &day, PublishedOnly: true})
	if err != nil {
		return errors.WithStack(err)
	}

	notes, err := h.annotationService.ListVisibleAnnotations(ctx, post)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &PostResponse{
		PostSummary: newPostSummary(post),
		Annotations: notes,
	}))
}

func (h *handler) rss(c echo.Context) error {
	ctx := c.Request().Context()

	limit := h.config.FeedItemCount
	posts, err := h.postService.ListPosts(ctx, ListPostsOptions{Limit: &limit, PublishedOnly: true})
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]feeds.Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, feeds.Item{
			Title:       p.Title,
			Path:        p.AbsoluteURL(),
			Description: p.IntroHTML,
			Content:     p.IntroHTML + p.TextHTML,
			Published:   p.DatePublished,
			Updated:     p.UpdatedAt,
		})
	}

	feed := h.feedBuilder.Build(
		"The Diary of Samuel Pepys: Site News",
		"/news/",
		"News about the Pepys' Diary website",
		items,
	)
	return feeds.Write(c, feed)
}

func (h *handler) adminList(c echo.Context) error {
	ctx := c.Request().Context()

	params := AdminListPostsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	posts, total, err := h.postService.ListPostsWithTotal(ctx, ListPostsOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		Category: params.Category,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &ListPostsResponse{Posts: summaries(posts), Total: total}))
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

	params := CreatePostPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	post := &models.Post{
		Title:         params.Title,
		Status:        params.Status,
		Category:      params.Category,
		Intro:         params.Intro,
		Text:          params.Text,
		AllowComments: params.AllowComments == nil || *params.AllowComments,
	}
	if params.DatePublished != "" {
		date, err := parseDate(params.DatePublished)
		if err != nil {
			return err
		}
		post.DatePublished = date
	}

	if err := h.postService.CreatePost(ctx, post); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, newPostSummary(post)))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Post")
	}

	params := UpdatePostPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	post, err := h.postService.RetrievePost(ctx, RetrievePostOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdatePostOptions{Columns: []string{}}
	if params.Title != nil && *params.Title != post.Title {
		post.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Status != nil && *params.Status != post.Status {
		post.Status = *params.Status
		opts.Columns = append(opts.Columns, "status")
	}
	if params.Category != nil && *params.Category != post.Category {
		post.Category = *params.Category
		opts.Columns = append(opts.Columns, "category")
	}
	if params.Intro != nil && *params.Intro != post.Intro {
		post.Intro = *params.Intro
		opts.Columns = append(opts.Columns, "intro")
	}
	if params.Text != nil && *params.Text != post.Text {
		post.Text = *params.Text
		opts.Columns = append(opts.Columns, "text")
	}
	if params.DatePublished != nil {
		date, err := parseDate(*params.DatePublished)
		if err != nil {
			return err
		}
		if !date.Equal(post.DatePublished) {
			post.DatePublished = date
			opts.Columns = append(opts.Columns, "date_published")
		}
	}
	if params.AllowComments != nil && *params.AllowComments != post.AllowComments {
		post.AllowComments = *params.AllowComments
		opts.Columns = append(opts.Columns, "allow_comments")
	}

	if err := h.postService.UpdatePost(ctx, post, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, newPostSummary(post)))
}
