package encyclopedia

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/feeds"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	config              *config.Config
	encyclopediaService *Service
	feedBuilder         *feeds.Builder
}

func categoryURL(slugPath string) string {
	return "/encyclopedia/" + slugPath + "/"
}

func (h *handler) index(c echo.Context) error {
	ctx := c.Request().Context()

	roots, err := h.encyclopediaService.ListRootCategories(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := &EncyclopediaResponse{Categories: make([]*CategoryWithChildren, 0, len(roots))}
	for _, root := range roots {
		children, err := h.encyclopediaService.ListChildCategories(ctx, root)
		if err != nil {
			return errors.WithStack(err)
		}
		resp.Categories = append(resp.Categories, &CategoryWithChildren{
			Category: root,
			URL:      categoryURL(root.Slug),
			Children: children,
		})
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// detail serves both /encyclopedia/<id>/ and /encyclopedia/<slug>/<slug>/.
func (h *handler) detail(c echo.Context) error {
	path := strings.Trim(c.Param("*"), "/")
	if path == "" {
		return h.index(c)
	}
	if id, err := strconv.Atoi(path); err == nil {
		return h.topic(c, id)
	}
	return h.category(c, strings.Split(path, "/"))
}

func (h *handler) topic(c echo.Context, id int) error {
	ctx := c.Request().Context()

	topic, err := h.encyclopediaService.RetrieveTopic(ctx, RetrieveTopicOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	entries, err := h.encyclopediaService.ListTopicEntries(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	references := make([]*TopicReference, 0, len(entries))
	for _, e := range entries {
		references = append(references, &TopicReference{
			ID:        e.ID,
			DiaryDate: e.DiaryDate,
			Title:     e.Title,
			URL:       e.AbsoluteURL(),
		})
	}

	return errors.WithStack(c.JSON(http.StatusOK, &TopicResponse{
		Topic:      topic,
		URL:        topic.AbsoluteURL(),
		References: references,
	}))
}

func (h *handler) category(c echo.Context, slugs []string) error {
	ctx := c.Request().Context()

	params := ListCategoryTopicsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	category, err := h.encyclopediaService.RetrieveCategoryBySlugs(ctx, slugs)
	if err != nil {
		return errors.WithStack(err)
	}

	ancestors, err := h.encyclopediaService.ListAncestorCategories(ctx, category)
	if err != nil {
		return errors.WithStack(err)
	}

	children, err := h.encyclopediaService.ListChildCategories(ctx, category)
	if err != nil {
		return errors.WithStack(err)
	}

	topics, total, err := h.encyclopediaService.ListTopicsWithTotal(ctx, ListTopicsOptions{
		CategoryID: &category.ID,
		Limit:      &params.Limit,
		Offset:     &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &CategoryResponse{
		Category:  category,
		URL:       categoryURL(strings.Join(slugs, "/")),
		Ancestors: ancestors,
		Children:  children,
		Topics:    topics,
		Total:     total,
	}))
}

func (h *handler) mapView(c echo.Context) error {
	ctx := c.Request().Context()

	params := MapQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	categoryID := h.config.DefaultMapCategoryID
	if params.CategoryID != nil {
		categoryID = *params.CategoryID
	}
	if !containsInt(h.config.MapCategoryIDs, categoryID) {
		return errcodes.NotFound("Map category")
	}

	categories, err := h.encyclopediaService.ListCategories(ctx, h.config.MapCategoryIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	var category *models.Category
	for _, cat := range categories {
		if cat.ID == categoryID {
			category = cat
		}
	}
	if category == nil {
		return errcodes.NotFound("Map category")
	}

	topics, err := h.encyclopediaService.ListMapTopics(ctx, categoryID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &MapResponse{
		Category:   category,
		Categories: categories,
		Topics:     topics,
	}))
}

func (h *handler) rss(c echo.Context) error {
	ctx := c.Request().Context()

	limit := h.config.FeedItemCount
	topics, err := h.encyclopediaService.ListTopics(ctx, ListTopicsOptions{Latest: true, Limit: &limit})
	if err != nil {
		return errors.WithStack(err)
	}

	items := make([]feeds.Item, 0, len(topics))
	for _, t := range topics {
		items = append(items, feeds.Item{
			Title:       t.Title,
			Path:        t.AbsoluteURL(),
			Description: t.SummaryHTML,
			Published:   t.CreatedAt,
			Updated:     t.UpdatedAt,
		})
	}

	feed := h.feedBuilder.Build(
		"The Diary of Samuel Pepys: Encyclopedia",
		"/encyclopedia/",
		"Latest topics in the Pepys' Diary Encyclopedia",
		items,
	)
	return feeds.Write(c, feed)
}

func (h *handler) createTopic(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateTopicPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	topic := &models.Topic{
		Title:             params.Title,
		IsPerson:          params.IsPerson,
		Summary:           params.Summary,
		WikipediaFragment: params.WikipediaFragment,
		Latitude:          params.Latitude,
		Longitude:         params.Longitude,
		Zoom:              params.Zoom,
		AllowComments:     params.AllowComments == nil || *params.AllowComments,
	}
	if params.OrderTitle != "" {
		topic.OrderTitle = params.OrderTitle
		topic.OrderTitleSource = models.DataSourceManual
	}

	if err := h.encyclopediaService.CreateTopic(ctx, topic, params.CategoryIDs); err != nil {
		return errors.WithStack(err)
	}

	topic, err := h.encyclopediaService.RetrieveTopic(ctx, RetrieveTopicOptions{ID: &topic.ID})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, topic))
}

func (h *handler) updateTopic(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Topic")
	}

	params := UpdateTopicPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	topic, err := h.encyclopediaService.RetrieveTopic(ctx, RetrieveTopicOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateTopicOptions{Columns: []string{}, CategoryIDs: params.CategoryIDs}

	title := topic.Title
	if params.Title != nil {
		title = *params.Title
	}
	isPerson := topic.IsPerson
	if params.IsPerson != nil {
		isPerson = *params.IsPerson
	}
	opts.Columns = append(opts.Columns, SetTitle(topic, title, isPerson)...)

	if params.OrderTitle != nil && (*params.OrderTitle != topic.OrderTitle || *params.OrderTitle == "") {
		opts.Columns = append(opts.Columns, SetOrderTitle(topic, *params.OrderTitle)...)
	}
	if params.Summary != nil && *params.Summary != topic.Summary {
		topic.Summary = *params.Summary
		opts.Columns = append(opts.Columns, "summary")
	}
	if params.WikipediaFragment != nil && *params.WikipediaFragment != topic.WikipediaFragment {
		topic.WikipediaFragment = *params.WikipediaFragment
		opts.Columns = append(opts.Columns, "wikipedia_fragment")
	}
	if params.Latitude != nil {
		topic.Latitude = params.Latitude
		opts.Columns = append(opts.Columns, "latitude")
	}
	if params.Longitude != nil {
		topic.Longitude = params.Longitude
		opts.Columns = append(opts.Columns, "longitude")
	}
	if params.Zoom != nil {
		topic.Zoom = params.Zoom
		opts.Columns = append(opts.Columns, "zoom")
	}
	if params.AllowComments != nil && *params.AllowComments != topic.AllowComments {
		topic.AllowComments = *params.AllowComments
		opts.Columns = append(opts.Columns, "allow_comments")
	}

	if err := h.encyclopediaService.UpdateTopic(ctx, topic, opts); err != nil {
		return errors.WithStack(err)
	}

	topic, err = h.encyclopediaService.RetrieveTopic(ctx, RetrieveTopicOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, topic))
}

func (h *handler) deleteTopic(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Topic")
	}

	if err := h.encyclopediaService.DeleteTopic(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) createCategory(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateCategoryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	category := &models.Category{Title: params.Title, Slug: params.Slug}
	if err := h.encyclopediaService.CreateCategory(ctx, category, params.ParentID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, category))
}

func (h *handler) updateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Category")
	}

	params := UpdateCategoryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	category, err := h.encyclopediaService.RetrieveCategory(ctx, RetrieveCategoryOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateCategoryOptions{Columns: []string{}}
	if params.Title != nil && *params.Title != category.Title {
		category.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Slug != nil && *params.Slug != category.Slug {
		category.Slug = *params.Slug
		opts.Columns = append(opts.Columns, "slug")
	}

	if err := h.encyclopediaService.UpdateCategory(ctx, category, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, category))
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
