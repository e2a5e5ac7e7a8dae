package search

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	searchService *Service
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := SearchQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	results, total, err := h.searchService.Search(ctx, SearchOptions{
		Query:  params.Query,
		Kind:   params.Kind,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, &SearchResponse{Results: results, Total: total}))
}
