package search

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutesWithGroup(g *echo.Group, searchService *Service) {
	h := &handler{
		searchService: searchService,
	}

	g.GET("/", h.search)
}
