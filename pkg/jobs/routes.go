package jobs

import (
	"github.com/labstack/echo/v4"
)

// RegisterAdminRoutesWithGroup registers job routes on the admin jobs group.
func RegisterAdminRoutesWithGroup(g *echo.Group, jobService *Service) {
	h := &handler{
		jobService: jobService,
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create)
}
