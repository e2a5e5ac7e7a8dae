package letters

import (
	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
)

func RegisterRoutesWithGroup(g *echo.Group, letterService *Service, annotationService *annotations.Service) {
	h := &handler{letterService: letterService, annotationService: annotationService}

	g.GET("/", h.list)
	g.GET("/:year/:month/:day/:slug/", h.retrieve)
}

func RegisterAdminRoutesWithGroup(g *echo.Group, letterService *Service) {
	h := &handler{letterService: letterService}

	g.POST("", h.create)
	g.PATCH("/:id", h.update)
}
