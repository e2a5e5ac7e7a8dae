package annotations

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers annotation submission and the public listings.
func RegisterRoutes(e *echo.Echo, annotationService *Service) {
	h := &handler{annotationService: annotationService}

	e.POST("/annotations/", h.create)
	e.GET("/annotations/", h.list)
	e.GET("/recent/", h.recent)
}

func RegisterAdminRoutesWithGroup(g *echo.Group, annotationService *Service) {
	h := &handler{annotationService: annotationService}

	g.GET("", h.adminList)
	g.PATCH("/:id", h.adminUpdate)
	g.POST("/:id/flags", h.adminFlag)
}
