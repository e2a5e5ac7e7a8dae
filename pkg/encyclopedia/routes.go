package encyclopedia

import (
	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/feeds"
)

func newHandler(cfg *config.Config, encyclopediaService *Service) *handler {
	return &handler{
		config:              cfg,
		encyclopediaService: encyclopediaService,
		feedBuilder:         feeds.NewBuilder(cfg.SiteURL),
	}
}

// RegisterRoutesWithGroup registers the public encyclopedia routes.
func RegisterRoutesWithGroup(g *echo.Group, cfg *config.Config, encyclopediaService *Service) {
	h := newHandler(cfg, encyclopediaService)

	g.GET("/", h.index)
	g.GET("/map/", h.mapView)
	g.GET("/rss/", h.rss)
	g.GET("/*", h.detail)
}

// RegisterAdminRoutesWithGroup registers topic and category editing on an
// admin group.
func RegisterAdminRoutesWithGroup(g *echo.Group, cfg *config.Config, encyclopediaService *Service) {
	h := newHandler(cfg, encyclopediaService)

	g.POST("/topics", h.createTopic)
	g.PATCH("/topics/:id", h.updateTopic)
	g.DELETE("/topics/:id", h.deleteTopic)
	g.POST("/categories", h.createCategory)
	g.PATCH("/categories/:id", h.updateCategory)
}
