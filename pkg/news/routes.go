package news

import (
	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/feeds"
)

func RegisterRoutesWithGroup(g *echo.Group, cfg *config.Config, postService *Service, annotationService *annotations.Service) {
	h := &handler{
		config:            cfg,
		postService:       postService,
		annotationService: annotationService,
		feedBuilder:       feeds.NewBuilder(cfg.SiteURL),
	}

	g.GET("/", h.list)
	g.GET("/rss/", h.rss)
	g.GET("/:category/", h.category)
	g.GET("/:year/:month/:day/:id/", h.retrieve)
}

func RegisterAdminRoutesWithGroup(g *echo.Group, postService *Service) {
	h := &handler{postService: postService}

	g.GET("", h.adminList)
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
}
