package indepth

import (
	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/feeds"
)

func RegisterRoutesWithGroup(g *echo.Group, cfg *config.Config, articleService *Service, annotationService *annotations.Service) {
	h := &handler{
		config:            cfg,
		articleService:    articleService,
		annotationService: annotationService,
		feedBuilder:       feeds.NewBuilder(cfg.SiteURL),
	}

	g.GET("/", h.list)
	g.GET("/rss/", h.rss)
	g.GET("/:year/:month/:day/:slug/", h.retrieve)
}

func RegisterAdminRoutesWithGroup(g *echo.Group, articleService *Service) {
	h := &handler{articleService: articleService}

	g.GET("", h.adminList)
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
}
