package diary

import (
	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/feeds"
)

func newHandler(cfg *config.Config, diaryService *Service, annotationService *annotations.Service) *handler {
	return &handler{
		config:            cfg,
		diaryService:      diaryService,
		annotationService: annotationService,
		feedBuilder:       feeds.NewBuilder(cfg.SiteURL),
	}
}

// RegisterRoutesWithGroup registers the public diary routes.
func RegisterRoutesWithGroup(g *echo.Group, cfg *config.Config, diaryService *Service, annotationService *annotations.Service) {
	h := newHandler(cfg, diaryService, annotationService)

	g.GET("/", h.archive)
	g.GET("/rss/", h.rss)
	g.GET("/summary/", h.summaryIndex)
	g.GET("/summary/:year/", h.summaryYear)
	g.GET("/:year/:month/", h.month)
	g.GET("/:year/:month/:day/", h.entry)
}

// RegisterAdminRoutesWithGroup registers entry, summary and day event editing on the
// admin group.
func RegisterAdminRoutesWithGroup(g *echo.Group, cfg *config.Config, diaryService *Service, annotationService *annotations.Service) {
	h := newHandler(cfg, diaryService, annotationService)

	g.POST("/entries", h.createEntry)
	g.PATCH("/entries/:id", h.updateEntry)
	g.POST("/summaries", h.createSummary)
	g.PATCH("/summaries/:id", h.updateSummary)
	g.POST("/day-events", h.createDayEvent)
	g.DELETE("/day-events/:id", h.deleteDayEvent)
}
