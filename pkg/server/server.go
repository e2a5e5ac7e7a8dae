package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/binder"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/diary"
	"github.com/pepysdiary/pepysdiary/pkg/encyclopedia"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/indepth"
	"github.com/pepysdiary/pepysdiary/pkg/joblogs"
	"github.com/pepysdiary/pepysdiary/pkg/jobs"
	"github.com/pepysdiary/pepysdiary/pkg/letters"
	"github.com/pepysdiary/pepysdiary/pkg/news"
	"github.com/pepysdiary/pepysdiary/pkg/redirects"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
)

const robotsTxt = `User-agent: *
Disallow: /admin/
`

func New(cfg *config.Config, svcs *Services) (*http.Server, error) {
	e, err := NewEcho(cfg, svcs)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// NewEcho builds the router with every public and admin route registered.
func NewEcho(cfg *config.Config, svcs *Services) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Pre(redirects.Middleware())
	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)
	e.GET("/up/", up)
	e.GET("/robots.txt", robots)

	diary.RegisterRoutesWithGroup(e.Group("/diary"), cfg, svcs.Diary, svcs.Annotations)
	encyclopedia.RegisterRoutesWithGroup(e.Group("/encyclopedia"), cfg, svcs.Encyclopedia)
	letters.RegisterRoutesWithGroup(e.Group("/letters"), svcs.Letters, svcs.Annotations)
	indepth.RegisterRoutesWithGroup(e.Group("/indepth"), cfg, svcs.Articles, svcs.Annotations)
	news.RegisterRoutesWithGroup(e.Group("/news"), cfg, svcs.Posts, svcs.Annotations)
	search.RegisterRoutesWithGroup(e.Group("/search"), svcs.Search)
	annotations.RegisterRoutes(e, svcs.Annotations)

	registerAdminRoutes(e, cfg, svcs)

	e.RouteNotFound("/*", notFoundHandler)
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

// registerAdminRoutes puts the editing routes behind the admin API key.
func registerAdminRoutes(e *echo.Echo, cfg *config.Config, svcs *Services) {
	admin := e.Group("/admin", adminAuth(cfg.AdminAPIKey))

	diary.RegisterAdminRoutesWithGroup(admin, cfg, svcs.Diary, svcs.Annotations)
	encyclopedia.RegisterAdminRoutesWithGroup(admin, cfg, svcs.Encyclopedia)
	letters.RegisterAdminRoutesWithGroup(admin.Group("/letters"), svcs.Letters)
	indepth.RegisterAdminRoutesWithGroup(admin.Group("/articles"), svcs.Articles)
	news.RegisterAdminRoutesWithGroup(admin.Group("/posts"), svcs.Posts)
	annotations.RegisterAdminRoutesWithGroup(admin.Group("/annotations"), svcs.Annotations)

	jobsGroup := admin.Group("/jobs")
	jobs.RegisterAdminRoutesWithGroup(jobsGroup, svcs.Jobs)
	joblogs.RegisterRoutes(jobsGroup, svcs.JobLogs, svcs.Jobs)
}

// adminAuth checks for "Authorization: Bearer <key>". With no key configured
// every admin request is refused.
func adminAuth(key string) echo.MiddlewareFunc {
	if key == "" {
		return func(echo.HandlerFunc) echo.HandlerFunc {
			return func(echo.Context) error {
				return errcodes.Forbidden("Admin access")
			}
		}
	}

	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(given string, _ echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(given), []byte(key)) == 1, nil
		},
		ErrorHandler: func(error, echo.Context) error {
			return errcodes.Unauthorized()
		},
	})
}

func up(c echo.Context) error {
	return errors.WithStack(c.String(http.StatusOK, "up"))
}

func robots(c echo.Context) error {
	return errors.WithStack(c.String(http.StatusOK, robotsTxt))
}

func notFoundHandler(echo.Context) error {
	return errcodes.NotFound("Page")
}
