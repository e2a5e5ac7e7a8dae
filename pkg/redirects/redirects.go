// Package redirects sends requests for the old PHP site's URLs to their
// current homes.
package redirects

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

// rule maps one legacy URL pattern to its replacement. target receives the
// pattern's submatches.
type rule struct {
	pattern *regexp.Regexp
	target  func(m []string) string
}

func fixed(to string) func([]string) string {
	return func([]string) string { return to }
}

func hyphenate(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

const feedburner = "https://feeds.feedburner.com/PepysDiary"

// rules are tried in order and the first match wins. Each is a single hop, so
// "/archive/1660/01/02/index.php" needs two requests to reach the diary.
var rules = []rule{
	{regexp.MustCompile(`^/favicon\.ico$`), fixed("/static/common/img/favicons/favicon.ico")},
	{regexp.MustCompile(`^/diary/(\d{4})/(\d{2})/(\d{2})/index\.php$`), func(m []string) string {
		return "/diary/" + m[1] + "/" + m[2] + "/" + m[3] + "/"
	}},
	{regexp.MustCompile(`^/archive/$`), fixed("/diary/")},
	{regexp.MustCompile(`^/archive/(\d{4})/(\d{2})/$`), func(m []string) string {
		return "/diary/" + m[1] + "/" + m[2] + "/"
	}},
	{regexp.MustCompile(`^/archive/(\d{4})/(\d{2})/(\d{2})/index\.php$`), func(m []string) string {
		return "/archive/" + m[1] + "/" + m[2] + "/" + m[3] + "/"
	}},
	{regexp.MustCompile(`^/archive/(\d{4})/(\d{2})/(\d{2})/$`), func(m []string) string {
		return "/diary/" + m[1] + "/" + m[2] + "/" + m[3] + "/"
	}},
	{regexp.MustCompile(`^/syndication/full-fb\.rdf$`), fixed("/diary/rss/")},
	{regexp.MustCompile(`^/syndication/(?:rdf\.php|full\.rdf)$`), fixed(feedburner)},
	{regexp.MustCompile(`^/syndication/encyclopedia-fb\.rdf$`), fixed("/encyclopedia/rss/")},
	{regexp.MustCompile(`^/syndication/indepth-fb\.rdf$`), fixed("/indepth/rss/")},
	{regexp.MustCompile(`^/syndication/recentnews-fb\.rdf$`), fixed("/news/rss/")},
	{regexp.MustCompile(`^/letters/(\d{4})/(\d{2})/(\d{2})/([\w-]+)\.php$`), func(m []string) string {
		return "/letters/" + m[1] + "/" + m[2] + "/" + m[3] + "/" + m[4] + "/"
	}},
	{regexp.MustCompile(`^/background/$`), fixed("/encyclopedia/")},
	{regexp.MustCompile(`^/background/familytree/$`), fixed("/encyclopedia/familytree/")},
	{regexp.MustCompile(`^/background/maps/$`), fixed("/encyclopedia/map/")},
	{regexp.MustCompile(`^/background/([\w-]+)\.php$`), func(m []string) string {
		return "/encyclopedia/" + hyphenate(m[1]) + "/"
	}},
	{regexp.MustCompile(`^/p/(\d+)\.php$`), func(m []string) string {
		return "/encyclopedia/" + m[1] + "/"
	}},
	{regexp.MustCompile(`^/indepth/archive/(\d{4})/(\d{2})/(\d{2})/([\w-]+)\.php$`), func(m []string) string {
		return "/indepth/" + m[1] + "/" + m[2] + "/" + m[3] + "/" + hyphenate(m[4]) + "/"
	}},
	{regexp.MustCompile(`^/about/news/$`), fixed("/news/")},
	{regexp.MustCompile(`^/about/archive/(\d{4})/(\d{2})/(\d{2})/(\d+)\.php$`), func(m []string) string {
		return "/news/" + m[1] + "/" + m[2] + "/" + m[3] + "/" + m[4] + "/"
	}},
	{regexp.MustCompile(`^/about/history/$`), fixed("/diary/summary/")},
	{regexp.MustCompile(`^/about/history/index\.php$`), fixed("/about/history/")},
	{regexp.MustCompile(`^/about/history/(\d{4})/$`), func(m []string) string {
		return "/diary/summary/" + m[1] + "/"
	}},
	{regexp.MustCompile(`^/about/support/$`), fixed("/about/")},
}

// Lookup returns where a legacy path now lives. ok is false for paths that
// aren't legacy URLs.
func Lookup(path string) (string, bool) {
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(path); m != nil {
			return r.target(m), true
		}
	}
	return "", false
}

// Middleware answers legacy URLs with a permanent redirect before routing.
// Query strings are not carried over. Register it with echo's Pre.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return next(c)
			}
			if to, ok := Lookup(req.URL.Path); ok {
				return c.Redirect(http.StatusMovedPermanently, to)
			}
			return next(c)
		}
	}
}
