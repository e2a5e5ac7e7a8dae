// Package feeds renders the site's RSS feeds.
package feeds

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const author = "Phil Gyford"

// Builder makes feeds whose links point at the public site.
type Builder struct {
	siteURL string
}

func NewBuilder(siteURL string) *Builder {
	return &Builder{siteURL: strings.TrimSuffix(siteURL, "/")}
}

// Item is one feed entry. Path is relative to the site root.
type Item struct {
	Title       string
	Path        string
	Description string
	Content     string
	Author      string
	Published   time.Time
	Updated     time.Time
}

// URL makes a site-relative path absolute.
func (b *Builder) URL(path string) string {
	return b.siteURL + path
}

// Build assembles a feed. The feed's own date is that of its newest item.
func (b *Builder) Build(title, path, description string, items []Item) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: b.URL(path)},
		Description: description,
		Author:      &feeds.Author{Name: author},
		Copyright:   "Copyright The Pepys Diary",
	}

	for _, it := range items {
		item := &feeds.Item{
			Title:       it.Title,
			Link:        &feeds.Link{Href: b.URL(it.Path)},
			Id:          b.URL(it.Path),
			Description: it.Description,
			Content:     it.Content,
			Created:     it.Published,
			Updated:     it.Updated,
		}
		if it.Author != "" {
			item.Author = &feeds.Author{Name: it.Author}
		}
		if it.Published.After(feed.Created) {
			feed.Created = it.Published
		}
		feed.Items = append(feed.Items, item)
	}

	return feed
}

// Write sends feed as RSS 2.0.
func Write(c echo.Context, feed *feeds.Feed) error {
	rss, err := feed.ToRss()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss)))
}
