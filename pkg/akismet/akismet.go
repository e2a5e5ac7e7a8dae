// Package akismet asks Akismet whether an annotation looks like spam.
package akismet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/version"
	"github.com/pkg/errors"
)

// Comment is what Akismet is told about a submission.
type Comment struct {
	UserIP      string
	UserAgent   string
	Referrer    string
	Permalink   string
	CommentType string
	Author      string
	AuthorEmail string
	AuthorURL   string
	Content     string
}

type Client struct {
	client  *http.Client
	apiKey  string
	baseURL string
	blogURL string
}

// NewClient returns a client for the given key. baseURL may contain a %s,
// which is replaced by the key, e.g. "https://%s.rest.akismet.com".
func NewClient(apiKey, baseURL, blogURL string) *Client {
	if strings.Contains(baseURL, "%s") {
		baseURL = fmt.Sprintf(baseURL, apiKey)
	}
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		blogURL: blogURL,
	}
}

// CheckSpam reports whether Akismet thinks comment is spam. Any answer other
// than "true" or "false" is an error.
func (c *Client) CheckSpam(ctx context.Context, comment Comment) (bool, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("blog", c.blogURL)
	form.Set("user_ip", comment.UserIP)
	form.Set("user_agent", comment.UserAgent)
	form.Set("referrer", comment.Referrer)
	form.Set("permalink", comment.Permalink)
	form.Set("comment_type", comment.CommentType)
	form.Set("comment_author", comment.Author)
	form.Set("comment_author_email", comment.AuthorEmail)
	form.Set("comment_author_url", comment.AuthorURL)
	form.Set("comment_content", comment.Content)
	form.Set("blog_lang", "en")
	form.Set("blog_charset", "UTF-8")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/1.1/comment-check", strings.NewReader(form.Encode()))
	if err != nil {
		return false, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", fmt.Sprintf("pepysdiary/%s", version.Version))

	resp, err := c.client.Do(req)
	if err != nil {
		return false, errors.WithStack(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return false, errors.WithStack(err)
	}

	switch strings.TrimSpace(string(body)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if help := resp.Header.Get("X-akismet-debug-help"); help != "" {
		return false, errors.Errorf("akismet: %s", help)
	}
	return false, errors.Errorf("akismet returned HTTP %d: %q", resp.StatusCode, string(body))
}
