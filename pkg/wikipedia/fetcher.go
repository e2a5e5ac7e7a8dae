// Package wikipedia fetches the rendered HTML of Wikipedia articles and tidies
// it up for display under encyclopedia topics.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pepysdiary/pepysdiary/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const maxResponseBytes = 10 << 20

// Result is the outcome of one fetch. Content is only set when Success is
// true.
type Result struct {
	Success bool
	Content string
}

type Fetcher struct {
	client *http.Client
	apiURL string
}

func NewFetcher(apiURL string) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: apiURL,
	}
}

type parseResponse struct {
	Parse *struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Fetch returns the cleaned HTML of the article named by fragment, the part
// of its URL after "/wiki/". Remote failures are logged and reported as an
// unsuccessful Result rather than an error.
func (f *Fetcher) Fetch(ctx context.Context, fragment string) Result {
	log := logger.FromContext(ctx).Data(logger.Data{"fragment": fragment})

	raw, err := f.fetchHTML(ctx, fragment)
	if err != nil {
		log.Err(err).Warn("failed to fetch wikipedia article")
		return Result{}
	}

	content, err := Munge(raw, f.baseURL())
	if err != nil {
		log.Err(err).Warn("failed to clean wikipedia article")
		return Result{}
	}

	return Result{Success: true, Content: content}
}

func (f *Fetcher) fetchHTML(ctx context.Context, fragment string) (string, error) {
	page, err := url.PathUnescape(fragment)
	if err != nil {
		page = fragment
	}

	q := url.Values{}
	q.Set("action", "parse")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("prop", "text")
	q.Set("redirects", "1")
	q.Set("disableeditsection", "1")
	q.Set("page", page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", errors.WithStack(err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("pepysdiary/%s (https://www.pepysdiary.com)", version.Version))

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("wikipedia returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.WithStack(err)
	}

	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "failed to decode wikipedia response")
	}
	if parsed.Error != nil {
		return "", errors.Errorf("wikipedia error %s: %s", parsed.Error.Code, parsed.Error.Info)
	}
	if parsed.Parse == nil || parsed.Parse.Text == "" {
		return "", errors.New("wikipedia response has no text")
	}

	return parsed.Parse.Text, nil
}

// baseURL is the scheme and host of the API, used to absolutise links.
func (f *Fetcher) baseURL() string {
	u, err := url.Parse(f.apiURL)
	if err != nil || u.Host == "" {
		return "https://en.wikipedia.org"
	}
	return u.Scheme + "://" + u.Host
}
