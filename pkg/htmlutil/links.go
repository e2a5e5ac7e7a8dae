package htmlutil

import (
	"io"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var topicPathRE = regexp.MustCompile(`^/encyclopedia/(\d+)/?$`)

// TopicIDs returns the distinct encyclopedia topic ids linked from an HTML
// fragment, in ascending order. Links may be relative or point at siteHost.
func TopicIDs(s, siteHost string) []int {
	seen := map[int]bool{}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return nil
			}
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "a" || !hasAttr {
			continue
		}
		for {
			key, val, more := z.TagAttr()
			if string(key) == "href" {
				if id, ok := topicIDFromHref(string(val), siteHost); ok {
					seen[id] = true
				}
			}
			if !more {
				break
			}
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func topicIDFromHref(href, siteHost string) (int, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return 0, false
	}
	if u.Host != "" && !strings.EqualFold(strings.TrimPrefix(u.Host, "www."), strings.TrimPrefix(siteHost, "www.")) {
		return 0, false
	}
	m := topicPathRE.FindStringSubmatch(u.Path)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
