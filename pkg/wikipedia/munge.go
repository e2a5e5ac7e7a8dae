package wikipedia

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// unwantedClasses mark elements that make no sense outside Wikipedia.
var unwantedClasses = []string{
	"mw-editsection",
	"reference",
	"mw-references-wrap",
	"reflist",
	"navbox",
	"vertical-navbox",
	"metadata",
	"ambox",
	"noprint",
	"hatnote",
	"mw-empty-elt",
	"sistersitebox",
	"authority-control",
}

// Munge strips editing furniture, references, navigation boxes and comments
// from article HTML and makes links absolute against base.
func Munge(content, base string) (string, error) {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), container)
	if err != nil {
		return "", errors.WithStack(err)
	}

	var b strings.Builder
	for _, n := range nodes {
		clean(n, base)
		if shouldRemove(n) {
			continue
		}
		if err := html.Render(&b, n); err != nil {
			return "", errors.WithStack(err)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func clean(n *html.Node, base string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if shouldRemove(c) {
			n.RemoveChild(c)
		} else {
			clean(c, base)
		}
		c = next
	}

	if n.Type != html.ElementNode {
		return
	}
	for i, a := range n.Attr {
		switch a.Key {
		case "href", "src":
			n.Attr[i].Val = absolutise(a.Val, base)
		case "srcset":
			n.Attr[i].Val = absolutiseSrcset(a.Val, base)
		}
	}
}

func shouldRemove(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode:
		return true
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Link {
			return true
		}
		return hasClass(n, unwantedClasses...)
	}
	return false
}

func hasClass(n *html.Node, classes ...string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, have := range strings.Fields(a.Val) {
			for _, want := range classes {
				if have == want {
					return true
				}
			}
		}
	}
	return false
}

func absolutise(u, base string) string {
	switch {
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return base + u
	}
	return u
}

func absolutiseSrcset(srcset, base string) string {
	parts := strings.Split(srcset, ",")
	for i, p := range parts {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}
		fields[0] = absolutise(fields[0], base)
		parts[i] = strings.Join(fields, " ")
	}
	return strings.Join(parts, ", ")
}
