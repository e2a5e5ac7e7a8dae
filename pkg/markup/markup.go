// Package markup turns the Markdown that editors and readers write into the
// HTML stored alongside it.
package markup

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	// Editors are trusted with raw HTML; it still goes through the UGC
	// policy so a pasted script can't reach the page.
	editorMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote, extension.Typographer),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	editorPolicy = newEditorPolicy()

	commentMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	commentPolicy = newCommentPolicy()
)

func newEditorPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	p.AllowElements("figure", "figcaption", "aside")
	return p
}

func newCommentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "em", "strong", "i", "b", "del", "blockquote", "ul", "ol", "li", "code", "pre")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(false)
	return p
}

// Render converts editor-written Markdown to sanitised HTML.
func Render(source string) (string, error) {
	return render(editorMarkdown, editorPolicy, source)
}

// RenderComment converts a reader's annotation to sanitised HTML. Raw HTML in
// the comment is escaped, bare URLs become links and single newlines are kept.
func RenderComment(source string) (string, error) {
	return render(commentMarkdown, commentPolicy, source)
}

func render(md goldmark.Markdown, policy *bluemonday.Policy, source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", errors.WithStack(err)
	}
	return strings.TrimSpace(policy.Sanitize(buf.String())), nil
}
