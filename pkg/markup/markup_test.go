package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		out, err := Render("   ")
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})

	t.Run("paragraphs and emphasis", func(t *testing.T) {
		out, err := Render("Up *betimes*.\n\nTo the office.")
		require.NoError(t, err)
		assert.Contains(t, out, "<p>Up <em>betimes</em>.</p>")
		assert.Contains(t, out, "<p>To the office.</p>")
	})

	t.Run("links kept", func(t *testing.T) {
		out, err := Render("With [my wife](/encyclopedia/1/).")
		require.NoError(t, err)
		assert.Contains(t, out, `href="/encyclopedia/1/"`)
	})

	t.Run("scripts removed", func(t *testing.T) {
		out, err := Render("Hello <script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
		assert.Contains(t, out, "Hello")
	})

	t.Run("footnotes", func(t *testing.T) {
		out, err := Render("Text[^1]\n\n[^1]: A note.")
		require.NoError(t, err)
		assert.Contains(t, out, "A note.")
	})
}

func TestRenderComment(t *testing.T) {
	t.Parallel()

	t.Run("raw html is escaped away", func(t *testing.T) {
		out, err := RenderComment(`<img src="x" onerror="alert(1)">Nice`)
		require.NoError(t, err)
		assert.NotContains(t, out, "<img")
		assert.NotContains(t, out, "onerror")
	})

	t.Run("bare urls become nofollow links", func(t *testing.T) {
		out, err := RenderComment("See https://example.com/page for more")
		require.NoError(t, err)
		assert.Contains(t, out, `href="https://example.com/page"`)
		assert.Contains(t, out, `rel="nofollow"`)
	})

	t.Run("single newlines kept", func(t *testing.T) {
		out, err := RenderComment("line one\nline two")
		require.NoError(t, err)
		assert.Contains(t, out, "<br")
	})

	t.Run("javascript links dropped", func(t *testing.T) {
		out, err := RenderComment("[click](javascript:alert(1))")
		require.NoError(t, err)
		assert.NotContains(t, out, "javascript:")
	})
}
