package wikipedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMunge(t *testing.T) {
	t.Parallel()

	input := `<div class="mw-parser-output">
<div class="hatnote navigation-not-searchable">For other uses, see Pepys (disambiguation).</div>
<table class="infobox"><tr><td><img src="//upload.wikimedia.org/pepys.jpg" srcset="//upload.wikimedia.org/pepys-2x.jpg 2x"></td></tr></table>
<p><b>Samuel Pepys</b> was an <a href="/wiki/Navy_Board">administrator</a> of the navy.<sup class="reference"><a href="#cite_note-1">[1]</a></sup></p>
<!-- NewPP limit report -->
<h2><span class="mw-headline">Life</span><span class="mw-editsection">[edit]</span></h2>
<p>See <a href="https://example.com/">elsewhere</a>.</p>
<div role="navigation" class="navbox">Navy Board members</div>
<table class="metadata ambox"><tr><td>This article needs citations.</td></tr></table>
<style>.x{}</style>
</div>`

	out, err := Munge(input, "https://en.wikipedia.org")
	require.NoError(t, err)

	assert.Contains(t, out, "<b>Samuel Pepys</b>")
	assert.Contains(t, out, `href="https://en.wikipedia.org/wiki/Navy_Board"`)
	assert.Contains(t, out, `src="https://upload.wikimedia.org/pepys.jpg"`)
	assert.Contains(t, out, `srcset="https://upload.wikimedia.org/pepys-2x.jpg 2x"`)
	assert.Contains(t, out, `href="https://example.com/"`)
	assert.Contains(t, out, "Life")

	assert.NotContains(t, out, "[1]")
	assert.NotContains(t, out, "[edit]")
	assert.NotContains(t, out, "NewPP")
	assert.NotContains(t, out, "Navy Board members")
	assert.NotContains(t, out, "needs citations")
	assert.NotContains(t, out, "disambiguation")
	assert.NotContains(t, out, "<style")
}

func TestMunge_Empty(t *testing.T) {
	t.Parallel()

	out, err := Munge("", "https://en.wikipedia.org")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
