package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFTSQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"plain", "pepys", `"pepys"`},
		{"operators are literal", "wife AND NOT dog", `"wife AND NOT dog"`},
		{"quotes escaped", `say "hello"`, `"say ""hello"""`},
		{"column filter is literal", "title:plague", `"title:plague"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFTSQuery(tt.input))
		})
	}

	long := strings.Repeat("a", 150)
	assert.Equal(t, `"`+strings.Repeat("a", maxQueryLength)+`"`, SanitizeFTSQuery(long))
}

func TestBuildTermsQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", BuildTermsQuery("  "))
	assert.Equal(t, `"great" "fire"`, BuildTermsQuery("great  fire"))
	assert.Equal(t, `"plag"*`, BuildTermsQuery("plag*"))
	assert.Equal(t, `"NEAR(a"`, BuildTermsQuery("NEAR(a"))
	assert.Equal(t, "", BuildTermsQuery("***"))
}
