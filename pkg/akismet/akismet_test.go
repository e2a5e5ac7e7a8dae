package akismet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSpam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		header   string
		expected bool
		wantErr  string
	}{
		{"spam", "true", "", true, ""},
		{"ham", "false", "", false, ""},
		{"invalid key", "invalid", "", false, "akismet returned HTTP 200"},
		{"debug help", "", "Empty \"blog\" value", false, "akismet: Empty \"blog\" value"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotPath, gotAuthor, gotBlog, gotKey string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = r.ParseForm()
				gotPath = r.URL.Path
				gotAuthor = r.PostForm.Get("comment_author")
				gotBlog = r.PostForm.Get("blog")
				gotKey = r.PostForm.Get("api_key")
				if tt.header != "" {
					w.Header().Set("X-akismet-debug-help", tt.header)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("secret", srv.URL, "https://www.pepysdiary.com")
			spam, err := client.CheckSpam(context.Background(), Comment{
				Author:      "Bill",
				AuthorEmail: "bill@example.com",
				Content:     "Hello",
				CommentType: "comment",
			})

			assert.Equal(t, "/1.1/comment-check", gotPath)
			assert.Equal(t, "Bill", gotAuthor)
			assert.Equal(t, "https://www.pepysdiary.com", gotBlog)
			assert.Equal(t, "secret", gotKey)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, spam)
		})
	}
}

func TestNewClient_KeyInBaseURL(t *testing.T) {
	t.Parallel()

	client := NewClient("abc123", "https://%s.rest.akismet.com/", "https://www.pepysdiary.com")
	assert.Equal(t, "https://abc123.rest.akismet.com", client.baseURL)
}

func TestCheckSpam_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient("k", url, "https://www.pepysdiary.com").CheckSpam(context.Background(), Comment{})
	assert.Error(t, err)
}
