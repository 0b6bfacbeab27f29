package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/posts.json", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	return DefaultClient().WithBaseURL(u)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fox", r.URL.Query().Get("tags"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		b, err := os.ReadFile("testdata/posts.json")
		assert.NoError(t, err)
		_, err = w.Write(b)
		assert.NoError(t, err)
	})

	opts := &SearchOptions{
		Tags:  []string{"fox"},
		Limit: 10,
		Page:  PageSelector{Number: 1},
	}

	posts, err := client.Posts.Search(context.TODO(), opts)
	require.NoError(t, err)
	require.Equal(t, 2, len(posts), "unexpected decoded response")

	first := posts[0]
	assert.Equal(t, 2583191, first.ID)
	assert.Equal(t, "5f6fd8b7d9d2cf6b3c23b96e790a7f94", first.File.MD5)
	assert.Equal(t, "https://static1.e621.net/data/5f/6f/5f6fd8b7d9d2cf6b3c23b96e790a7f94.jpg", first.File.URL)
	assert.Equal(t, "2583191.jpg", first.Filename())
	assert.True(t, first.HasFile())
	assert.Equal(t, RatingSafe, first.Rating)

	w, h := first.Dimensions()
	assert.Equal(t, 2000, w)
	assert.Equal(t, 1333, h)

	// The hidden-file post decodes with an empty URL.
	second := posts[1]
	assert.Equal(t, 2583047, second.ID)
	assert.False(t, second.HasFile())
	assert.Equal(t, RatingQuestionable, second.Rating)
	require.NotNil(t, second.Duration)
	assert.InDelta(t, 14.2, *second.Duration, 0.001)
	require.NotNil(t, second.Relationships.ParentID)
	assert.Equal(t, 2583191, *second.Relationships.ParentID)
}

func TestSearchAPIError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"message":"Access Denied","code":null}`))
	})

	opts := &SearchOptions{Tags: []string{"fox"}, Limit: 10, Page: PageSelector{Number: 1}}

	_, err := client.Posts.Search(context.TODO(), opts)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected an APIError, got %T", err)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Access Denied", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "403")
}

func TestSearchDecodeError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>surprise</html>"))
	})

	opts := &SearchOptions{Tags: []string{"fox"}, Limit: 10, Page: PageSelector{Number: 1}}

	_, err := client.Posts.Search(context.TODO(), opts)
	require.Error(t, err)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr), "expected a DecodeError, got %T", err)
}

func TestTagsContains(t *testing.T) {
	t.Parallel()
	tags := Tags{
		General: []string{"snow"},
		Species: []string{"arctic_fox"},
		Meta:    []string{"animated"},
	}

	assert.True(t, tags.Contains("snow"))
	assert.True(t, tags.Contains("arctic_fox"))
	assert.True(t, tags.Contains("animated"))
	assert.False(t, tags.Contains("fox"))
}

func TestRatingString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "safe", RatingSafe.String())
	assert.Equal(t, "questionable", RatingQuestionable.String())
	assert.Equal(t, "explicit", RatingExplicit.String())
}
