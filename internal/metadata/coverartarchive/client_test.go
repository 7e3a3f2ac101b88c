package coverartarchive

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(slog.New(slog.DiscardHandler))
	c.SetBaseURL(srv.URL)
	return c
}

func TestFrontCoverURL_FollowsRedirectTarget(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/release-group/rg-123/front", r.URL.Path)
		w.Header().Set("Location", "https://archive.example.com/front.jpg")
		w.WriteHeader(http.StatusTemporaryRedirect)
	})

	coverURL, err := c.FrontCoverURL(context.Background(), "rg-123")
	require.NoError(t, err)
	assert.Equal(t, "https://archive.example.com/front.jpg", coverURL)
}

func TestFrontCoverURL_DirectImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})

	coverURL, err := c.FrontCoverURL(context.Background(), "rg-123")
	require.NoError(t, err)
	assert.Contains(t, coverURL, "/release-group/rg-123/front")
}

func TestFrontCoverURL_FallsBackToListing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/release-group/rg-123/front":
			w.WriteHeader(http.StatusNotFound)
		case "/release-group/rg-123":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"images": [
					{"front": false, "image": "https://archive.example.com/back.jpg"},
					{"front": true, "image": "https://archive.example.com/front.jpg"}
				]
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	coverURL, err := c.FrontCoverURL(context.Background(), "rg-123")
	require.NoError(t, err)
	assert.Equal(t, "https://archive.example.com/front.jpg", coverURL)
}

func TestFrontCoverURL_NoArtwork(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	coverURL, err := c.FrontCoverURL(context.Background(), "rg-unknown")
	require.NoError(t, err)
	assert.Empty(t, coverURL)
}

func TestFrontCoverURL_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FrontCoverURL(context.Background(), "rg-123")
	require.Error(t, err)
}
