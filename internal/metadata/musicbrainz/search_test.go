package musicbrainz

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

	c := NewClient(slog.New(slog.DiscardHandler), "test-agent/1.0", 1000)
	c.SetBaseURL(srv.URL)
	return c
}

func TestSearchArtists(t *testing.T) {
	var gotUA, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"artists": [
				{"id": "mbid-1", "name": "Opeth", "disambiguation": "Swedish band", "country": "SE", "score": 100},
				{"id": "mbid-2", "name": "Opeth Tribute", "score": 60}
			]
		}`))
	})

	artists, err := c.SearchArtists(context.Background(), "Opeth")
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "Opeth", gotQuery)
	require.Len(t, artists, 2)
	assert.Equal(t, "mbid-1", artists[0].ID)
	assert.Equal(t, "Swedish band", artists[0].Disambiguation)
	assert.Equal(t, "SE", artists[0].Country)
}

func TestSearchArtists_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.SearchArtists(context.Background(), "Opeth")
	require.Error(t, err)
}

func TestSearchAlbumsByArtist_FiltersAndSorts(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"release-groups": [
				{"id": "rg-live", "title": "Live Album", "primary-type": "Album", "secondary-types": ["Live"], "first-release-date": "1999-01-01"},
				{"id": "rg-new", "title": "Newer", "primary-type": "Album", "first-release-date": "2005-08-30"},
				{"id": "rg-undated", "title": "Undated", "primary-type": "Album"},
				{"id": "rg-ep", "title": "An EP", "primary-type": "EP", "first-release-date": "2001-03-12"},
				{"id": "rg-single", "title": "A Single", "primary-type": "Single", "first-release-date": "2000-01-01"},
				{"id": "rg-old", "title": "Older", "primary-type": "Album", "first-release-date": "1996",
				 "artist-credit": [{"name": "Opeth", "artist": {"id": "mbid-1", "name": "Opeth"}}]}
			]
		}`))
	})

	albums, err := c.SearchAlbumsByArtist(context.Background(), "mbid-1")
	require.NoError(t, err)

	assert.Equal(t, "arid:mbid-1 AND primarytype:album", gotQuery)

	// Live album and single filtered out; sorted ascending with the
	// undated record last.
	require.Len(t, albums, 4)
	assert.Equal(t, "rg-old", albums[0].ID)
	assert.Equal(t, "rg-ep", albums[1].ID)
	assert.Equal(t, "rg-new", albums[2].ID)
	assert.Equal(t, "rg-undated", albums[3].ID)

	assert.Equal(t, "Opeth", albums[0].ArtistName)
	assert.Equal(t, "mbid-1", albums[0].ArtistID)
}

func TestSearchAlbumsByQuery_KeepsProviderOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"release-groups": [
				{"id": "rg-b", "title": "Best Match", "primary-type": "Album", "first-release-date": "2010"},
				{"id": "rg-a", "title": "Second Match", "primary-type": "EP", "first-release-date": "1990"}
			]
		}`))
	})

	albums, err := c.SearchAlbumsByQuery(context.Background(), "damnation")
	require.NoError(t, err)

	require.Len(t, albums, 2)
	assert.Equal(t, "rg-b", albums[0].ID)
	assert.Equal(t, "rg-a", albums[1].ID)
}

func TestSearchAlbumsByQuery_KeepsSecondaryTypes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"release-groups": [
				{"id": "rg-live", "title": "Live at the Roundhouse", "primary-type": "Album", "secondary-types": ["Live"]},
				{"id": "rg-comp", "title": "The Collection", "primary-type": "Album", "secondary-types": ["Compilation"]},
				{"id": "rg-single", "title": "A Single", "primary-type": "Single"}
			]
		}`))
	})

	albums, err := c.SearchAlbumsByQuery(context.Background(), "roundhouse")
	require.NoError(t, err)

	// Free-text search keeps live albums and compilations; only the
	// primary-type filter applies.
	require.Len(t, albums, 2)
	assert.Equal(t, "rg-live", albums[0].ID)
	assert.Equal(t, "rg-comp", albums[1].ID)
}
