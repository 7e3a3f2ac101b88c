package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushestargate/stargate-server/internal/metadata/musicbrainz"
)

func TestSearchArtists(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")

	ts.catalog.artists = []musicbrainz.Artist{
		{ID: "mb-1", Name: "Opeth", Country: "SE", Score: 100},
		{ID: "mb-2", Name: "Opeth Tribute", Score: 60},
	}

	resp := ts.api.Get("/api/v1/search/artists?q=opeth", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct {
		Artists []ArtistResult `json:"artists"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data.Artists, 2)
	assert.Equal(t, "Opeth", envelope.Data.Artists[0].Name)
	assert.Equal(t, "SE", envelope.Data.Artists[0].Country)
}

func TestSearchArtists_MissingQuery(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")

	resp := ts.api.Get("/api/v1/search/artists", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSearchAlbums(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")

	ts.catalog.albums = []musicbrainz.ReleaseGroup{
		{ID: "rg-1", Title: "Damnation", PrimaryType: "Album", ArtistName: "Opeth"},
	}

	resp := ts.api.Get("/api/v1/search/albums?q=damnation", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[struct {
		Albums []AlbumResult `json:"albums"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data.Albums, 1)
	assert.Equal(t, "Damnation", envelope.Data.Albums[0].Title)
	assert.Equal(t, "Opeth", envelope.Data.Albums[0].ArtistName)
}

func TestArtistAlbums(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")

	ts.catalog.albums = []musicbrainz.ReleaseGroup{
		{ID: "rg-1", Title: "Orchid", FirstReleaseDate: "1995-05-01"},
		{ID: "rg-2", Title: "Morningrise", FirstReleaseDate: "1996-06-24"},
	}

	resp := ts.api.Get("/api/v1/artists/mb-1/albums", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[struct {
		Albums []AlbumResult `json:"albums"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Albums, 2)
}

func TestResolveCoverArt(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")

	resp := ts.api.Get("/api/v1/artwork/cover?artist=Opeth&album=Damnation",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ArtworkResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "https://img.example/cover.jpg", envelope.Data.URL)
}

func TestResolveCoverArt_MissingParams(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")

	resp := ts.api.Get("/api/v1/artwork/cover?artist=Opeth", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestResolveArtistImage(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")

	resp := ts.api.Get("/api/v1/artwork/artist?name=Opeth", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ArtworkResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "https://img.example/cover.jpg", envelope.Data.URL)
}
