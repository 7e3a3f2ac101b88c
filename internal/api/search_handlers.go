package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sushestargate/stargate-server/internal/metadata/musicbrainz"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchArtists",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/artists",
		Summary:     "Search artists",
		Description: "Searches MusicBrainz for artists by name",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchArtists)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchAlbums",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/albums",
		Summary:     "Search albums",
		Description: "Searches MusicBrainz for release groups by title",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchAlbums)

	huma.Register(s.api, huma.Operation{
		OperationID: "listArtistAlbums",
		Method:      http.MethodGet,
		Path:        "/api/v1/artists/{id}/albums",
		Summary:     "List artist albums",
		Description: "Returns an artist's release groups ordered by first release date",
		Tags:        []string{"Catalog"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleArtistAlbums)
}

// === DTOs ===

// ArtistSearchInput is the query for artist search.
type ArtistSearchInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Artist name to search for"`
}

// AlbumSearchInput is the query for album search.
type AlbumSearchInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" required:"true" minLength:"1" maxLength:"200" doc:"Album title to search for"`
}

// ArtistAlbumsInput identifies the artist whose albums to list.
type ArtistAlbumsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"MusicBrainz artist ID"`
}

// ArtistResult is a single artist search hit.
type ArtistResult struct {
	ID             string `json:"id" doc:"MusicBrainz artist ID"`
	Name           string `json:"name" doc:"Artist name"`
	Disambiguation string `json:"disambiguation,omitempty" doc:"Disambiguation comment"`
	Country        string `json:"country,omitempty" doc:"ISO country code"`
	Score          int    `json:"score" doc:"Match score 0-100"`
}

// AlbumResult is a single release group hit.
type AlbumResult struct {
	ID               string `json:"id" doc:"MusicBrainz release group ID"`
	Title            string `json:"title" doc:"Album title"`
	PrimaryType      string `json:"primary_type,omitempty" doc:"Release group type (Album, EP, ...)"`
	FirstReleaseDate string `json:"first_release_date,omitempty" doc:"First release date"`
	ArtistName       string `json:"artist_name,omitempty" doc:"Credited artist"`
	ArtistID         string `json:"artist_id,omitempty" doc:"Credited artist's MusicBrainz ID"`
}

// ArtistSearchOutput wraps artist search results for Huma.
type ArtistSearchOutput struct {
	Body struct {
		Artists []ArtistResult `json:"artists" doc:"Matching artists"`
	}
}

// AlbumSearchOutput wraps album search results for Huma.
type AlbumSearchOutput struct {
	Body struct {
		Albums []AlbumResult `json:"albums" doc:"Matching release groups"`
	}
}

// === Handlers ===

func (s *Server) handleSearchArtists(ctx context.Context, input *ArtistSearchInput) (*ArtistSearchOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	artists, err := s.services.Catalog.SearchArtists(ctx, userID, input.Query)
	if err != nil {
		return nil, err
	}

	out := &ArtistSearchOutput{}
	out.Body.Artists = mapArtistResults(artists)
	return out, nil
}

func (s *Server) handleSearchAlbums(ctx context.Context, input *AlbumSearchInput) (*AlbumSearchOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	albums, err := s.services.Catalog.SearchAlbums(ctx, userID, input.Query)
	if err != nil {
		return nil, err
	}

	out := &AlbumSearchOutput{}
	out.Body.Albums = mapAlbumResults(albums)
	return out, nil
}

func (s *Server) handleArtistAlbums(ctx context.Context, input *ArtistAlbumsInput) (*AlbumSearchOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	albums, err := s.services.Catalog.AlbumsByArtist(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	out := &AlbumSearchOutput{}
	out.Body.Albums = mapAlbumResults(albums)
	return out, nil
}

// === Helpers ===

func mapArtistResults(artists []musicbrainz.Artist) []ArtistResult {
	results := make([]ArtistResult, 0, len(artists))
	for _, a := range artists {
		results = append(results, ArtistResult{
			ID:             a.ID,
			Name:           a.Name,
			Disambiguation: a.Disambiguation,
			Country:        a.Country,
			Score:          a.Score,
		})
	}
	return results
}

func mapAlbumResults(albums []musicbrainz.ReleaseGroup) []AlbumResult {
	results := make([]AlbumResult, 0, len(albums))
	for _, rg := range albums {
		results = append(results, AlbumResult{
			ID:               rg.ID,
			Title:            rg.Title,
			PrimaryType:      rg.PrimaryType,
			FirstReleaseDate: rg.FirstReleaseDate,
			ArtistName:       rg.ArtistName,
			ArtistID:         rg.ArtistID,
		})
	}
	return results
}
