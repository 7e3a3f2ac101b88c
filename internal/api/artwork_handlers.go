package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerArtworkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "resolveCoverArt",
		Method:      http.MethodGet,
		Path:        "/api/v1/artwork/cover",
		Summary:     "Resolve cover art",
		Description: "Finds a cover image URL for an album, trying iTunes, Deezer, and the Cover Art Archive in order",
		Tags:        []string{"Artwork"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResolveCoverArt)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolveArtistImage",
		Method:      http.MethodGet,
		Path:        "/api/v1/artwork/artist",
		Summary:     "Resolve artist image",
		Description: "Finds a portrait image URL for an artist",
		Tags:        []string{"Artwork"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResolveArtistImage)
}

// === DTOs ===

// CoverArtInput identifies the album whose cover to resolve.
type CoverArtInput struct {
	Authorization  string `header:"Authorization"`
	Artist         string `query:"artist" required:"true" minLength:"1" maxLength:"300" doc:"Artist name"`
	Album          string `query:"album" required:"true" minLength:"1" maxLength:"300" doc:"Album title"`
	ReleaseGroupID string `query:"release_group_id" doc:"Optional MusicBrainz release group ID for the archive fallback"`
}

// ArtistImageInput identifies the artist whose image to resolve.
type ArtistImageInput struct {
	Authorization string `header:"Authorization"`
	Name          string `query:"name" required:"true" minLength:"1" maxLength:"300" doc:"Artist name"`
	ArtistID      string `query:"artist_id" doc:"Optional MusicBrainz artist ID, used as the cache key when present"`
}

// ArtworkResponse carries a resolved image URL. URL is empty when no
// provider had an image.
type ArtworkResponse struct {
	URL string `json:"url" doc:"Image URL, empty when nothing was found"`
}

// ArtworkOutput wraps the artwork response for Huma.
type ArtworkOutput struct {
	Body ArtworkResponse
}

// === Handlers ===

func (s *Server) handleResolveCoverArt(ctx context.Context, input *CoverArtInput) (*ArtworkOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	url, err := s.services.Artwork.ResolveCoverArt(ctx, input.Artist, input.Album, input.ReleaseGroupID)
	if err != nil {
		return nil, err
	}

	return &ArtworkOutput{Body: ArtworkResponse{URL: url}}, nil
}

func (s *Server) handleResolveArtistImage(ctx context.Context, input *ArtistImageInput) (*ArtworkOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	url, err := s.services.Artwork.ResolveArtistImage(ctx, input.Name, input.ArtistID)
	if err != nil {
		return nil, err
	}

	return &ArtworkOutput{Body: ArtworkResponse{URL: url}}, nil
}
