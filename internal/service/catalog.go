package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sushestargate/stargate-server/internal/domain"
	domainerrors "github.com/sushestargate/stargate-server/internal/errors"
	"github.com/sushestargate/stargate-server/internal/metadata/musicbrainz"
)

// ArtistSearcher is the catalog surface CatalogService needs.
// Implemented by the MusicBrainz client.
type ArtistSearcher interface {
	SearchArtists(ctx context.Context, name string) ([]musicbrainz.Artist, error)
	SearchAlbumsByArtist(ctx context.Context, artistID string) ([]musicbrainz.ReleaseGroup, error)
	SearchAlbumsByQuery(ctx context.Context, text string) ([]musicbrainz.ReleaseGroup, error)
}

// CatalogService proxies catalog searches to the metadata provider.
// Provider failures surface as empty result sets, not errors; search
// is an enrichment feature and a flaky upstream shouldn't break the
// page.
type CatalogService struct {
	catalog  ArtistSearcher
	activity *ActivityService
	logger   *slog.Logger
}

// NewCatalogService creates a catalog search service.
func NewCatalogService(catalog ArtistSearcher, activity *ActivityService, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		catalog:  catalog,
		activity: activity,
		logger:   logger,
	}
}

// SearchArtists looks up artists by name.
func (s *CatalogService) SearchArtists(ctx context.Context, userID, query string) ([]musicbrainz.Artist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("query is required")
	}

	s.recordSearch(userID, "artist", query)

	artists, err := s.catalog.SearchArtists(ctx, query)
	if err != nil {
		s.logger.Warn("artist search failed upstream", "query", query, "error", err)
		return []musicbrainz.Artist{}, nil
	}
	return artists, nil
}

// AlbumsByArtist lists an artist's studio albums and EPs.
func (s *CatalogService) AlbumsByArtist(ctx context.Context, userID, artistID string) ([]musicbrainz.ReleaseGroup, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return nil, domainerrors.Validation("artist id is required")
	}

	albums, err := s.catalog.SearchAlbumsByArtist(ctx, artistID)
	if err != nil {
		s.logger.Warn("album lookup failed upstream", "artist_id", artistID, "error", err)
		return []musicbrainz.ReleaseGroup{}, nil
	}
	return albums, nil
}

// SearchAlbums looks up release groups by free text.
func (s *CatalogService) SearchAlbums(ctx context.Context, userID, query string) ([]musicbrainz.ReleaseGroup, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("query is required")
	}

	s.recordSearch(userID, "album", query)

	albums, err := s.catalog.SearchAlbumsByQuery(ctx, query)
	if err != nil {
		s.logger.Warn("album search failed upstream", "query", query, "error", err)
		return []musicbrainz.ReleaseGroup{}, nil
	}
	return albums, nil
}

func (s *CatalogService) recordSearch(userID, kind, query string) {
	s.activity.Record(Event{
		UserID:  userID,
		Action:  domain.ActionSearch,
		Details: map[string]string{"kind": kind, "query": query},
	})
}
