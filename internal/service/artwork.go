package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/sushestargate/stargate-server/internal/cache"
	domainerrors "github.com/sushestargate/stargate-server/internal/errors"
	"github.com/sushestargate/stargate-server/internal/normalize"
)

// CoverSearcher finds album artwork by text query.
// Implemented by the iTunes and Deezer clients.
type CoverSearcher interface {
	SearchAlbumCover(ctx context.Context, artist, album string) (string, error)
}

// ArtistImageSearcher finds artist imagery by name.
// Implemented by the iTunes and Deezer clients.
type ArtistImageSearcher interface {
	SearchArtistImage(ctx context.Context, artist string) (string, error)
}

// ArchiveResolver finds artwork by catalog ID.
// Implemented by the Cover Art Archive client.
type ArchiveResolver interface {
	FrontCoverURL(ctx context.Context, releaseGroupID string) (string, error)
}

// ArtworkService resolves cover art and artist images across several
// providers. Provider failures never propagate; a failed lookup just
// contributes no candidate.
type ArtworkService struct {
	coverPrimary    CoverSearcher
	coverSecondary  CoverSearcher
	artistPrimary   ArtistImageSearcher
	artistSecondary ArtistImageSearcher
	archive         ArchiveResolver

	coverCache  *cache.Cache[string]
	artistCache *cache.Cache[string]
	logger      *slog.Logger
}

// NewArtworkService creates the resolver. The primary provider's URL
// wins when both providers return one; the archive is consulted only
// when both text providers come up empty and a catalog ID is known.
func NewArtworkService(
	coverPrimary, coverSecondary CoverSearcher,
	artistPrimary, artistSecondary ArtistImageSearcher,
	archive ArchiveResolver,
	coverCache, artistCache *cache.Cache[string],
	logger *slog.Logger,
) *ArtworkService {
	return &ArtworkService{
		coverPrimary:    coverPrimary,
		coverSecondary:  coverSecondary,
		artistPrimary:   artistPrimary,
		artistSecondary: artistSecondary,
		archive:         archive,
		coverCache:      coverCache,
		artistCache:     artistCache,
		logger:          logger,
	}
}

// ResolveCoverArt returns a cover image URL for the album, or empty
// when no provider has one. Both text providers are queried
// concurrently and the call waits for both before choosing.
func (s *ArtworkService) ResolveCoverArt(ctx context.Context, artist, album, releaseGroupID string) (string, error) {
	artist = strings.TrimSpace(artist)
	album = strings.TrimSpace(album)
	if artist == "" || album == "" {
		return "", domainerrors.Validation("artist and album are required")
	}

	// The catalog ID is the stable cache key; the folded artist|album
	// composite only stands in for manual entries without one.
	key := releaseGroupID
	if key == "" {
		key = normalize.CacheKey(artist, album)
	}
	if url, ok := s.coverCache.Get(key); ok {
		return url, nil
	}

	var primaryURL, secondaryURL string
	var wg sync.WaitGroup

	wg.Go(func() {
		url, err := s.coverPrimary.SearchAlbumCover(ctx, artist, album)
		if err != nil {
			s.logger.Debug("primary cover provider failed", "artist", artist, "album", album, "error", err)
			return
		}
		primaryURL = url
	})
	wg.Go(func() {
		url, err := s.coverSecondary.SearchAlbumCover(ctx, artist, album)
		if err != nil {
			s.logger.Debug("secondary cover provider failed", "artist", artist, "album", album, "error", err)
			return
		}
		secondaryURL = url
	})
	wg.Wait()

	url := primaryURL
	if url == "" {
		url = secondaryURL
	}

	if url == "" && releaseGroupID != "" {
		archiveURL, err := s.archive.FrontCoverURL(ctx, releaseGroupID)
		if err != nil {
			s.logger.Debug("archive cover lookup failed", "release_group", releaseGroupID, "error", err)
		} else {
			url = archiveURL
		}
	}

	if url != "" {
		s.coverCache.Set(key, url)
	}
	return url, nil
}

// ResolveArtistImage returns an image URL for the artist, or empty
// when no provider has one.
func (s *ArtworkService) ResolveArtistImage(ctx context.Context, artist, artistID string) (string, error) {
	artist = strings.TrimSpace(artist)
	if artist == "" {
		return "", domainerrors.Validation("artist is required")
	}

	key := artistID
	if key == "" {
		key = normalize.Fold(artist)
	}
	if url, ok := s.artistCache.Get(key); ok {
		return url, nil
	}

	var primaryURL, secondaryURL string
	var wg sync.WaitGroup

	wg.Go(func() {
		url, err := s.artistPrimary.SearchArtistImage(ctx, artist)
		if err != nil {
			s.logger.Debug("primary artist provider failed", "artist", artist, "error", err)
			return
		}
		primaryURL = url
	})
	wg.Go(func() {
		url, err := s.artistSecondary.SearchArtistImage(ctx, artist)
		if err != nil {
			s.logger.Debug("secondary artist provider failed", "artist", artist, "error", err)
			return
		}
		secondaryURL = url
	})
	wg.Wait()

	url := primaryURL
	if url == "" {
		url = secondaryURL
	}

	if url != "" {
		s.artistCache.Set(key, url)
	}
	return url, nil
}
