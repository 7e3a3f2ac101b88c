package providers

import (
	"github.com/samber/do/v2"

	"github.com/sushestargate/stargate-server/internal/config"
	"github.com/sushestargate/stargate-server/internal/logger"
	"github.com/sushestargate/stargate-server/internal/metadata/coverartarchive"
	"github.com/sushestargate/stargate-server/internal/metadata/deezer"
	"github.com/sushestargate/stargate-server/internal/metadata/itunes"
	"github.com/sushestargate/stargate-server/internal/metadata/musicbrainz"
)

// ProvideMusicBrainzClient provides the rate-limited MusicBrainz client.
func ProvideMusicBrainzClient(i do.Injector) (*musicbrainz.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := musicbrainz.NewClient(log.Component("musicbrainz"), cfg.Catalog.UserAgent, cfg.Catalog.RequestsPerSecond)

	log.Info("MusicBrainz client ready",
		"user_agent", cfg.Catalog.UserAgent,
		"requests_per_second", cfg.Catalog.RequestsPerSecond,
	)

	return client, nil
}

// ProvideITunesClient provides the iTunes Search API client.
func ProvideITunesClient(i do.Injector) (*itunes.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return itunes.NewClient(log.Component("itunes")), nil
}

// ProvideDeezerClient provides the Deezer API client.
func ProvideDeezerClient(i do.Injector) (*deezer.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return deezer.NewClient(log.Component("deezer")), nil
}

// ProvideCoverArtArchiveClient provides the Cover Art Archive client.
func ProvideCoverArtArchiveClient(i do.Injector) (*coverartarchive.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return coverartarchive.NewClient(log.Component("coverartarchive")), nil
}
