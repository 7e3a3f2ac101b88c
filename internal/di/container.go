// Package di provides dependency injection configuration for the Stargate server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/sushestargate/stargate-server/internal/auth"
	"github.com/sushestargate/stargate-server/internal/config"
	"github.com/sushestargate/stargate-server/internal/di/providers"
	"github.com/sushestargate/stargate-server/internal/logger"
	"github.com/sushestargate/stargate-server/internal/metadata/coverartarchive"
	"github.com/sushestargate/stargate-server/internal/metadata/deezer"
	"github.com/sushestargate/stargate-server/internal/metadata/itunes"
	"github.com/sushestargate/stargate-server/internal/metadata/musicbrainz"
	"github.com/sushestargate/stargate-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideActivityIndex)

	// Metadata layer
	do.Provide(injector, providers.ProvideMusicBrainzClient)
	do.Provide(injector, providers.ProvideITunesClient)
	do.Provide(injector, providers.ProvideDeezerClient)
	do.Provide(injector, providers.ProvideCoverArtArchiveClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideActivityService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideArtworkService)
	do.Provide(injector, providers.ProvideListService)
	do.Provide(injector, providers.ProvideImportService)
	do.Provide(injector, providers.ProvideAdminService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)
	do.Provide(injector, providers.ProvideActivityRetentionJob)
	do.Provide(injector, providers.ProvideAdminCodeSweepJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ActivityIndexHandle](injector)
	_ = do.MustInvoke[*musicbrainz.Client](injector)
	_ = do.MustInvoke[*itunes.Client](injector)
	_ = do.MustInvoke[*deezer.Client](injector)
	_ = do.MustInvoke[*coverartarchive.Client](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*providers.ActivityServiceHandle](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.ArtworkService](injector)
	_ = do.MustInvoke[*service.ListService](injector)
	_ = do.MustInvoke[*service.ImportService](injector)
	_ = do.MustInvoke[*providers.AdminServiceHandle](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.ActivityRetentionJob](injector)
	_ = do.MustInvoke[*providers.AdminCodeSweepJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
