package providers

import (
	"path/filepath"
	"time"

	"github.com/samber/do/v2"

	"github.com/sushestargate/stargate-server/internal/admincode"
	"github.com/sushestargate/stargate-server/internal/auth"
	"github.com/sushestargate/stargate-server/internal/backup"
	"github.com/sushestargate/stargate-server/internal/cache"
	"github.com/sushestargate/stargate-server/internal/config"
	"github.com/sushestargate/stargate-server/internal/logger"
	"github.com/sushestargate/stargate-server/internal/metadata/coverartarchive"
	"github.com/sushestargate/stargate-server/internal/metadata/deezer"
	"github.com/sushestargate/stargate-server/internal/metadata/itunes"
	"github.com/sushestargate/stargate-server/internal/metadata/musicbrainz"
	"github.com/sushestargate/stargate-server/internal/service"
)

// ActivityServiceHandle wraps the activity service with shutdown capability.
type ActivityServiceHandle struct {
	*service.ActivityService
}

// Shutdown implements do.Shutdownable.
func (h *ActivityServiceHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideActivityService provides the audit recording service.
func ProvideActivityService(i do.Injector) (*ActivityServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*ActivityIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	retention := time.Duration(cfg.Activity.RetentionDays) * 24 * time.Hour
	svc := service.NewActivityService(storeHandle.Store, indexHandle.ActivityIndex, retention, log.Logger)

	log.Info("Activity service started", "retention_days", cfg.Activity.RetentionDays)

	return &ActivityServiceHandle{ActivityService: svc}, nil
}

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	activityHandle := do.MustInvoke[*ActivityServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, activityHandle.ActivityService, log.Logger), nil
}

// ProvideCatalogService provides the MusicBrainz-backed catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	mb := do.MustInvoke[*musicbrainz.Client](i)
	activityHandle := do.MustInvoke[*ActivityServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(mb, activityHandle.ActivityService, log.Logger), nil
}

// ProvideArtworkService provides the cover and artist image resolver.
// iTunes is the primary source for both covers and artist portraits,
// with Deezer as the fallback.
func ProvideArtworkService(i do.Injector) (*service.ArtworkService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	itunesClient := do.MustInvoke[*itunes.Client](i)
	deezerClient := do.MustInvoke[*deezer.Client](i)
	archiveClient := do.MustInvoke[*coverartarchive.Client](i)

	coverCache := cache.New[string](cfg.Artwork.CoverCacheSize, cfg.Artwork.CoverCacheTTL)
	artistCache := cache.New[string](cfg.Artwork.ArtistCacheSize, cfg.Artwork.ArtistCacheTTL)

	return service.NewArtworkService(
		itunesClient, deezerClient,
		itunesClient, deezerClient,
		archiveClient,
		coverCache, artistCache,
		log.Logger,
	), nil
}

// ProvideListService provides the album list service.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	activityHandle := do.MustInvoke[*ActivityServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewListService(storeHandle.Store, activityHandle.ActivityService, log.Logger), nil
}

// ProvideImportService provides the list import service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	activityHandle := do.MustInvoke[*ActivityServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImportService(storeHandle.Store, activityHandle.ActivityService, log.Logger), nil
}

// AdminServiceHandle wraps the admin service with shutdown capability.
type AdminServiceHandle struct {
	*service.AdminService
}

// Shutdown implements do.Shutdownable.
func (h *AdminServiceHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAdminService provides the admin panel service.
func ProvideAdminService(i do.Injector) (*AdminServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	activityHandle := do.MustInvoke[*ActivityServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	backupDir := filepath.Join(cfg.Data.BasePath, "backups")
	backupSvc := backup.NewService(storeHandle.Store, backupDir, log.Logger)

	svc := service.NewAdminService(
		storeHandle.Store,
		activityHandle.ActivityService,
		backupSvc,
		admincode.NewGenerator(),
		cfg.Admin.CodeLifetime,
		log.Logger,
	)

	return &AdminServiceHandle{AdminService: svc}, nil
}
