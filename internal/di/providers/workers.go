package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/sushestargate/stargate-server/internal/logger"
	"github.com/sushestargate/stargate-server/internal/service"
)

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		if count, err := sessionService.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := sessionService.DeleteExpiredSessions(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}

// ActivityRetentionJob prunes audit events past the retention window.
type ActivityRetentionJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *ActivityRetentionJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideActivityRetentionJob provides the daily audit retention sweep.
func ProvideActivityRetentionJob(i do.Injector) (*ActivityRetentionJob, error) {
	activityHandle := do.MustInvoke[*ActivityServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go activityHandle.RunRetentionLoop(ctx)

	log.Info("Activity retention job started")

	return &ActivityRetentionJob{cancel: cancel}, nil
}

// AdminCodeSweepJob removes expired admin codes.
type AdminCodeSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *AdminCodeSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideAdminCodeSweepJob provides the periodic admin code sweep.
func ProvideAdminCodeSweepJob(i do.Injector) (*AdminCodeSweepJob, error) {
	adminHandle := do.MustInvoke[*AdminServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if count, err := adminHandle.SweepExpiredCodes(ctx); err != nil {
					log.Warn("Admin code sweep failed", "error", err)
				} else if count > 0 {
					log.Info("Admin code sweep completed", "removed", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Admin code sweep job started")

	return &AdminCodeSweepJob{cancel: cancel}, nil
}
