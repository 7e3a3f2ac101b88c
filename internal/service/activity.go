package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/search"
	"github.com/sushestargate/stargate-server/internal/store"
)

// statsWindow is the period the activity stats summarize.
const statsWindow = 7 * 24 * time.Hour

// eventBuffer sizes the async recording queue. Recording is
// best-effort; events are dropped with a warning when the queue is
// full rather than blocking request handling.
const eventBuffer = 256

// Event is one audit trail entry to record.
type Event struct {
	UserID    string
	Action    string
	Details   map[string]string
	SessionID string
	IPAddress string
	UserAgent string
}

// ActivityService records the audit trail asynchronously, mirrors it
// into the search index, and sweeps old records per the retention
// policy.
type ActivityService struct {
	store     *store.Store
	index     *search.ActivityIndex // nil disables the search mirror
	retention time.Duration
	logger    *slog.Logger

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewActivityService creates the service and starts its worker.
// Callers must Stop it on shutdown to flush pending events.
func NewActivityService(
	s *store.Store,
	index *search.ActivityIndex,
	retention time.Duration,
	logger *slog.Logger,
) *ActivityService {
	svc := &ActivityService{
		store:     s,
		index:     index,
		retention: retention,
		logger:    logger,
		events:    make(chan Event, eventBuffer),
		done:      make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.worker()

	return svc
}

// Record queues an audit event. Never blocks; a full queue drops the
// event with a warning.
func (s *ActivityService) Record(e Event) {
	select {
	case s.events <- e:
	default:
		s.logger.Warn("activity queue full, dropping event",
			"action", e.Action,
			"user_id", e.UserID,
		)
	}
}

// Stop flushes queued events and stops the worker.
func (s *ActivityService) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

func (s *ActivityService) worker() {
	defer s.wg.Done()

	for {
		select {
		case e := <-s.events:
			s.persist(e)
		case <-s.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case e := <-s.events:
					s.persist(e)
				default:
					return
				}
			}
		}
	}
}

func (s *ActivityService) persist(e Event) {
	activity := &domain.Activity{
		UserID:    e.UserID,
		Action:    e.Action,
		Details:   e.Details,
		SessionID: e.SessionID,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		Timestamp: time.Now(),
	}

	ctx := context.Background()
	if err := s.store.CreateActivity(ctx, activity); err != nil {
		s.logger.Error("failed to record activity",
			"action", e.Action,
			"user_id", e.UserID,
			"error", err,
		)
		return
	}

	s.mirror(ctx, activity)
}

// mirror indexes one record into the search index, best-effort.
func (s *ActivityService) mirror(ctx context.Context, activity *domain.Activity) {
	if s.index == nil {
		return
	}

	username := ""
	if activity.UserID != "" {
		if user, err := s.store.GetUser(ctx, activity.UserID); err == nil {
			username = user.Username
		}
	}

	if err := s.index.IndexDocument(search.ActivityToDocument(activity, username)); err != nil {
		s.logger.Warn("failed to index activity",
			"activity_id", activity.ID,
			"error", err,
		)
	}
}

// List returns audit records newest-first with offset pagination.
func (s *ActivityService) List(ctx context.Context, limit, offset int) ([]*domain.Activity, error) {
	return s.store.ListActivities(ctx, limit, offset)
}

// ListForUser returns one user's audit records newest-first.
func (s *ActivityService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Activity, error) {
	return s.store.ListUserActivities(ctx, userID, limit, offset)
}

// Search runs a full-text query over the audit trail.
func (s *ActivityService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if s.index == nil {
		return &search.SearchResult{Query: params.Query, Hits: []search.SearchHit{}}, nil
	}
	return s.index.Search(ctx, params)
}

// Stats summarizes the last seven days of activity.
func (s *ActivityService) Stats(ctx context.Context) (*domain.ActivityStats, error) {
	since := time.Now().Add(-statsWindow)

	activities, err := s.store.ListActivitiesSince(ctx, since)
	if err != nil {
		return nil, err
	}

	stats := &domain.ActivityStats{
		Since:    since,
		Total:    len(activities),
		ByAction: make(map[string]int),
	}

	users := make(map[string]struct{})
	for _, a := range activities {
		stats.ByAction[string(a.Action)]++
		if a.UserID != "" {
			users[a.UserID] = struct{}{}
		}
	}
	stats.UniqueUsers = len(users)

	return stats, nil
}

// Sweep removes records older than the retention window from the
// store and the search index. Returns how many were removed.
func (s *ActivityService) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.retention)

	ids, err := s.store.DeleteActivitiesBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if s.index != nil && len(ids) > 0 {
		if err := s.index.DeleteDocuments(ids); err != nil {
			s.logger.Warn("failed to remove swept activities from index", "error", err)
		}
	}

	if len(ids) > 0 {
		s.logger.Info("swept old activity records",
			"count", len(ids),
			"cutoff", cutoff,
		)
	}
	return len(ids), nil
}

// RunRetentionLoop sweeps once immediately and then daily until the
// context is cancelled. Intended to run in its own goroutine.
func (s *ActivityService) RunRetentionLoop(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("retention sweep failed", "error", err)
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("retention sweep failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// RemoveUserEvents deletes a user's audit records everywhere.
// Used when an account is deleted.
func (s *ActivityService) RemoveUserEvents(ctx context.Context, userID string) error {
	ids, err := s.store.DeleteUserActivities(ctx, userID)
	if err != nil {
		return err
	}
	if s.index != nil && len(ids) > 0 {
		if err := s.index.DeleteDocuments(ids); err != nil {
			s.logger.Warn("failed to remove user activities from index", "error", err)
		}
	}
	return nil
}
