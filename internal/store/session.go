package store

import (
	"context"
	"time"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/id"
)

// CreateSession persists a new refresh session.
func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	if sess.ID == "" {
		sess.ID = id.MustGenerate("sess")
	}
	now := time.Now()
	sess.CreatedAt = now
	sess.LastSeenAt = now
	return s.Sessions.Create(ctx, sess.ID, sess)
}

// GetSessionByTokenHash finds the session holding the given refresh token hash.
func (s *Store) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return s.Sessions.GetByIndex(ctx, "token", tokenHash)
}

// UpdateSession persists changes to an existing session.
func (s *Store) UpdateSession(ctx context.Context, sess *domain.Session) error {
	return s.Sessions.Update(ctx, sess.ID, sess)
}

// DeleteSession removes one session. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

// DeleteUserSessions removes every session belonging to a user.
func (s *Store) DeleteUserSessions(ctx context.Context, userID string) error {
	for sess, err := range s.Sessions.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return err
		}
		if err := s.Sessions.Delete(ctx, sess.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteExpiredSessions sweeps sessions whose expiry has passed.
// Returns the number removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	var expired []string
	for sess, err := range s.Sessions.List(ctx) {
		if err != nil {
			return 0, err
		}
		if sess.IsExpired() {
			expired = append(expired, sess.ID)
		}
	}
	for _, sid := range expired {
		if err := s.Sessions.Delete(ctx, sid); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}
