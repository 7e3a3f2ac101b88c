package store

import (
	"context"
	"time"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/id"
)

// CreateAdminCode persists a freshly minted admin code.
func (s *Store) CreateAdminCode(ctx context.Context, code *domain.AdminCode) error {
	if code.ID == "" {
		code.ID = id.MustGenerate("code")
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	return s.AdminCodes.Create(ctx, code.ID, code)
}

// GetAdminCodeByValue finds a code by its redeemable value.
func (s *Store) GetAdminCodeByValue(ctx context.Context, value string) (*domain.AdminCode, error) {
	return s.AdminCodes.GetByIndex(ctx, "code", value)
}

// MarkAdminCodeUsed stamps the code as redeemed by the given user.
func (s *Store) MarkAdminCodeUsed(ctx context.Context, code *domain.AdminCode, userID string) error {
	code.UsedBy = userID
	code.UsedAt = time.Now()
	return s.AdminCodes.Update(ctx, code.ID, code)
}

// DeleteExpiredAdminCodes sweeps codes past their lifetime.
// Returns the number removed.
func (s *Store) DeleteExpiredAdminCodes(ctx context.Context) (int, error) {
	var expired []string
	for c, err := range s.AdminCodes.List(ctx) {
		if err != nil {
			return 0, err
		}
		if c.IsExpired() {
			expired = append(expired, c.ID)
		}
	}
	for _, cid := range expired {
		if err := s.AdminCodes.Delete(ctx, cid); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}
