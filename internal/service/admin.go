package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sushestargate/stargate-server/internal/admincode"
	"github.com/sushestargate/stargate-server/internal/backup"
	"github.com/sushestargate/stargate-server/internal/domain"
	domainerrors "github.com/sushestargate/stargate-server/internal/errors"
	"github.com/sushestargate/stargate-server/internal/ratelimit"
	"github.com/sushestargate/stargate-server/internal/store"
)

// redemptionRate allows 5 code redemption attempts per user per 30
// minutes. Codes are only 4 bytes of entropy, so attempts are throttled.
const (
	redemptionAttempts = 5
	redemptionWindow   = 30 * time.Minute
)

// AdminService implements the admin panel operations.
type AdminService struct {
	store        *store.Store
	activity     *ActivityService
	backups      *backup.Service
	codes        *admincode.Generator
	codeLifetime time.Duration
	redemptions  *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewAdminService creates the admin service.
func NewAdminService(
	s *store.Store,
	activity *ActivityService,
	backups *backup.Service,
	codes *admincode.Generator,
	codeLifetime time.Duration,
	logger *slog.Logger,
) *AdminService {
	if codeLifetime <= 0 {
		codeLifetime = admincode.DefaultLifetime
	}
	return &AdminService{
		store:        s,
		activity:     activity,
		backups:      backups,
		codes:        codes,
		codeLifetime: codeLifetime,
		redemptions:  ratelimit.New(redemptionAttempts/redemptionWindow.Seconds(), redemptionAttempts),
		logger:       logger,
	}
}

// Close releases background resources.
func (s *AdminService) Close() {
	s.redemptions.Stop()
}

// UserOverview is one row of the admin user table.
type UserOverview struct {
	*domain.User
	ListCount int `json:"list_count"`
}

// ListUsers returns every account with its list count.
func (s *AdminService) ListUsers(ctx context.Context) ([]UserOverview, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	overviews := make([]UserOverview, 0, len(users))
	for _, u := range users {
		lists, err := s.store.GetLists(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("count lists for %s: %w", u.ID, err)
		}
		overviews = append(overviews, UserOverview{User: u, ListCount: len(lists)})
	}
	return overviews, nil
}

// SetRole changes a user's role. Demoting the last remaining admin is
// rejected so the instance can't lock itself out.
func (s *AdminService) SetRole(ctx context.Context, actorID, targetID string, role domain.Role) (*domain.User, error) {
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, domainerrors.Validationf("unknown role %q", role)
	}

	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if target.IsAdmin() && role == domain.RoleUser {
		admins, err := s.store.CountAdmins(ctx)
		if err != nil {
			return nil, fmt.Errorf("count admins: %w", err)
		}
		if admins <= 1 {
			return nil, domainerrors.Conflict("cannot demote the last admin")
		}
	}

	target.Role = role
	if err := s.store.UpdateUser(ctx, target); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.activity.Record(Event{
		UserID: actorID,
		Action: domain.ActionRoleChanged,
		Details: map[string]string{
			"target": target.Username,
			"role":   string(role),
		},
	})
	s.logger.Info("role changed", "actor", actorID, "target", targetID, "role", role)
	return target, nil
}

// DeleteUser removes an account and everything it owns: lists,
// sessions, and audit records. The last admin cannot be deleted.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	target, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}

	if target.IsAdmin() {
		admins, err := s.store.CountAdmins(ctx)
		if err != nil {
			return fmt.Errorf("count admins: %w", err)
		}
		if admins <= 1 {
			return domainerrors.Conflict("cannot delete the last admin")
		}
	}

	if err := s.store.DeleteUserLists(ctx, targetID); err != nil {
		return fmt.Errorf("delete lists: %w", err)
	}
	if err := s.activity.RemoveUserEvents(ctx, targetID); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if err := s.store.DeleteUser(ctx, targetID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.activity.Record(Event{
		UserID:  actorID,
		Action:  domain.ActionUserDeleted,
		Details: map[string]string{"target": target.Username},
	})
	s.logger.Info("user deleted", "actor", actorID, "target", targetID)
	return nil
}

// MintAdminCode creates a one-time code that elevates its redeemer to
// admin. Codes expire after the configured lifetime.
func (s *AdminService) MintAdminCode(ctx context.Context, actorID string) (*domain.AdminCode, error) {
	value, err := s.codes.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	now := time.Now()
	code := &domain.AdminCode{
		Code:      value,
		CreatedBy: actorID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.codeLifetime),
	}
	if err := s.store.CreateAdminCode(ctx, code); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	s.activity.Record(Event{
		UserID: actorID,
		Action: domain.ActionAdminCodeMinted,
	})
	return code, nil
}

// RedeemAdminCode promotes the calling user to admin if the code is
// valid, unexpired, and unused. Attempts are rate limited per user.
func (s *AdminService) RedeemAdminCode(ctx context.Context, userID, codeValue string) (*domain.User, error) {
	if !s.redemptions.Allow(userID) {
		return nil, domainerrors.RateLimited("too many redemption attempts, try again later")
	}

	code, err := s.store.GetAdminCodeByValue(ctx, admincode.Normalize(codeValue))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid admin code")
		}
		return nil, fmt.Errorf("lookup code: %w", err)
	}

	if !code.Redeemable() {
		return nil, domainerrors.InvalidCredentials("invalid admin code")
	}

	if err := s.store.MarkAdminCodeUsed(ctx, code, userID); err != nil {
		return nil, fmt.Errorf("mark code used: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.Role = domain.RoleAdmin
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.activity.Record(Event{
		UserID: userID,
		Action: domain.ActionAdminCodeUsed,
	})
	s.logger.Info("admin code redeemed", "user_id", userID)
	return user, nil
}

// SweepExpiredCodes removes expired codes. Run periodically.
func (s *AdminService) SweepExpiredCodes(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredAdminCodes(ctx)
}

// UsersCSV renders the user roster as a CSV download.
func (s *AdminService) UsersCSV(ctx context.Context) ([]byte, error) {
	overviews, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]backup.UserRow, len(overviews))
	for i, o := range overviews {
		rows[i] = backup.UserRow{User: o.User, ListCount: o.ListCount}
	}

	var buf bytes.Buffer
	if err := backup.WriteUsersCSV(&buf, rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CreateBackup builds a full database snapshot for download and keeps
// a copy in the backup directory.
func (s *AdminService) CreateBackup(ctx context.Context, actorID string) (*backup.Document, error) {
	doc, err := s.backups.Build(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.backups.Write(doc); err != nil {
		// The download still succeeds; keeping a server-side copy is
		// best-effort.
		s.logger.Warn("failed to persist backup copy", "error", err)
	}

	s.activity.Record(Event{
		UserID: actorID,
		Action: domain.ActionBackupCreated,
	})
	return doc, nil
}
