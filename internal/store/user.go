package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/id"
)

// CreateUser persists a new user account.
// Returns ErrAlreadyExists when the username is taken (case-insensitive).
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = id.MustGenerate("user")
	}
	user.InitTimestamps()
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrAlreadyExists.WithMessage("username already taken")
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.Users.Get(ctx, userID)
}

// GetUserByUsername retrieves a user by username, case-insensitively.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "username", username)
}

// UpdateUser persists changes to an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()
	return s.Users.Update(ctx, user.ID, user)
}

// ListUsers returns all user accounts, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for u, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b *domain.User) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return users, nil
}

// CountAdmins returns the number of accounts holding the admin role.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	count := 0
	for u, err := range s.Users.List(ctx) {
		if err != nil {
			return 0, err
		}
		if u.IsAdmin() {
			count++
		}
	}
	return count, nil
}

// DeleteUser removes the account and all of its sessions.
// Cascade over lists and activity is handled by the admin service.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := s.DeleteUserSessions(ctx, userID); err != nil {
		return err
	}
	return s.Users.Delete(ctx, userID)
}

// TouchLastLogin stamps the user's last successful login time.
func (s *Store) TouchLastLogin(ctx context.Context, userID string) error {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return err
	}
	user.LastLoginAt = time.Now()
	return s.UpdateUser(ctx, user)
}

// UpdatePreferences replaces the user's preference block.
func (s *Store) UpdatePreferences(ctx context.Context, userID string, prefs domain.Preferences) (*domain.User, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Preferences = prefs
	if err := s.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
