package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sushestargate/stargate-server/internal/auth"
	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/store"
)

type testEnv struct {
	store    *store.Store
	activity *ActivityService
	logger   *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	s, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	activity := NewActivityService(s, nil, 90*24*time.Hour, logger)
	t.Cleanup(activity.Stop)

	return &testEnv{store: s, activity: activity, logger: logger}
}

func (e *testEnv) createUser(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()

	user := &domain.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Preferences:  domain.DefaultPreferences(),
	}
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	ts, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return ts
}

func testEntries(albums ...string) []domain.AlbumEntry {
	entries := make([]domain.AlbumEntry, len(albums))
	for i, album := range albums {
		entries[i] = domain.AlbumEntry{
			AlbumID: "mb-" + album,
			Artist:  "Artist",
			Album:   album,
			Rank:    i + 1,
		}
	}
	return entries
}
