package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/search"
)

func newIndexedActivityService(t *testing.T, env *testEnv, retention time.Duration) (*ActivityService, *search.ActivityIndex) {
	t.Helper()

	index, err := search.NewActivityIndex(search.Options{
		DataPath: t.TempDir(),
		Logger:   env.logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	svc := NewActivityService(env.store, index, retention, env.logger)
	t.Cleanup(svc.Stop)
	return svc, index
}

func TestActivityService_RecordFlushesOnStop(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", domain.RoleUser)
	ctx := context.Background()

	for range 5 {
		env.activity.Record(Event{
			UserID:    user.ID,
			Action:    domain.ActionLogin,
			IPAddress: "192.0.2.10",
		})
	}
	env.activity.Stop()

	records, err := env.store.ListUserActivities(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, domain.ActionLogin, records[0].Action)
	assert.Equal(t, "192.0.2.10", records[0].IPAddress)
}

func TestActivityService_MirrorsIntoIndex(t *testing.T) {
	env := newTestEnv(t)
	svc, index := newIndexedActivityService(t, env, 90*24*time.Hour)
	user := env.createUser(t, "alice", domain.RoleUser)
	ctx := context.Background()

	svc.Record(Event{
		UserID:  user.ID,
		Action:  domain.ActionListCreated,
		Details: map[string]string{"list": "Best of 2025"},
	})
	svc.Stop()

	result, err := svc.Search(ctx, search.SearchParams{Query: "Best of 2025", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "alice", result.Hits[0].Username)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestActivityService_SearchWithoutIndex(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.activity.Search(context.Background(), search.SearchParams{Query: "anything"})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestActivityService_Stats(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", domain.RoleUser)
	bob := env.createUser(t, "bob", domain.RoleUser)

	env.activity.Record(Event{UserID: alice.ID, Action: domain.ActionLogin})
	env.activity.Record(Event{UserID: alice.ID, Action: domain.ActionListCreated})
	env.activity.Record(Event{UserID: bob.ID, Action: domain.ActionLogin})
	env.activity.Stop()

	stats, err := env.activity.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.UniqueUsers)
	assert.Equal(t, 2, stats.ByAction[domain.ActionLogin])
	assert.Equal(t, 1, stats.ByAction[domain.ActionListCreated])
}

func TestActivityService_SweepRemovesOldRecords(t *testing.T) {
	env := newTestEnv(t)
	svc, index := newIndexedActivityService(t, env, 30*24*time.Hour)
	user := env.createUser(t, "alice", domain.RoleUser)
	ctx := context.Background()

	old := &domain.Activity{
		UserID:    user.ID,
		Action:    domain.ActionLogin,
		Timestamp: time.Now().Add(-60 * 24 * time.Hour),
	}
	require.NoError(t, env.store.CreateActivity(ctx, old))
	require.NoError(t, index.IndexDocument(search.ActivityToDocument(old, "alice")))

	recent := &domain.Activity{
		UserID:    user.ID,
		Action:    domain.ActionLogin,
		Timestamp: time.Now(),
	}
	require.NoError(t, env.store.CreateActivity(ctx, recent))
	require.NoError(t, index.IndexDocument(search.ActivityToDocument(recent, "alice")))

	removed, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	records, err := env.store.ListActivities(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, recent.ID, records[0].ID)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestActivityService_RemoveUserEvents(t *testing.T) {
	env := newTestEnv(t)
	svc, index := newIndexedActivityService(t, env, 90*24*time.Hour)
	alice := env.createUser(t, "alice", domain.RoleUser)
	bob := env.createUser(t, "bob", domain.RoleUser)
	ctx := context.Background()

	svc.Record(Event{UserID: alice.ID, Action: domain.ActionLogin})
	svc.Record(Event{UserID: bob.ID, Action: domain.ActionLogin})
	svc.Stop()

	require.NoError(t, svc.RemoveUserEvents(ctx, alice.ID))

	records, err := env.store.ListActivities(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, bob.ID, records[0].UserID)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
