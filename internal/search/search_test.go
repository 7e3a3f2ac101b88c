package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushestargate/stargate-server/internal/domain"
)

func newTestIndex(t *testing.T) *ActivityIndex {
	t.Helper()

	idx, err := NewActivityIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func seedEvents(t *testing.T, idx *ActivityIndex) {
	t.Helper()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	docs := []*ActivityDocument{
		ActivityToDocument(&domain.Activity{
			ID:        "act_1",
			UserID:    "user_alice",
			Action:    domain.ActionListCreated,
			Details:   map[string]string{"list": "Best of 2025"},
			Timestamp: base,
		}, "alice"),
		ActivityToDocument(&domain.Activity{
			ID:        "act_2",
			UserID:    "user_alice",
			Action:    domain.ActionSearch,
			Details:   map[string]string{"query": "Opeth Damnation"},
			Timestamp: base.Add(time.Hour),
		}, "alice"),
		ActivityToDocument(&domain.Activity{
			ID:        "act_3",
			UserID:    "user_bob",
			Action:    domain.ActionLogin,
			IPAddress: "192.0.2.10",
			Timestamp: base.Add(2 * time.Hour),
		}, "bob"),
	}

	require.NoError(t, idx.IndexDocuments(docs))
}

func TestSearch_FreeText(t *testing.T) {
	idx := newTestIndex(t)
	seedEvents(t, idx)

	params := DefaultSearchParams()
	params.Query = "Damnation"

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "act_2", result.Hits[0].ID)
	assert.Equal(t, "search", result.Hits[0].Action)
	assert.Equal(t, "alice", result.Hits[0].Username)
}

func TestSearch_ActionFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedEvents(t, idx)

	params := DefaultSearchParams()
	params.Actions = []string{"login"}

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "act_3", result.Hits[0].ID)
	assert.Equal(t, "192.0.2.10", result.Hits[0].IPAddress)
}

func TestSearch_UserScope(t *testing.T) {
	idx := newTestIndex(t)
	seedEvents(t, idx)

	params := DefaultSearchParams()
	params.UserID = "user_alice"

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Total)
	for _, hit := range result.Hits {
		assert.Equal(t, "user_alice", hit.UserID)
	}
}

func TestSearch_TimeWindow(t *testing.T) {
	idx := newTestIndex(t)
	seedEvents(t, idx)

	params := DefaultSearchParams()
	params.Since = time.Date(2026, 3, 1, 13, 30, 0, 0, time.UTC)

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "act_3", result.Hits[0].ID)
}

func TestSearch_RecentSortsNewestFirst(t *testing.T) {
	idx := newTestIndex(t)
	seedEvents(t, idx)

	params := DefaultSearchParams()

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, result.Hits, 3)
	assert.Equal(t, "act_3", result.Hits[0].ID)
	assert.Equal(t, "act_2", result.Hits[1].ID)
	assert.Equal(t, "act_1", result.Hits[2].ID)
}

func TestSearch_ActionFacets(t *testing.T) {
	idx := newTestIndex(t)
	seedEvents(t, idx)

	params := DefaultSearchParams()

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)

	actions := make(map[string]int)
	for _, f := range result.Facets.Actions {
		actions[f.Value] = f.Count
	}
	assert.Equal(t, 1, actions["list_created"])
	assert.Equal(t, 1, actions["search"])
	assert.Equal(t, 1, actions["login"])
}

func TestDeleteDocuments(t *testing.T) {
	idx := newTestIndex(t)
	seedEvents(t, idx)

	require.NoError(t, idx.DeleteDocuments([]string{"act_1", "act_2"}))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestFlattenDetails(t *testing.T) {
	assert.Equal(t, "", flattenDetails(nil))
	assert.Equal(t, "a=1\nb=2", flattenDetails(map[string]string{"b": "2", "a": "1"}))
}

func TestReopenKeepsDocuments(t *testing.T) {
	dir := t.TempDir()

	idx, err := NewActivityIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, idx.IndexDocument(&ActivityDocument{
		ID:        "act_1",
		UserID:    "user_alice",
		Action:    "login",
		Timestamp: time.Now().UnixMilli(),
	}))
	require.NoError(t, idx.Close())

	reopened, err := NewActivityIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
