package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sushestargate/stargate-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestEntity_Create_Success(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{
		ID:    "1",
		Name:  "First",
		Owner: "user-1",
	}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, testData.ID, retrieved.ID)
	require.Equal(t, testData.Name, retrieved.Name)
	require.Equal(t, testData.Owner, retrieved.Owner)
}

func TestEntity_Create_AlreadyExists(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{ID: "1", Name: "First"}

	err := entity.Create(context.Background(), "1", testData)
	require.NoError(t, err)

	// Try to create again
	err = entity.Create(context.Background(), "1", testData)
	require.Error(t, err)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	retrieved, err := entity.Get(context.Background(), "nonexistent")
	require.Error(t, err)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Nil(t, retrieved)
}

func TestEntity_Update_Success(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "First"})
	require.NoError(t, err)

	updatedData := &TestEntity{ID: "1", Name: "Renamed"}

	err = entity.Update(context.Background(), "1", updatedData)
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", retrieved.Name)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Update(context.Background(), "nonexistent", &TestEntity{ID: "1"})
	require.Error(t, err)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Delete_Success(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Create(context.Background(), "1", &TestEntity{ID: "1", Name: "First"})
	require.NoError(t, err)

	err = entity.Delete(context.Background(), "1")
	require.NoError(t, err)

	retrieved, err := entity.Get(context.Background(), "1")
	require.Error(t, err)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Nil(t, retrieved)
}

func TestEntity_Delete_NotFound(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	// Delete should be idempotent - no error if not exists
	err := entity.Delete(context.Background(), "nonexistent")
	require.NoError(t, err)
}

func TestEntity_ContextCancellation(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{ID: "1", Name: "First"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := entity.Create(ctx, "1", testData)
	require.ErrorIs(t, err, context.Canceled)

	_, err = entity.Get(ctx, "1")
	require.ErrorIs(t, err, context.Canceled)

	err = entity.Update(ctx, "1", testData)
	require.ErrorIs(t, err, context.Canceled)

	err = entity.Delete(ctx, "1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestEntity_ContextTimeout(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()
	time.Sleep(2 * time.Nanosecond)

	err := entity.Create(ctx, "1", &TestEntity{ID: "1"})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEntity_WithIndex(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("name", func(e *TestEntity) []string {
			return []string{e.Name}
		})

	ctx := context.Background()

	testEntity := &TestEntity{ID: "test_123", Name: "unique-name"}

	err := entity.Create(ctx, "test_123", testEntity)
	require.NoError(t, err)

	retrieved, err := entity.GetByIndex(ctx, "name", "unique-name")
	require.NoError(t, err)
	require.Equal(t, testEntity.ID, retrieved.ID)
}

func TestEntity_GetByIndex_NotFound(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("name", func(e *TestEntity) []string {
			return []string{e.Name}
		})

	_, err := entity.GetByIndex(context.Background(), "name", "nonexistent")
	require.Error(t, err)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_IndexConflict(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithIndex("name", func(e *TestEntity) []string {
			return []string{e.Name}
		})

	ctx := context.Background()

	err := entity.Create(ctx, "test_1", &TestEntity{ID: "test_1", Name: "same"})
	require.NoError(t, err)

	// Try to create another with the same indexed name
	err = entity.Create(ctx, "test_2", &TestEntity{ID: "test_2", Name: "same"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "name")
}

func TestEntity_MultiIndex_AllowsSharedKey(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithMultiIndex("owner", func(e *TestEntity) []string {
			return []string{e.Owner}
		})

	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		e := &TestEntity{
			ID:    fmt.Sprintf("test_%d", i),
			Name:  fmt.Sprintf("Test %d", i),
			Owner: "user-1",
		}
		require.NoError(t, entity.Create(ctx, e.ID, e))
	}
	require.NoError(t, entity.Create(ctx, "test_other", &TestEntity{ID: "test_other", Owner: "user-2"}))

	var got []string
	for e, err := range entity.ListByIndex(ctx, "owner", "user-1") {
		require.NoError(t, err)
		got = append(got, e.ID)
	}
	require.Len(t, got, 3)
	require.NotContains(t, got, "test_other")
}

func TestEntity_MultiIndex_UpdateMovesKey(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithMultiIndex("owner", func(e *TestEntity) []string {
			return []string{e.Owner}
		})

	ctx := context.Background()

	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Owner: "user-1"}))
	require.NoError(t, entity.Update(ctx, "1", &TestEntity{ID: "1", Owner: "user-2"}))

	var oldOwner int
	for _, err := range entity.ListByIndex(ctx, "owner", "user-1") {
		require.NoError(t, err)
		oldOwner++
	}
	require.Zero(t, oldOwner)

	var newOwner int
	for _, err := range entity.ListByIndex(ctx, "owner", "user-2") {
		require.NoError(t, err)
		newOwner++
	}
	require.Equal(t, 1, newOwner)
}

func TestEntity_MultiIndex_DeleteCleansKey(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:").
		WithMultiIndex("owner", func(e *TestEntity) []string {
			return []string{e.Owner}
		})

	ctx := context.Background()

	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Owner: "user-1"}))
	require.NoError(t, entity.Delete(ctx, "1"))

	var count int
	for _, err := range entity.ListByIndex(ctx, "owner", "user-1") {
		require.NoError(t, err)
		count++
	}
	require.Zero(t, count)
}

func TestEntity_List(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		e := &TestEntity{
			ID:   fmt.Sprintf("test_%d", i),
			Name: fmt.Sprintf("Test %d", i),
		}
		require.NoError(t, entity.Create(ctx, e.ID, e))
	}

	var count int
	for retrieved, err := range entity.List(ctx) {
		require.NoError(t, err)
		require.NotEmpty(t, retrieved.ID)
		count++
	}

	require.Equal(t, 5, count)
}

func TestEntity_List_EarlyTermination(t *testing.T) {
	s := setupTestStore(t)

	entity := store.NewEntity[TestEntity](s, "test:")
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		e := &TestEntity{
			ID:   fmt.Sprintf("test_%d", i),
			Name: fmt.Sprintf("Test %d", i),
		}
		require.NoError(t, entity.Create(ctx, e.ID, e))
	}

	// Stop after 3 items
	var count int
	for retrieved, err := range entity.List(ctx) {
		require.NoError(t, err)
		require.NotEmpty(t, retrieved.ID)
		count++
		if count == 3 {
			break
		}
	}

	require.Equal(t, 3, count)
}
