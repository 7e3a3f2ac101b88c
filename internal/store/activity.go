package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/id"
)

// Activity storage key prefixes.
// Uses inverted timestamps for descending order (newest first) during forward iteration.
const (
	activityPrefix        = "act:"
	activityIdxTimePrefix = "act:idx:time:"
	activityIdxUserPrefix = "act:idx:user:"
)

// invertedTimestamp returns a string that sorts in descending order.
// Uses MaxInt64 - UnixNano to ensure newest timestamps come first during forward iteration.
func invertedTimestamp(t time.Time) string {
	inverted := math.MaxInt64 - t.UnixNano()
	return fmt.Sprintf("%019d", inverted)
}

// CreateActivity stores a new audit record with all indexes in a single transaction.
func (s *Store) CreateActivity(ctx context.Context, activity *domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if activity.ID == "" {
		activity.ID = id.MustGenerate("act")
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}

	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("marshaling activity: %w", err)
	}

	invertedTS := invertedTimestamp(activity.Timestamp)

	return s.db.Update(func(txn *badger.Txn) error {
		// Primary key: act:{id} -> Activity JSON
		primaryKey := []byte(activityPrefix + activity.ID)
		if err := txn.Set(primaryKey, data); err != nil {
			return fmt.Errorf("setting primary key: %w", err)
		}

		// Time index: act:idx:time:{inverted_timestamp}:{id} -> "" (key-only)
		// This allows scanning newest-first without reverse iteration
		timeKey := []byte(activityIdxTimePrefix + invertedTS + ":" + activity.ID)
		if err := txn.Set(timeKey, []byte{}); err != nil {
			return fmt.Errorf("setting time index: %w", err)
		}

		// User index: act:idx:user:{userId}:{inverted_timestamp}:{id} -> ""
		if activity.UserID != "" {
			userKey := []byte(activityIdxUserPrefix + activity.UserID + ":" + invertedTS + ":" + activity.ID)
			if err := txn.Set(userKey, []byte{}); err != nil {
				return fmt.Errorf("setting user index: %w", err)
			}
		}

		return nil
	})
}

// GetActivity retrieves a single audit record by ID.
func (s *Store) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var activity domain.Activity
	err := s.get([]byte(activityPrefix+activityID), &activity)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return &activity, nil
}

// ListActivities returns audit records newest-first with offset pagination.
func (s *Store) ListActivities(ctx context.Context, limit, offset int) ([]*domain.Activity, error) {
	return s.scanActivityIndex(ctx, activityIdxTimePrefix, limit, offset, time.Time{})
}

// ListUserActivities returns one user's audit records newest-first.
func (s *Store) ListUserActivities(ctx context.Context, userID string, limit, offset int) ([]*domain.Activity, error) {
	return s.scanActivityIndex(ctx, activityIdxUserPrefix+userID+":", limit, offset, time.Time{})
}

// ListActivitiesSince returns all records with timestamps at or after the cutoff, newest-first.
func (s *Store) ListActivitiesSince(ctx context.Context, since time.Time) ([]*domain.Activity, error) {
	return s.scanActivityIndex(ctx, activityIdxTimePrefix, 0, 0, since)
}

// scanActivityIndex walks an inverted-timestamp index. A zero since
// means no time bound; a limit of 0 means unbounded.
func (s *Store) scanActivityIndex(ctx context.Context, prefix string, limit, offset int, since time.Time) ([]*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Records older than the cutoff have index keys sorting after this.
	var stopAfter string
	if !since.IsZero() {
		stopAfter = invertedTimestamp(since)
	}

	var ids []string
	scanPrefix := []byte(prefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix
		opts.PrefetchValues = false // key-only index

		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		for it.Seek(scanPrefix); it.ValidForPrefix(scanPrefix); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			remainder := string(it.Item().Key())[len(prefix):]
			tsPart, idPart, ok := strings.Cut(remainder, ":")
			if !ok {
				continue
			}
			if stopAfter != "" && tsPart > stopAfter {
				break // past the cutoff, everything further is older
			}
			if skipped < offset {
				skipped++
				continue
			}
			ids = append(ids, idPart)
			if limit > 0 && len(ids) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	activities := make([]*domain.Activity, 0, len(ids))
	for _, aid := range ids {
		a, err := s.GetActivity(ctx, aid)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}

// DeleteActivitiesBefore removes every record older than the cutoff.
// Returns the IDs of the removed records so mirrors can drop them too.
func (s *Store) DeleteActivitiesBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var victims []*domain.Activity
	boundary := invertedTimestamp(cutoff)
	scanPrefix := []byte(activityIdxTimePrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = scanPrefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the boundary: keys sorting after it are older records.
		it.Seek([]byte(activityIdxTimePrefix + boundary))
		for ; it.ValidForPrefix(scanPrefix); it.Next() {
			remainder := string(it.Item().Key())[len(activityIdxTimePrefix):]
			_, idPart, ok := strings.Cut(remainder, ":")
			if !ok {
				continue
			}
			a, err := s.GetActivity(ctx, idPart)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			victims = append(victims, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(victims))
	for _, a := range victims {
		if err := s.deleteActivity(a); err != nil {
			return nil, err
		}
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// DeleteUserActivities removes every record belonging to a user.
// Returns the IDs of the removed records.
func (s *Store) DeleteUserActivities(ctx context.Context, userID string) ([]string, error) {
	activities, err := s.ListUserActivities(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(activities))
	for _, a := range activities {
		if err := s.deleteActivity(a); err != nil {
			return nil, err
		}
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// deleteActivity removes one record and its index keys.
func (s *Store) deleteActivity(a *domain.Activity) error {
	invertedTS := invertedTimestamp(a.Timestamp)
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(activityPrefix + a.ID)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(activityIdxTimePrefix + invertedTS + ":" + a.ID)); err != nil {
			return err
		}
		if a.UserID != "" {
			if err := txn.Delete([]byte(activityIdxUserPrefix + a.UserID + ":" + invertedTS + ":" + a.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}
