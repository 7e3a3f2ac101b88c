package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/normalize"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Users      *Entity[domain.User]
	Lists      *Entity[domain.List]
	Sessions   *Entity[domain.Session]
	AdminCodes *Entity[domain.AdminCode]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initUsers()
	store.initLists()
	store.initSessions()
	store.initAdminCodes()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// initUsers initializes the Users entity on the store.
// Usernames are indexed case-insensitively.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("username",
			func(u *domain.User) []string {
				return []string{normalize.Fold(u.Username)}
			},
			normalize.Fold,
		)
}

// initLists initializes the Lists entity on the store.
// The "name" index enforces per-user name uniqueness on the folded name;
// the "user" index supports listing all of a user's lists.
func (s *Store) initLists() {
	s.Lists = NewEntity[domain.List](s, "list:").
		WithIndex("name", func(l *domain.List) []string {
			return []string{listNameKey(l.UserID, l.Name)}
		}).
		WithMultiIndex("user", func(l *domain.List) []string {
			return []string{l.UserID}
		})
}

// initSessions initializes the Sessions entity on the store.
func (s *Store) initSessions() {
	s.Sessions = NewEntity[domain.Session](s, "sess:").
		WithIndex("token", func(sess *domain.Session) []string {
			return []string{sess.RefreshTokenHash}
		}).
		WithMultiIndex("user", func(sess *domain.Session) []string {
			return []string{sess.UserID}
		})
}

// initAdminCodes initializes the AdminCodes entity on the store.
func (s *Store) initAdminCodes() {
	s.AdminCodes = NewEntity[domain.AdminCode](s, "code:").
		WithIndex("code", func(c *domain.AdminCode) []string {
			return []string{c.Code}
		})
}

// listNameKey builds the composite per-user name index key.
func listNameKey(userID, name string) string {
	return userID + "|" + normalize.Fold(name)
}
