// Package backup produces full database snapshots for the admin panel
// and manages the snapshot files on disk.
package backup

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/errors"
	"github.com/sushestargate/stargate-server/internal/store"
)

// Version is the snapshot document format version.
const Version = "1.0.0"

// Document is a complete database snapshot.
type Document struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Data      Payload   `json:"data"`
}

// Payload holds the snapshot contents.
type Payload struct {
	Users    []*domain.User     `json:"users"`
	Lists    []*domain.List     `json:"lists"`
	Activity []*domain.Activity `json:"activity"`
}

// Info describes a snapshot file on disk.
type Info struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Service builds snapshots from the store and manages snapshot files.
type Service struct {
	store     *store.Store
	backupDir string
	logger    *slog.Logger
}

// NewService creates a backup service writing into backupDir.
func NewService(s *store.Store, backupDir string, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		backupDir: backupDir,
		logger:    logger,
	}
}

// Build assembles a snapshot document from the current store contents.
func (s *Service) Build(ctx context.Context) (*Document, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	lists := make([]*domain.List, 0)
	for _, u := range users {
		userLists, err := s.store.GetLists(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list lists for %s: %w", u.ID, err)
		}
		lists = append(lists, userLists...)
	}

	activity, err := s.store.ListActivities(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	return &Document{
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Data: Payload{
			Users:    users,
			Lists:    lists,
			Activity: activity,
		},
	}, nil
}

// Create builds a snapshot and writes it to the backup directory.
func (s *Service) Create(ctx context.Context) (*Info, error) {
	doc, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	return s.Write(doc)
}

// Write persists an already-built snapshot to the backup directory.
func (s *Service) Write(doc *Document) (*Info, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	id := "backup-" + doc.Timestamp.Format("2006-01-02-150405")
	path := s.GetPath(id)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.Info("backup complete",
		"path", path,
		"size", len(data),
		"users", len(doc.Data.Users),
		"lists", len(doc.Data.Lists),
		"activity", len(doc.Data.Activity),
	)

	return &Info{
		ID:        id,
		Path:      path,
		Size:      int64(len(data)),
		CreatedAt: doc.Timestamp,
	}, nil
}

// List returns all snapshots on disk, newest first.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, Info{
			ID:        strings.TrimSuffix(entry.Name(), ".json"),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Get returns a snapshot by ID.
func (s *Service) Get(ctx context.Context, id string) (*Info, error) {
	path := s.GetPath(id)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("backup not found")
		}
		return nil, err
	}

	return &Info{
		ID:        id,
		Path:      path,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

// Delete removes a snapshot file.
func (s *Service) Delete(ctx context.Context, id string) error {
	path := s.GetPath(id)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("backup not found")
		}
		return err
	}

	return os.Remove(path)
}

// GetPath returns the file path for a snapshot ID.
func (s *Service) GetPath(id string) string {
	return filepath.Join(s.backupDir, id+".json")
}
