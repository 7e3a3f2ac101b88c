package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sushestargate/stargate-server/internal/domain"
	domainerrors "github.com/sushestargate/stargate-server/internal/errors"
	"github.com/sushestargate/stargate-server/internal/export"
	"github.com/sushestargate/stargate-server/internal/store"
)

// ImportService ingests uploaded list files and reconciles them with
// the user's existing lists.
type ImportService struct {
	store    *store.Store
	activity *ActivityService
	logger   *slog.Logger
}

// NewImportService creates an import service.
func NewImportService(s *store.Store, activity *ActivityService, logger *slog.Logger) *ImportService {
	return &ImportService{
		store:    s,
		activity: activity,
		logger:   logger,
	}
}

// ImportRequest describes one upload.
type ImportRequest struct {
	// Name is the target list name, usually derived from the filename.
	Name string `json:"name" validate:"required"`

	// Mode picks the reconciliation strategy when Name already exists.
	// Ignored when the target doesn't exist (plain create).
	Mode export.Mode `json:"mode"`

	// NewName is the destination when Mode is "rename".
	NewName string `json:"new_name"`

	// Data is the raw JSON file contents.
	Data []byte `json:"data" validate:"required"`
}

// Import parses the upload and stores the reconciled result.
// When the target list already exists the caller must have picked a
// mode; without one the import fails with Conflict so the client can
// prompt.
func (s *ImportService) Import(ctx context.Context, userID string, req ImportRequest) (*domain.List, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	entries, err := export.Parse(req.Data)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetList(ctx, userID, req.Name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get list: %w", err)
	}

	// No collision: plain create, mode irrelevant.
	if existing == nil {
		return s.createImported(ctx, userID, req.Name, entries)
	}

	if req.Mode == "" {
		return nil, domainerrors.Conflict(
			fmt.Sprintf("list %q already exists; choose overwrite, merge, or rename", req.Name))
	}
	if !export.ValidMode(req.Mode) {
		return nil, domainerrors.Validationf("unknown import mode %q", req.Mode)
	}

	if req.Mode == export.ModeRename {
		newName := strings.TrimSpace(req.NewName)
		if newName == "" {
			return nil, domainerrors.Validation("new_name is required for rename imports")
		}
		return s.createImported(ctx, userID, newName, entries)
	}

	merged, err := export.Reconcile(existing.Entries, entries, req.Mode)
	if err != nil {
		return nil, err
	}

	list, err := s.store.ReplaceEntries(ctx, userID, req.Name, merged)
	if err != nil {
		return nil, fmt.Errorf("store import: %w", err)
	}

	s.recordImport(userID, list.Name, string(req.Mode), len(entries))
	return list, nil
}

func (s *ImportService) createImported(ctx context.Context, userID, name string, entries []domain.AlbumEntry) (*domain.List, error) {
	list := &domain.List{
		UserID:  userID,
		Name:    name,
		Entries: entries,
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a list with this name already exists")
		}
		return nil, fmt.Errorf("create list: %w", err)
	}

	s.recordImport(userID, list.Name, "create", len(entries))
	return list, nil
}

func (s *ImportService) recordImport(userID, name, mode string, count int) {
	s.activity.Record(Event{
		UserID: userID,
		Action: domain.ActionListImported,
		Details: map[string]string{
			"list":    name,
			"mode":    mode,
			"entries": fmt.Sprintf("%d", count),
		},
	})
	s.logger.Info("list imported",
		"user_id", userID,
		"list", name,
		"mode", mode,
		"entries", count,
	)
}
