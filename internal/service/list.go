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
	"github.com/sushestargate/stargate-server/internal/reorder"
	"github.com/sushestargate/stargate-server/internal/store"
)

// ListService manages a user's ranked album lists.
type ListService struct {
	store    *store.Store
	activity *ActivityService
	logger   *slog.Logger
}

// NewListService creates a list management service.
func NewListService(s *store.Store, activity *ActivityService, logger *slog.Logger) *ListService {
	return &ListService{
		store:    s,
		activity: activity,
		logger:   logger,
	}
}

// GetLists returns all of a user's lists in creation order.
func (s *ListService) GetLists(ctx context.Context, userID string) ([]*domain.List, error) {
	return s.store.GetLists(ctx, userID)
}

// GetList returns one list by name.
func (s *ListService) GetList(ctx context.Context, userID, name string) (*domain.List, error) {
	list, err := s.store.GetList(ctx, userID, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("list %q not found", name)
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	return list, nil
}

// SaveList stores the full entry array under the given name, creating
// the list when it doesn't exist yet. The array is authoritative; the
// previous contents are replaced wholesale.
func (s *ListService) SaveList(ctx context.Context, userID, name string, entries []domain.AlbumEntry) (*domain.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("list name is required")
	}

	existing, err := s.store.GetList(ctx, userID, name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get list: %w", err)
	}

	if existing == nil {
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

		s.activity.Record(Event{
			UserID:  userID,
			Action:  domain.ActionListCreated,
			Details: map[string]string{"list": list.Name},
		})
		s.logger.Info("list created", "user_id", userID, "list", list.Name)
		return list, nil
	}

	list, err := s.store.ReplaceEntries(ctx, userID, name, entries)
	if err != nil {
		return nil, fmt.Errorf("replace entries: %w", err)
	}

	s.activity.Record(Event{
		UserID:  userID,
		Action:  domain.ActionListUpdated,
		Details: map[string]string{"list": list.Name},
	})
	return list, nil
}

// RenameList changes a list's name, keeping its entries.
func (s *ListService) RenameList(ctx context.Context, userID, oldName, newName string) (*domain.List, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, domainerrors.Validation("new list name is required")
	}

	list, err := s.store.RenameList(ctx, userID, oldName, newName)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.NotFoundf("list %q not found", oldName)
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, domainerrors.Conflict("a list with this name already exists")
		}
		return nil, fmt.Errorf("rename list: %w", err)
	}

	s.activity.Record(Event{
		UserID:  userID,
		Action:  domain.ActionListRenamed,
		Details: map[string]string{"from": oldName, "to": list.Name},
	})
	return list, nil
}

// DeleteList removes a list and its entries. Deleting a list that
// does not exist is not an error.
func (s *ListService) DeleteList(ctx context.Context, userID, name string) error {
	if err := s.store.DeleteList(ctx, userID, name); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}

	s.activity.Record(Event{
		UserID:  userID,
		Action:  domain.ActionListDeleted,
		Details: map[string]string{"list": name},
	})
	return nil
}

// DeleteAllLists removes every list the user owns.
func (s *ListService) DeleteAllLists(ctx context.Context, userID string) error {
	if err := s.store.DeleteUserLists(ctx, userID); err != nil {
		return fmt.Errorf("delete lists: %w", err)
	}

	s.activity.Record(Event{
		UserID: userID,
		Action: domain.ActionListDeleted,
		Details: map[string]string{"list": "*"},
	})
	return nil
}

// Reorder moves the entry at from to position to and persists the
// resulting order.
func (s *ListService) Reorder(ctx context.Context, userID, name string, from, to int) (*domain.List, error) {
	list, err := s.GetList(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	if err := reorder.MoveEntry(list.Entries, from, to); err != nil {
		return nil, err
	}

	updated, err := s.store.ReplaceEntries(ctx, userID, name, list.Entries)
	if err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.activity.Record(Event{
		UserID: userID,
		Action: domain.ActionListReordered,
		Details: map[string]string{
			"list": updated.Name,
			"from": fmt.Sprintf("%d", from),
			"to":   fmt.Sprintf("%d", to),
		},
	})
	return updated, nil
}

// Export renders a list as its JSON interchange format.
func (s *ListService) Export(ctx context.Context, userID, name string) ([]byte, error) {
	list, err := s.GetList(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	data, err := export.Marshal(list)
	if err != nil {
		return nil, err
	}

	s.activity.Record(Event{
		UserID:  userID,
		Action:  domain.ActionListExported,
		Details: map[string]string{"list": list.Name},
	})
	return data, nil
}
