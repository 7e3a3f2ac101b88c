package store

import (
	"context"
	"errors"
	"slices"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/id"
	"github.com/sushestargate/stargate-server/internal/normalize"
)

// CreateList persists a new list for a user.
// Returns ErrAlreadyExists when the user already has a list with that
// name (case-insensitive).
func (s *Store) CreateList(ctx context.Context, list *domain.List) error {
	if list.ID == "" {
		list.ID = id.MustGenerate("list")
	}
	list.Name = normalize.ListName(list.Name)
	list.InitTimestamps()
	if list.Entries == nil {
		list.Entries = []domain.AlbumEntry{}
	}
	list.NormalizeEntries()

	if err := s.Lists.Create(ctx, list.ID, list); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrAlreadyExists.WithMessage("a list with this name already exists")
		}
		return err
	}
	return nil
}

// GetList retrieves a user's list by name.
func (s *Store) GetList(ctx context.Context, userID, name string) (*domain.List, error) {
	return s.Lists.GetByIndex(ctx, "name", listNameKey(userID, name))
}

// GetLists returns all of a user's lists in creation order.
func (s *Store) GetLists(ctx context.Context, userID string) ([]*domain.List, error) {
	var lists []*domain.List
	for l, err := range s.Lists.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	slices.SortFunc(lists, func(a, b *domain.List) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return lists, nil
}

// ReplaceEntries overwrites the entry sequence of a user's list wholesale.
// Entries are normalized and ranks recomputed before the write.
func (s *Store) ReplaceEntries(ctx context.Context, userID, name string, entries []domain.AlbumEntry) (*domain.List, error) {
	list, err := s.GetList(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AlbumEntry{}
	}
	list.Entries = entries
	list.NormalizeEntries()
	list.Touch()

	if err := s.Lists.Update(ctx, list.ID, list); err != nil {
		return nil, err
	}
	return list, nil
}

// RenameList changes a list's name, keeping its entries.
// Returns ErrAlreadyExists when the target name is taken for that user.
func (s *Store) RenameList(ctx context.Context, userID, oldName, newName string) (*domain.List, error) {
	list, err := s.GetList(ctx, userID, oldName)
	if err != nil {
		return nil, err
	}
	list.Name = normalize.ListName(newName)
	list.Touch()

	if err := s.Lists.Update(ctx, list.ID, list); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, ErrAlreadyExists.WithMessage("a list with this name already exists")
		}
		return nil, err
	}
	return list, nil
}

// DeleteList removes a user's list by name. Idempotent on a missing name.
func (s *Store) DeleteList(ctx context.Context, userID, name string) error {
	list, err := s.GetList(ctx, userID, name)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.Lists.Delete(ctx, list.ID)
}

// DeleteUserLists removes every list owned by a user.
func (s *Store) DeleteUserLists(ctx context.Context, userID string) error {
	for l, err := range s.Lists.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return err
		}
		if err := s.Lists.Delete(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}
