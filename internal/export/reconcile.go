package export

import (
	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/errors"
)

// Mode selects how imported entries combine with an existing list.
type Mode string

const (
	// ModeOverwrite replaces the target list's entries wholesale.
	ModeOverwrite Mode = "overwrite"

	// ModeMerge keeps the target's entries and order, appending only
	// imported entries whose album ID is not already present.
	ModeMerge Mode = "merge"

	// ModeRename imports into a brand-new list under a different name.
	ModeRename Mode = "rename"
)

// ValidMode reports whether m is a recognized import mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModeOverwrite, ModeMerge, ModeRename:
		return true
	}
	return false
}

// Reconcile combines imported entries with a target list's existing
// entries according to mode. The result has ranks recomputed from
// final positions. Merging the same import twice is a no-op the
// second time since album IDs already present are skipped.
func Reconcile(existing, imported []domain.AlbumEntry, mode Mode) ([]domain.AlbumEntry, error) {
	switch mode {
	case ModeOverwrite, ModeRename:
		out := make([]domain.AlbumEntry, len(imported))
		copy(out, imported)
		domain.RecomputeRanks(out)
		return out, nil

	case ModeMerge:
		seen := make(map[string]struct{}, len(existing))
		for _, e := range existing {
			seen[e.AlbumID] = struct{}{}
		}

		out := make([]domain.AlbumEntry, len(existing), len(existing)+len(imported))
		copy(out, existing)
		for _, e := range imported {
			if _, dup := seen[e.AlbumID]; dup {
				continue
			}
			seen[e.AlbumID] = struct{}{}
			out = append(out, e)
		}
		domain.RecomputeRanks(out)
		return out, nil

	default:
		return nil, errors.Validationf("unknown import mode %q", mode)
	}
}
