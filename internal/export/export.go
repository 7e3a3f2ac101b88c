// Package export converts lists to and from their JSON interchange
// format and reconciles imported entries with existing lists.
package export

import (
	"encoding/json/v2"
	"fmt"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/errors"
)

// Entry is an album entry as it appears in an export file. It carries
// the stored fields plus rank and points computed from list position.
type Entry struct {
	domain.AlbumEntry
	Points int `json:"points"`
}

// Export renders a list's entries for download. Rank is the 1-based
// position and points count down from the list length, so the top
// entry is worth the most.
func Export(list *domain.List) []Entry {
	out := make([]Entry, len(list.Entries))
	for i, e := range list.Entries {
		out[i] = Entry{AlbumEntry: e, Points: len(list.Entries) - i}
		out[i].Rank = i + 1
	}
	return out
}

// Marshal renders a list as an indented JSON array.
func Marshal(list *domain.List) ([]byte, error) {
	data, err := json.Marshal(Export(list), json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// Parse decodes an import file into normalized album entries.
// The file must be a JSON array of entry objects. Rank and points
// from the file are ignored; position in the array is authoritative.
func Parse(data []byte) ([]domain.AlbumEntry, error) {
	var raw []Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Validation("import file must be a JSON array of album entries").WithCause(err)
	}

	entries := make([]domain.AlbumEntry, len(raw))
	for i := range raw {
		entries[i] = raw[i].AlbumEntry
	}
	domain.NormalizeEntries(entries)
	return entries, nil
}
