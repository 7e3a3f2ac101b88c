package domain

import (
	"github.com/sushestargate/stargate-server/internal/id"
	"github.com/sushestargate/stargate-server/internal/normalize"
)

// AlbumEntry is one ranked album inside a list.
// Uniqueness within a list is by AlbumID. Rank is derived from the
// entry's position in the list, never trusted from clients.
type AlbumEntry struct {
	// AlbumID is the stable catalog identifier, or a generated
	// "manual-" surrogate for hand-entered albums.
	AlbumID     string `json:"album_id"`
	Artist      string `json:"artist"`
	ArtistID    string `json:"artist_id,omitempty"`
	Album       string `json:"album"`
	ReleaseDate string `json:"release_date,omitempty"` // partial ISO, year or year-month allowed
	Country     string `json:"country,omitempty"`
	Genre1      string `json:"genre_1,omitempty"`
	Genre2      string `json:"genre_2,omitempty"`
	Comments    string `json:"comments,omitempty"`
	// CoverImage is an inline data URI once normalized.
	CoverImage       string `json:"cover_image,omitempty"`
	CoverImageFormat string `json:"cover_image_format,omitempty"`
	Rank             int    `json:"rank"`
}

// List is an ordered, exclusively-owned collection of album entries.
type List struct {
	Syncable
	UserID  string       `json:"user_id"`
	Name    string       `json:"name"`
	Entries []AlbumEntry `json:"entries"`
}

// RecomputeRanks rewrites every entry's Rank from its slice position.
// Order in the slice is the sole source of rank.
func RecomputeRanks(entries []AlbumEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// NormalizeEntries applies the ingestion rules to every entry:
// cover images become data URIs, entries without a catalog id get a
// generated manual surrogate, and ranks are recomputed.
func NormalizeEntries(entries []AlbumEntry) {
	for i := range entries {
		entries[i].Normalize()
	}
	RecomputeRanks(entries)
}

// RecomputeRanks rewrites every entry's Rank from its array position.
func (l *List) RecomputeRanks() {
	RecomputeRanks(l.Entries)
}

// NormalizeEntries applies the ingestion rules to every entry in the list.
func (l *List) NormalizeEntries() {
	NormalizeEntries(l.Entries)
}

// Normalize applies the ingestion rules to a single entry.
func (e *AlbumEntry) Normalize() {
	if e.AlbumID == "" {
		e.AlbumID = id.MustGenerate("manual")
	}
	if e.CoverImage != "" && !normalize.IsDataURI(e.CoverImage) {
		e.CoverImage = normalize.DataURI(e.CoverImage, e.CoverImageFormat)
	}
}

// IndexOf returns the position of the entry with the given album id,
// or -1 when absent.
func (l *List) IndexOf(albumID string) int {
	for i := range l.Entries {
		if l.Entries[i].AlbumID == albumID {
			return i
		}
	}
	return -1
}

// NormalizedName returns the canonical form of the list's name used
// for per-user uniqueness checks.
func (l *List) NormalizedName() string {
	return normalize.Fold(l.Name)
}
