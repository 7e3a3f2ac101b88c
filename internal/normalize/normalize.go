// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CacheKey builds a stable lookup key from an artist and album name.
// Both parts are NFC-normalized, lowercased, trimmed, and have internal
// whitespace collapsed so cosmetic differences don't miss the cache.
// Format: "artist|album".
func CacheKey(artist, album string) string {
	return Fold(artist) + "|" + Fold(album)
}

// Fold normalizes a string for case-insensitive comparison:
// NFC unicode normalization, lowercase, trimmed, whitespace collapsed.
func Fold(s string) string {
	s = norm.NFC.String(sanitizeString(s))
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// ListName canonicalizes a user-facing list name: trims surrounding
// whitespace and collapses internal runs to single spaces. Case is
// preserved; uniqueness checks should compare Fold(ListName(name)).
func ListName(name string) string {
	return strings.Join(strings.Fields(sanitizeString(name)), " ")
}

// DataURI wraps base64-encoded image bytes in a data URI.
// The format (e.g. "JPEG", "png") is lowercased; empty defaults to jpeg.
func DataURI(base64Data, format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		f = "jpeg"
	}
	return "data:image/" + f + ";base64," + base64Data
}

// IsDataURI reports whether s already carries a data URI scheme.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// sanitizeString removes null bytes from strings, which can cause
// issues in databases and JSON parsing.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 { // null byte
			return -1 // drop it
		}
		return r
	}, s)
}
