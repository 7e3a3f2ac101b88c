// Package admincode generates short-lived one-time codes that grant
// admin role elevation.
package admincode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// codeBytes is the entropy behind a code. Four bytes render as eight
// hex characters, short enough to read over a shoulder.
const codeBytes = 4

// DefaultLifetime is how long a code stays redeemable.
const DefaultLifetime = 5 * time.Minute

// Generator mints admin codes. The randomness source is injectable
// for tests; nil uses crypto/rand.
type Generator struct {
	readRandom func(b []byte) (int, error)
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{readRandom: rand.Read}
}

// NewGeneratorWithSource creates a generator with a custom randomness
// source. Used in tests.
func NewGeneratorWithSource(read func(b []byte) (int, error)) *Generator {
	return &Generator{readRandom: read}
}

// Generate returns a new uppercase hex code.
func (g *Generator) Generate() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := g.readRandom(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// Normalize canonicalizes user input for comparison against a stored
// code. Codes are case-insensitive on entry.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
