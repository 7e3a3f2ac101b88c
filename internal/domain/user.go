package domain

import (
	"regexp"
	"time"
)

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleUser grants standard user access.
	RoleUser Role = "user"
)

// DefaultAccentColor is the accent color assigned to new accounts.
const DefaultAccentColor = "#dc2626"

// usernamePattern constrains usernames to 3-30 lowercase letters,
// digits, and underscores.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// ValidUsername reports whether the given username is acceptable.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// Preferences holds per-user UI settings.
type Preferences struct {
	// LastSelectedList remembers which list the client had open.
	LastSelectedList string `json:"last_selected_list,omitempty"`
	// AccentColor is a CSS hex color like "#dc2626".
	AccentColor string `json:"accent_color"`
}

// DefaultPreferences returns the preferences assigned to new users.
func DefaultPreferences() Preferences {
	return Preferences{AccentColor: DefaultAccentColor}
}

// User represents an authenticated user account in the system.
type User struct {
	Syncable
	Username     string      `json:"username"`
	PasswordHash string      `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Role         Role        `json:"role"`
	LastLoginAt  time.Time   `json:"last_login_at,omitzero"`
	Preferences  Preferences `json:"preferences"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session represents an active user session with refresh token.
// Each client gets its own session.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
	UserAgent        string    `json:"user_agent,omitempty"`
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
