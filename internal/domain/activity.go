package domain

import "time"

// Action tags recorded in the activity audit trail.
const (
	ActionRegister        = "register"
	ActionLogin           = "login"
	ActionLogout          = "logout"
	ActionListCreated     = "list_created"
	ActionListUpdated     = "list_updated"
	ActionListRenamed     = "list_renamed"
	ActionListDeleted     = "list_deleted"
	ActionListReordered   = "list_reordered"
	ActionListExported    = "list_exported"
	ActionListImported    = "list_imported"
	ActionSearch          = "search"
	ActionAdminCodeMinted = "admin_code_minted"
	ActionAdminCodeUsed   = "admin_code_used"
	ActionRoleChanged     = "role_changed"
	ActionUserDeleted     = "user_deleted"
	ActionBackupCreated   = "backup_created"
)

// Activity is one append-only audit record. Records are immutable once
// created and removed only by the age-based retention sweep.
type Activity struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"` // empty for anonymous actions
	Action string `json:"action"`
	// Details carries free-form context (list name, moved index, etc).
	Details   map[string]string `json:"details,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	IPAddress string            `json:"ip_address,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ActivityStats summarizes recent audit activity.
type ActivityStats struct {
	Since       time.Time      `json:"since"`
	Total       int            `json:"total"`
	UniqueUsers int            `json:"unique_users"`
	ByAction    map[string]int `json:"by_action"`
}
