// Package search provides full-text search over the activity audit
// trail using Bleve. It supports free-text queries over event details
// with action and user filtering, time ranges, and facet counts.
package search

import (
	"sort"
	"strings"

	"github.com/sushestargate/stargate-server/internal/domain"
)

// ActivityDocument is the document structure for the Bleve index.
// Events are denormalized into a flat document so one query can match
// the action, the acting user, and any of the event detail values.
type ActivityDocument struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Action   string `json:"action"`

	// Details holds the event payload flattened to "key=value" lines
	// joined into one searchable text blob.
	Details string `json:"details"`

	IPAddress string `json:"ip_address,omitempty"`

	// Timestamp in Unix millis, for sorting and range filtering.
	Timestamp int64 `json:"timestamp"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *ActivityDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":        d.ID,
		"user_id":   d.UserID,
		"action":    d.Action,
		"timestamp": d.Timestamp,
	}

	if d.Username != "" {
		m["username"] = d.Username
	}
	if d.Details != "" {
		m["details"] = d.Details
	}
	if d.IPAddress != "" {
		m["ip_address"] = d.IPAddress
	}

	return m
}

// ActivityToDocument converts an activity record to an ActivityDocument.
// The username is passed separately since the record only carries the
// user ID and the search package shouldn't depend on store.
func ActivityToDocument(a *domain.Activity, username string) *ActivityDocument {
	return &ActivityDocument{
		ID:        a.ID,
		UserID:    a.UserID,
		Username:  username,
		Action:    string(a.Action),
		Details:   flattenDetails(a.Details),
		IPAddress: a.IPAddress,
		Timestamp: a.Timestamp.UnixMilli(),
	}
}

// flattenDetails renders the detail map as sorted "key=value" lines so
// both keys and values are searchable.
func flattenDetails(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(details[k])
	}
	return sb.String()
}
