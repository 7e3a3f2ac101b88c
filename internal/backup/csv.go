package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sushestargate/stargate-server/internal/domain"
)

// UserRow is one line of the admin CSV export.
type UserRow struct {
	User      *domain.User
	ListCount int
}

// WriteUsersCSV writes the user roster as CSV for the admin export.
// Password hashes are deliberately excluded.
func WriteUsersCSV(w io.Writer, rows []UserRow) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "username", "role", "created_at", "last_login_at", "list_count"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		u := row.User

		lastLogin := ""
		if !u.LastLoginAt.IsZero() {
			lastLogin = u.LastLoginAt.UTC().Format(time.RFC3339)
		}

		record := []string{
			u.ID,
			u.Username,
			string(u.Role),
			u.CreatedAt.UTC().Format(time.RFC3339),
			lastLogin,
			strconv.Itoa(row.ListCount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
