package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sushestargate/stargate-server/internal/domain"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List users",
		Description: "Returns every account with its list count. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminSetRole",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/users/{id}/role",
		Summary:     "Set user role",
		Description: "Promotes or demotes a user. The last admin cannot be demoted.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminSetRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminDeleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/users/{id}",
		Summary:     "Delete user",
		Description: "Deletes an account with its lists, sessions, and activity. The last admin cannot be deleted.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDeleteUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminMintCode",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/codes",
		Summary:     "Mint admin code",
		Description: "Creates a short-lived one-time code that promotes its redeemer to admin",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminMintCode)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminUsersCSV",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users.csv",
		Summary:     "Export users as CSV",
		Description: "Downloads the account roster without credential material",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminUsersCSV)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminCreateBackup",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/backup",
		Summary:     "Create backup",
		Description: "Writes a full data snapshot to the backup directory",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminCreateBackup)
}

// === DTOs ===

// UserOverviewResponse is a user plus aggregate info for the admin panel.
type UserOverviewResponse struct {
	UserResponse
	ListCount int `json:"list_count" doc:"Number of lists the user owns"`
}

// AdminUsersOutput wraps the account roster for Huma.
type AdminUsersOutput struct {
	Body struct {
		Users []UserOverviewResponse `json:"users" doc:"All accounts"`
	}
}

// SetRoleInput carries a role change for one user.
type SetRoleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Target user ID"`
	Body          struct {
		Role string `json:"role" validate:"required" enum:"admin,user" doc:"New role"`
	}
}

// AdminUserInput identifies a user for admin operations.
type AdminUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Target user ID"`
}

// AdminCodeResponse describes a freshly minted admin code.
type AdminCodeResponse struct {
	Code      string    `json:"code" doc:"The one-time code"`
	ExpiresAt time.Time `json:"expires_at" doc:"When the code stops working"`
}

// AdminCodeOutput wraps the minted code for Huma.
type AdminCodeOutput struct {
	Body AdminCodeResponse
}

// UsersCSVOutput streams the roster as a CSV download.
type UsersCSVOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// BackupResponse summarizes a completed backup.
type BackupResponse struct {
	Timestamp time.Time `json:"timestamp" doc:"When the snapshot was taken"`
	Version   string    `json:"version" doc:"Snapshot format version"`
	Users     int       `json:"users" doc:"Accounts in the snapshot"`
	Lists     int       `json:"lists" doc:"Lists in the snapshot"`
	Activity  int       `json:"activity" doc:"Activity records in the snapshot"`
}

// BackupOutput wraps the backup summary for Huma.
type BackupOutput struct {
	Body BackupResponse
}

// === Handlers ===

func (s *Server) handleAdminListUsers(ctx context.Context, input *AuthenticatedInput) (*AdminUsersOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	overviews, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := &AdminUsersOutput{}
	out.Body.Users = make([]UserOverviewResponse, 0, len(overviews))
	for _, o := range overviews {
		out.Body.Users = append(out.Body.Users, UserOverviewResponse{
			UserResponse: mapUserResponse(o.User),
			ListCount:    o.ListCount,
		})
	}
	return out, nil
}

func (s *Server) handleAdminSetRole(ctx context.Context, input *SetRoleInput) (*UserOutput, error) {
	actorID, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Admin.SetRole(ctx, actorID, input.ID, domain.Role(input.Body.Role))
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleAdminDeleteUser(ctx context.Context, input *AdminUserInput) (*MessageOutput, error) {
	actorID, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Admin.DeleteUser(ctx, actorID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "User deleted"}}, nil
}

func (s *Server) handleAdminMintCode(ctx context.Context, input *AuthenticatedInput) (*AdminCodeOutput, error) {
	actorID, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	code, err := s.services.Admin.MintAdminCode(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &AdminCodeOutput{
		Body: AdminCodeResponse{
			Code:      code.Code,
			ExpiresAt: code.ExpiresAt,
		},
	}, nil
}

func (s *Server) handleAdminUsersCSV(ctx context.Context, input *AuthenticatedInput) (*UsersCSVOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	data, err := s.services.Admin.UsersCSV(ctx)
	if err != nil {
		return nil, err
	}

	return &UsersCSVOutput{
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: `attachment; filename="users.csv"`,
		Body:               data,
	}, nil
}

func (s *Server) handleAdminCreateBackup(ctx context.Context, input *AuthenticatedInput) (*BackupOutput, error) {
	actorID, err := s.authenticateAndRequireAdmin(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	doc, err := s.services.Admin.CreateBackup(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &BackupOutput{
		Body: BackupResponse{
			Timestamp: doc.Timestamp,
			Version:   doc.Version,
			Users:     len(doc.Data.Users),
			Lists:     len(doc.Data.Lists),
			Activity:  len(doc.Data.Activity),
		},
	}, nil
}
