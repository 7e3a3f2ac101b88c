package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePreferences",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me/preferences",
		Summary:     "Update preferences",
		Description: "Updates the authenticated user's UI preferences",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePreferences)

	huma.Register(s.api, huma.Operation{
		OperationID: "redeemAdminCode",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/me/admin-code",
		Summary:     "Redeem admin code",
		Description: "Promotes the authenticated user to admin using a one-time code",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRedeemAdminCode)
}

// === DTOs ===

// UserOutput wraps a single user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// PreferencesRequest is the request body for preference updates.
type PreferencesRequest struct {
	LastSelectedList string `json:"last_selected_list" doc:"Last list the client had open"`
	AccentColor      string `json:"accent_color" doc:"CSS hex accent color, empty resets to default"`
}

// PreferencesInput wraps the preferences request for Huma.
type PreferencesInput struct {
	Authorization string `header:"Authorization"`
	Body          PreferencesRequest
}

// RedeemCodeRequest is the request body for admin code redemption.
type RedeemCodeRequest struct {
	Code string `json:"code" validate:"required" doc:"One-time admin code"`
}

// RedeemCodeInput wraps the redemption request for Huma.
type RedeemCodeInput struct {
	Authorization string `header:"Authorization"`
	Body          RedeemCodeRequest
}

// === Handlers ===

func (s *Server) handleGetMe(ctx context.Context, input *AuthenticatedInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdatePreferences(ctx context.Context, input *PreferencesInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.UpdatePreferences(ctx, userID, service.PreferencesRequest{
		LastSelectedList: input.Body.LastSelectedList,
		AccentColor:      input.Body.AccentColor,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleRedeemAdminCode(ctx context.Context, input *RedeemCodeInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Admin.RedeemAdminCode(ctx, userID, input.Body.Code)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

// === Helpers ===

func mapUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
		Preferences: PreferencesResponse{
			LastSelectedList: user.Preferences.LastSelectedList,
			AccentColor:      user.Preferences.AccentColor,
		},
	}
}
