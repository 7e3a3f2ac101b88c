package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sushestargate/stargate-server/internal/export"
	"github.com/sushestargate/stargate-server/internal/service"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "importList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/import",
		Summary:     "Import list",
		Description: "Imports a previously exported list file. When the target name exists, a mode (overwrite, merge, rename) must be chosen.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportList)
}

// ImportListRequest is the request body for a list import.
type ImportListRequest struct {
	Name    string          `json:"name" validate:"required" maxLength:"200" doc:"Target list name, usually the filename without extension"`
	Mode    string          `json:"mode,omitempty" doc:"Reconciliation mode when the target exists: overwrite, merge, or rename"`
	NewName string          `json:"new_name,omitempty" maxLength:"200" doc:"Destination name when mode is rename"`
	Data    json.RawMessage `json:"data" doc:"The exported JSON document (array of entries)"`
}

// ImportListInput wraps the import request for Huma.
type ImportListInput struct {
	Authorization string `header:"Authorization"`
	Body          ImportListRequest
}

func (s *Server) handleImportList(ctx context.Context, input *ImportListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Import.Import(ctx, userID, service.ImportRequest{
		Name:    input.Body.Name,
		Mode:    export.Mode(input.Body.Mode),
		NewName: input.Body.NewName,
		Data:    []byte(input.Body.Data),
	})
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}
