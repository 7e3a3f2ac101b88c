package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sushestargate/stargate-server/internal/domain"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List album lists",
		Description: "Returns all of the authenticated user's lists",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{name}",
		Summary:     "Get list",
		Description: "Returns a single list with its ranked entries",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveList",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{name}",
		Summary:     "Save list",
		Description: "Creates the list or replaces its entries. Ranks are recomputed from entry order.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{name}",
		Summary:     "Delete list",
		Description: "Deletes a single list",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAllLists",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists",
		Summary:     "Delete all lists",
		Description: "Deletes every list belonging to the authenticated user",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAllLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{name}/rename",
		Summary:     "Rename list",
		Description: "Renames a list. Fails if the new name is already taken.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameList)

	huma.Register(s.api, huma.Operation{
		OperationID: "reorderList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{name}/reorder",
		Summary:     "Reorder list",
		Description: "Moves one entry to a new position and recomputes ranks",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReorderList)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{name}/export",
		Summary:     "Export list",
		Description: "Downloads the list as a JSON document with computed points",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExportList)
}

// === DTOs ===

// AlbumEntryPayload is the wire form of a single album entry.
type AlbumEntryPayload struct {
	AlbumID     string `json:"album_id,omitempty" doc:"MusicBrainz release group ID"`
	Artist      string `json:"artist" doc:"Artist name"`
	ArtistID    string `json:"artist_id,omitempty" doc:"MusicBrainz artist ID"`
	Album       string `json:"album" doc:"Album title"`
	ReleaseDate string `json:"release_date,omitempty" doc:"Release date"`
	Country     string `json:"country,omitempty" doc:"Country of release"`
	Genre1      string `json:"genre_1,omitempty" doc:"Primary genre"`
	Genre2      string `json:"genre_2,omitempty" doc:"Secondary genre"`
	Comments    string `json:"comments,omitempty" doc:"Free-form comments"`
	CoverImage  string `json:"cover_image,omitempty" doc:"Cover image URL or data URI"`
	// CoverImageFormat tags raw cover data so the data URI prefix
	// preserves the real image type.
	CoverImageFormat string `json:"cover_image_format,omitempty" doc:"Cover image format, e.g. png or jpeg"`
	Rank             int    `json:"rank" doc:"1-based position in the list"`
}

// ListResponse is the wire form of a list.
type ListResponse struct {
	ID        string              `json:"id" doc:"List ID"`
	Name      string              `json:"name" doc:"List name"`
	Entries   []AlbumEntryPayload `json:"entries" doc:"Ranked album entries"`
	CreatedAt time.Time           `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time           `json:"updated_at" doc:"Last update timestamp"`
}

// ListOutput wraps a single list for Huma.
type ListOutput struct {
	Body ListResponse
}

// ListsOutput wraps all of a user's lists for Huma.
type ListsOutput struct {
	Body struct {
		Lists []ListResponse `json:"lists" doc:"All lists owned by the user"`
	}
}

// ListNameInput identifies a list by name.
type ListNameInput struct {
	Authorization string `header:"Authorization"`
	Name          string `path:"name" maxLength:"200" doc:"List name"`
}

// SaveListInput carries replacement entries for a list.
type SaveListInput struct {
	Authorization string `header:"Authorization"`
	Name          string `path:"name" maxLength:"200" doc:"List name"`
	Body          struct {
		Entries []AlbumEntryPayload `json:"entries" doc:"Entries in the desired order"`
	}
}

// RenameListInput carries the new name for a list.
type RenameListInput struct {
	Authorization string `header:"Authorization"`
	Name          string `path:"name" maxLength:"200" doc:"Current list name"`
	Body          struct {
		NewName string `json:"new_name" validate:"required" maxLength:"200" doc:"New list name"`
	}
}

// ReorderListInput carries a single move within a list.
type ReorderListInput struct {
	Authorization string `header:"Authorization"`
	Name          string `path:"name" maxLength:"200" doc:"List name"`
	Body          struct {
		From int `json:"from" minimum:"0" doc:"0-based index of the entry to move"`
		To   int `json:"to" minimum:"0" doc:"0-based destination index"`
	}
}

// ExportListOutput streams the export document as a file download.
type ExportListOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// === Handlers ===

func (s *Server) handleListLists(ctx context.Context, input *AuthenticatedInput) (*ListsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.List.GetLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &ListsOutput{}
	out.Body.Lists = make([]ListResponse, 0, len(lists))
	for _, l := range lists {
		out.Body.Lists = append(out.Body.Lists, mapListResponse(l))
	}
	return out, nil
}

func (s *Server) handleGetList(ctx context.Context, input *ListNameInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.GetList(ctx, userID, input.Name)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleSaveList(ctx context.Context, input *SaveListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.SaveList(ctx, userID, input.Name, mapEntryPayloads(input.Body.Entries))
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleDeleteList(ctx context.Context, input *ListNameInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.List.DeleteList(ctx, userID, input.Name); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "List deleted"}}, nil
}

func (s *Server) handleDeleteAllLists(ctx context.Context, input *AuthenticatedInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.List.DeleteAllLists(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "All lists deleted"}}, nil
}

func (s *Server) handleRenameList(ctx context.Context, input *RenameListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.RenameList(ctx, userID, input.Name, input.Body.NewName)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleReorderList(ctx context.Context, input *ReorderListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.Reorder(ctx, userID, input.Name, input.Body.From, input.Body.To)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleExportList(ctx context.Context, input *ListNameInput) (*ExportListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	data, err := s.services.List.Export(ctx, userID, input.Name)
	if err != nil {
		return nil, err
	}

	return &ExportListOutput{
		ContentType:        "application/json; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", input.Name+".json"),
		Body:               data,
	}, nil
}

// === Helpers ===

func mapListResponse(l *domain.List) ListResponse {
	entries := make([]AlbumEntryPayload, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, AlbumEntryPayload{
			AlbumID:          e.AlbumID,
			Artist:           e.Artist,
			ArtistID:         e.ArtistID,
			Album:            e.Album,
			ReleaseDate:      e.ReleaseDate,
			Country:          e.Country,
			Genre1:           e.Genre1,
			Genre2:           e.Genre2,
			Comments:         e.Comments,
			CoverImage:       e.CoverImage,
			CoverImageFormat: e.CoverImageFormat,
			Rank:             e.Rank,
		})
	}
	return ListResponse{
		ID:        l.ID,
		Name:      l.Name,
		Entries:   entries,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func mapEntryPayloads(payloads []AlbumEntryPayload) []domain.AlbumEntry {
	entries := make([]domain.AlbumEntry, 0, len(payloads))
	for _, p := range payloads {
		entries = append(entries, domain.AlbumEntry{
			AlbumID:          p.AlbumID,
			Artist:           p.Artist,
			ArtistID:         p.ArtistID,
			Album:            p.Album,
			ReleaseDate:      p.ReleaseDate,
			Country:          p.Country,
			Genre1:           p.Genre1,
			Genre2:           p.Genre2,
			Comments:         p.Comments,
			CoverImage:       p.CoverImage,
			CoverImageFormat: p.CoverImageFormat,
			Rank:             p.Rank,
		})
	}
	return entries
}
