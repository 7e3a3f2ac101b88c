package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/search"
)

func (s *Server) registerActivityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListActivity",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/activity",
		Summary:     "List activity",
		Description: "Returns recent audit events, newest first. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListActivity)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminSearchActivity",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/activity/search",
		Summary:     "Search activity",
		Description: "Full-text search over the audit log with filters and facets",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminSearchActivity)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminActivityStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/activity/stats",
		Summary:     "Activity statistics",
		Description: "Summarizes audit activity over the last 30 days",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminActivityStats)
}

// === DTOs ===

// ActivityListInput is the query for the activity listing.
type ActivityListInput struct {
	Authorization string `header:"Authorization"`
	UserID        string `query:"user_id" doc:"Scope to one user's events"`
	Limit         int    `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Maximum events to return"`
	Offset        int    `query:"offset" minimum:"0" doc:"Events to skip"`
}

// ActivityResponse is the wire form of one audit event.
type ActivityResponse struct {
	ID        string            `json:"id" doc:"Event ID"`
	UserID    string            `json:"user_id,omitempty" doc:"Acting user, empty for anonymous actions"`
	Action    string            `json:"action" doc:"Action name"`
	Details   map[string]string `json:"details,omitempty" doc:"Free-form context"`
	IPAddress string            `json:"ip_address,omitempty" doc:"Client IP"`
	Timestamp time.Time         `json:"timestamp" doc:"When the event happened"`
}

// ActivityListOutput wraps the activity listing for Huma.
type ActivityListOutput struct {
	Body struct {
		Events []ActivityResponse `json:"events" doc:"Audit events, newest first"`
	}
}

// ActivitySearchInput is the query for the activity search.
type ActivitySearchInput struct {
	Authorization string   `header:"Authorization"`
	Query         string   `query:"q" doc:"Free-text query over details and usernames"`
	Actions       []string `query:"action" doc:"Filter by exact action names"`
	UserID        string   `query:"user_id" doc:"Scope to one user's events"`
	Since         string   `query:"since" doc:"Earliest event time, RFC 3339"`
	Until         string   `query:"until" doc:"Latest event time, RFC 3339"`
	SortBy        string   `query:"sort" enum:"relevance,recent" default:"relevance" doc:"Sort order"`
	Facets        bool     `query:"facets" doc:"Include per-action and per-user facet counts"`
	Limit         int      `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Maximum hits to return"`
	Offset        int      `query:"offset" minimum:"0" doc:"Hits to skip"`
}

// ActivitySearchOutput wraps the search result for Huma.
type ActivitySearchOutput struct {
	Body search.SearchResult
}

// ActivityStatsOutput wraps the stats summary for Huma.
type ActivityStatsOutput struct {
	Body domain.ActivityStats
}

// === Handlers ===

func (s *Server) handleAdminListActivity(ctx context.Context, input *ActivityListInput) (*ActivityListOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	var events []*domain.Activity
	var err error
	if input.UserID != "" {
		events, err = s.services.Activity.ListForUser(ctx, input.UserID, input.Limit, input.Offset)
	} else {
		events, err = s.services.Activity.List(ctx, input.Limit, input.Offset)
	}
	if err != nil {
		return nil, err
	}

	out := &ActivityListOutput{}
	out.Body.Events = make([]ActivityResponse, 0, len(events))
	for _, e := range events {
		out.Body.Events = append(out.Body.Events, ActivityResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Details:   e.Details,
			IPAddress: e.IPAddress,
			Timestamp: e.Timestamp,
		})
	}
	return out, nil
}

func (s *Server) handleAdminSearchActivity(ctx context.Context, input *ActivitySearchInput) (*ActivitySearchOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	since, err := parseTimeParam(input.Since, "since")
	if err != nil {
		return nil, err
	}
	until, err := parseTimeParam(input.Until, "until")
	if err != nil {
		return nil, err
	}

	result, err := s.services.Activity.Search(ctx, search.SearchParams{
		Query:         input.Query,
		Actions:       input.Actions,
		UserID:        input.UserID,
		Since:         since,
		Until:         until,
		Limit:         input.Limit,
		Offset:        input.Offset,
		SortBy:        input.SortBy,
		IncludeFacets: input.Facets,
	})
	if err != nil {
		return nil, err
	}

	return &ActivitySearchOutput{Body: *result}, nil
}

func (s *Server) handleAdminActivityStats(ctx context.Context, input *AuthenticatedInput) (*ActivityStatsOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	stats, err := s.services.Activity.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &ActivityStatsOutput{Body: *stats}, nil
}

func parseTimeParam(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, huma.Error422UnprocessableEntity(name + " must be RFC 3339")
	}
	return t, nil
}
