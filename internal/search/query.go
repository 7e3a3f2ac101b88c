package search

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures an audit search query.
type SearchParams struct {
	Query string // Free-text query over details and usernames

	// Filters
	Actions []string  // Filter by exact action names (empty = all)
	UserID  string    // Scope to one user's events
	Since   time.Time // Earliest event time (zero = unbounded)
	Until   time.Time // Latest event time (zero = unbounded)

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance" or "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool // Include per-action facet counts
	Highlight     bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "recent",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitzero"`
}

// SearchHit represents a single matching audit event.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	UserID     string            `json:"user_id,omitempty"`
	Username   string            `json:"username,omitempty"`
	Action     string            `json:"action"`
	Details    string            `json:"details,omitempty"`
	IPAddress  string            `json:"ip_address,omitempty"`
	Timestamp  int64             `json:"timestamp"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Actions []FacetCount `json:"actions,omitempty"`
	Users   []FacetCount `json:"users,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query against the audit index.
func (s *ActivityIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("action", bleve.NewFacetRequest("action", 20))
		searchRequest.AddFacet("user_id", bleve.NewFacetRequest("user_id", 20))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("details")
	}

	searchRequest.Fields = []string{
		"id", "user_id", "username", "action", "details", "ip_address", "timestamp",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if u, ok := hit.Fields["user_id"].(string); ok {
			searchHit.UserID = u
		}
		if n, ok := hit.Fields["username"].(string); ok {
			searchHit.Username = n
		}
		if a, ok := hit.Fields["action"].(string); ok {
			searchHit.Action = a
		}
		if d, ok := hit.Fields["details"].(string); ok {
			searchHit.Details = d
		}
		if ip, ok := hit.Fields["ip_address"].(string); ok {
			searchHit.IPAddress = ip
		}
		if ts, ok := hit.Fields["timestamp"].(float64); ok {
			searchHit.Timestamp = int64(ts)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Main text query over details and usernames. Fuzzy and prefix
	// variants on details give typo tolerance and autocomplete feel.
	if params.Query != "" {
		textQueries := []query.Query{}

		detailsMatch := bleve.NewMatchQuery(params.Query)
		detailsMatch.SetField("details")
		detailsMatch.SetBoost(3.0)
		textQueries = append(textQueries, detailsMatch)

		usernameMatch := bleve.NewMatchQuery(params.Query)
		usernameMatch.SetField("username")
		usernameMatch.SetBoost(2.0)
		textQueries = append(textQueries, usernameMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("details")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("details")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Action filter (exact match, OR across actions)
	if len(params.Actions) > 0 {
		actionQueries := make([]query.Query, len(params.Actions))
		for i, a := range params.Actions {
			aq := bleve.NewTermQuery(a)
			aq.SetField("action")
			actionQueries[i] = aq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(actionQueries...))
	}

	// User scope
	if params.UserID != "" {
		uq := bleve.NewTermQuery(params.UserID)
		uq.SetField("user_id")
		queries = append(queries, uq)
	}

	// Time window
	if !params.Since.IsZero() || !params.Until.IsZero() {
		min := float64(0)
		max := math.MaxFloat64
		if !params.Since.IsZero() {
			min = float64(params.Since.UnixMilli())
		}
		if !params.Until.IsZero() {
			max = float64(params.Until.UnixMilli())
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("timestamp")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"timestamp"})
		} else {
			req.SortBy([]string{"-timestamp"})
		}
	default:
		// Relevance (score) - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if actionFacet, ok := result.Facets["action"]; ok {
		for _, term := range actionFacet.Terms.Terms() {
			facets.Actions = append(facets.Actions, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if userFacet, ok := result.Facets["user_id"]; ok {
		for _, term := range userFacet.Terms.Terms() {
			facets.Users = append(facets.Users, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
