package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for activity documents.
//
// The mapping is designed with these priorities:
//  1. Full-text search on event details with English stemming
//  2. Exact keyword matching for action and user filters
//  3. Numeric range queries on the timestamp for time windows
//  4. Term vectors on details for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Details - primary search target
	detailsFieldMapping := bleve.NewTextFieldMapping()
	detailsFieldMapping.Analyzer = en.AnalyzerName
	detailsFieldMapping.Store = true
	detailsFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("details", detailsFieldMapping)

	// Username - searchable with simple analyzer (no stemming)
	usernameFieldMapping := bleve.NewTextFieldMapping()
	usernameFieldMapping.Analyzer = simple.Name
	usernameFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("username", usernameFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	// Action - for filtering and faceting by event type
	actionFieldMapping := bleve.NewTextFieldMapping()
	actionFieldMapping.Analyzer = keyword.Name
	actionFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("action", actionFieldMapping)

	// User ID - for scoping to one user
	userIDFieldMapping := bleve.NewTextFieldMapping()
	userIDFieldMapping.Analyzer = keyword.Name
	userIDFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("user_id", userIDFieldMapping)

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// IP address - exact match only
	ipFieldMapping := bleve.NewTextFieldMapping()
	ipFieldMapping.Analyzer = keyword.Name
	ipFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("ip_address", ipFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	// Timestamp - for recency sorting and time windows
	timestampFieldMapping := bleve.NewNumericFieldMapping()
	timestampFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("timestamp", timestampFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
