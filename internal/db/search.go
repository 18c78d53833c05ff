package db

import "github.com/kailas-cloud/paperdex/internal/domain/search/filter"

// PageQuery is the input for a paginated FT.SEARCH over an index.
// Text (when present) is matched against TextFields; Filters narrow the
// candidate set; SortBy orders by a SORTABLE numeric field.
type PageQuery struct {
	IndexName    string
	Text         string
	TextFields   []string
	Filters      filter.Expression
	SortBy       string
	SortDesc     bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
