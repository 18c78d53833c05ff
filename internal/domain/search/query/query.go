package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed free-text length.
	MaxTextLength = 4096
	DefaultLimit  = 20
	MinLimit      = 1
	MaxLimit      = 50
)

// Sort orders the keyword result list.
type Sort string

// Sort keys.
const (
	SortRecency   Sort = "recency"
	SortCitations Sort = "citations"
)

// IsValid checks if the sort key is one of the supported values.
func (s Sort) IsValid() bool {
	return s == SortRecency || s == SortCitations
}

// Query is a validated search request. Free text is optional: without it
// the request is a filter-only browse and the semantic source is skipped.
type Query struct {
	text    string
	filters filter.Expression
	sortKey Sort
	limit   int
}

// New validates and normalizes search parameters.
// Defaults: sort=recency, limit=20. Limit is silently clamped to [1, 50].
func New(text string, filters filter.Expression, sortKey Sort, limit int) (Query, error) {
	text = strings.TrimSpace(text)
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: text too long (max %d chars)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if sortKey == "" {
		sortKey = SortRecency
	}
	if !sortKey.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidQuery, sortKey)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Query{
		text:    text,
		filters: filters,
		sortKey: sortKey,
		limit:   limit,
	}, nil
}

// Text returns the free-text part of the query ("" for filter-only browse).
func (q *Query) Text() string { return q.text }

// HasText reports whether free text was supplied.
func (q *Query) HasText() bool { return q.text != "" }

// Filters returns the source-agnostic filter expression.
func (q *Query) Filters() filter.Expression { return q.filters }

// Sort returns the keyword-list ordering key.
func (q *Query) Sort() Sort { return q.sortKey }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }
