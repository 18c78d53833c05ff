package result

import (
	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
	"github.com/kailas-cloud/paperdex/internal/domain/search/mode"
)

// Timing records wall-clock milliseconds for one aggregated search.
// A skipped source reports zero.
type Timing struct {
	SemanticMS int64
	KeywordMS  int64
	TotalMS    int64
}

// Result is the outcome of one aggregated search: two disjoint hit lists,
// per-source totals, timing, and the mode the query resolved to.
type Result struct {
	semantic      []hit.Hit
	keyword       []hit.Hit
	totalSemantic int
	totalKeyword  int
	timing        Timing
	searchMode    mode.Mode
}

// New assembles an aggregated result.
func New(
	semantic, keyword []hit.Hit,
	totalSemantic, totalKeyword int,
	timing Timing, m mode.Mode,
) Result {
	return Result{
		semantic:      semantic,
		keyword:       keyword,
		totalSemantic: totalSemantic,
		totalKeyword:  totalKeyword,
		timing:        timing,
		searchMode:    m,
	}
}

// Semantic returns the semantic hit list in upstream relevance order.
func (r *Result) Semantic() []hit.Hit { return r.semantic }

// Keyword returns the keyword hit list in the caller's sort order.
func (r *Result) Keyword() []hit.Hit { return r.keyword }

// TotalSemantic returns the semantic hit count as returned by the source.
func (r *Result) TotalSemantic() int { return r.totalSemantic }

// TotalKeyword returns the index-wide keyword match count.
func (r *Result) TotalKeyword() int { return r.totalKeyword }

// Timing returns the per-source and total elapsed milliseconds.
func (r *Result) Timing() Timing { return r.timing }

// Mode returns the mode the query resolved to.
func (r *Result) Mode() mode.Mode { return r.searchMode }

// IsEmpty reports whether both hit lists are empty.
func (r *Result) IsEmpty() bool {
	return len(r.semantic) == 0 && len(r.keyword) == 0
}
