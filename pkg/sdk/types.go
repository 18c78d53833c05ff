package sdk

import (
	"net/url"
	"strconv"
	"time"
)

// Paper is one catalog record. Derived fields (scores, difficulty,
// hasCode) come from the enrichment pipeline and are zero on unenriched
// records.
type Paper struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Summary              string     `json:"summary"`
	Authors              []string   `json:"authors,omitempty"`
	Categories           []string   `json:"categories,omitempty"`
	PublishedAt          *time.Time `json:"publishedAt,omitempty"`
	PDFURL               string     `json:"pdfUrl,omitempty"`
	HasCode              bool       `json:"hasCode"`
	CodeURL              string     `json:"codeUrl,omitempty"`
	ImpactScore          float64    `json:"impactScore"`
	ReproducibilityScore float64    `json:"reproducibilityScore"`
	Difficulty           string     `json:"difficulty,omitempty"`
	Citations            int        `json:"citations"`
}

// Hit is one retrieval hit. RelevanceScore is present on semantic hits
// only; record fields are nil on thin hits the catalog could not enrich.
type Hit struct {
	ID                   string     `json:"id"`
	Source               string     `json:"_source"`
	RelevanceScore       *float64   `json:"relevanceScore,omitempty"`
	Title                string     `json:"title"`
	Summary              string     `json:"summary"`
	Authors              []string   `json:"authors,omitempty"`
	Categories           []string   `json:"categories,omitempty"`
	PublishedAt          *time.Time `json:"publishedAt,omitempty"`
	PDFURL               string     `json:"pdfUrl,omitempty"`
	HasCode              *bool      `json:"hasCode,omitempty"`
	CodeURL              string     `json:"codeUrl,omitempty"`
	ImpactScore          *float64   `json:"impactScore,omitempty"`
	ReproducibilityScore *float64   `json:"reproducibilityScore,omitempty"`
	Difficulty           string     `json:"difficulty,omitempty"`
	Citations            *int       `json:"citations,omitempty"`
}

// Timing reports wall-clock milliseconds per retrieval source.
type Timing struct {
	SemanticMS int64 `json:"semantic_ms"`
	KeywordMS  int64 `json:"keyword_ms"`
	TotalMS    int64 `json:"total_ms"`
}

// SearchResult is the outcome of one hybrid search: two disjoint hit lists
// plus per-source totals.
type SearchResult struct {
	SemanticResults []Hit  `json:"semanticResults"`
	KeywordResults  []Hit  `json:"keywordResults"`
	TotalSemantic   int    `json:"totalSemantic"`
	TotalKeyword    int    `json:"totalKeyword"`
	Timing          Timing `json:"timing"`
	SearchMode      string `json:"searchMode"`
}

// PaperList is one page of the catalog.
type PaperList struct {
	Items   []Paper `json:"items"`
	Total   int     `json:"total"`
	HasMore bool    `json:"hasMore"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Filters narrows a search or listing. Category accepts comma-separated
// multi-values (any-of).
type Filters struct {
	Category           string
	HasCode            *bool
	MinImpactScore     *float64
	MinReproducibility *float64
	Difficulty         string
}

// SearchRequest describes one hybrid search. An empty Query makes the
// service skip the semantic source and browse by filters alone.
type SearchRequest struct {
	Query   string
	Limit   int    // 1..50, default 20
	Sort    string // "recency" (default) or "citations"
	Filters Filters
}

// ListRequest describes one catalog browse page.
type ListRequest struct {
	Filters Filters
	Sort    string
	Limit   int
	Offset  int
}

// --- Wire encoding ---

type filterPayload struct {
	Category           *string  `json:"category,omitempty"`
	HasCode            *bool    `json:"has_code,omitempty"`
	MinImpactScore     *float64 `json:"min_impact_score,omitempty"`
	MinReproducibility *float64 `json:"min_reproducibility,omitempty"`
	Difficulty         *string  `json:"difficulty,omitempty"`
}

type searchPayload struct {
	Query   *string        `json:"query,omitempty"`
	Limit   *int           `json:"limit,omitempty"`
	Sort    *string        `json:"sort,omitempty"`
	Filters *filterPayload `json:"filters,omitempty"`
}

// payload drops zero values so the service applies its own defaults.
func (r SearchRequest) payload() searchPayload {
	var p searchPayload
	if r.Query != "" {
		p.Query = &r.Query
	}
	if r.Limit > 0 {
		p.Limit = &r.Limit
	}
	if r.Sort != "" {
		p.Sort = &r.Sort
	}
	p.Filters = r.Filters.payload()
	return p
}

func (f Filters) payload() *filterPayload {
	if f.Category == "" && f.HasCode == nil && f.MinImpactScore == nil &&
		f.MinReproducibility == nil && f.Difficulty == "" {
		return nil
	}

	p := &filterPayload{
		HasCode:            f.HasCode,
		MinImpactScore:     f.MinImpactScore,
		MinReproducibility: f.MinReproducibility,
	}
	if f.Category != "" {
		p.Category = &f.Category
	}
	if f.Difficulty != "" {
		p.Difficulty = &f.Difficulty
	}
	return p
}

// query renders the browse parameters in the form style the service
// binds.
func (r ListRequest) query() url.Values {
	q := url.Values{}
	if r.Filters.Category != "" {
		q.Set("category", r.Filters.Category)
	}
	if r.Filters.HasCode != nil {
		q.Set("has_code", strconv.FormatBool(*r.Filters.HasCode))
	}
	if r.Filters.MinImpactScore != nil {
		q.Set("min_impact_score", formatScore(*r.Filters.MinImpactScore))
	}
	if r.Filters.MinReproducibility != nil {
		q.Set("min_reproducibility", formatScore(*r.Filters.MinReproducibility))
	}
	if r.Filters.Difficulty != "" {
		q.Set("difficulty", r.Filters.Difficulty)
	}
	if r.Sort != "" {
		q.Set("sort", r.Sort)
	}
	if r.Limit > 0 {
		q.Set("limit", strconv.Itoa(r.Limit))
	}
	if r.Offset > 0 {
		q.Set("offset", strconv.Itoa(r.Offset))
	}
	return q
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
