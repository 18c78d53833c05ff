package chi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	"github.com/kailas-cloud/paperdex/internal/domain/search/filter"
	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
	"github.com/kailas-cloud/paperdex/internal/domain/search/result"
)

// --- Wire types ---

type errorCode string

const (
	errorCodeBadRequest       errorCode = "bad_request"
	errorCodeValidationFailed errorCode = "validation_failed"
	errorCodePaperNotFound    errorCode = "paper_not_found"
	errorCodeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type filterParams struct {
	Category           *string  `json:"category,omitempty"`
	HasCode            *bool    `json:"has_code,omitempty"`
	MinImpactScore     *float64 `json:"min_impact_score,omitempty"`
	MinReproducibility *float64 `json:"min_reproducibility,omitempty"`
	Difficulty         *string  `json:"difficulty,omitempty"`
}

type hybridSearchRequest struct {
	Query   *string       `json:"query,omitempty"`
	Limit   *int          `json:"limit,omitempty"`
	Sort    *string       `json:"sort,omitempty"`
	Filters *filterParams `json:"filters,omitempty"`
}

type timingInfo struct {
	SemanticMS int64 `json:"semantic_ms"`
	KeywordMS  int64 `json:"keyword_ms"`
	TotalMS    int64 `json:"total_ms"`
}

// hitEntry is one search hit on the wire. Enriched-record fields are
// omitted on thin hits; relevanceScore is only present on semantic hits.
type hitEntry struct {
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

type hybridSearchResponse struct {
	SemanticResults []hitEntry `json:"semanticResults"`
	KeywordResults  []hitEntry `json:"keywordResults"`
	TotalSemantic   int        `json:"totalSemantic"`
	TotalKeyword    int        `json:"totalKeyword"`
	Timing          timingInfo `json:"timing"`
	SearchMode      string     `json:"searchMode"`
}

type paperResponse struct {
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

type paperListResponse struct {
	Items   []paperResponse `json:"items"`
	Total   int             `json:"total"`
	HasMore bool            `json:"hasMore"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// listPapersParams are the bound query parameters of GET /api/v1/papers.
type listPapersParams struct {
	Category           *string
	HasCode            *bool
	MinImpactScore     *float64
	MinReproducibility *float64
	Difficulty         *string
	Sort               *string
	Limit              *int
	Offset             *int
}

// bindListParams binds the browse query string. Style handling follows the
// oapi-codegen chi server convention (form, exploded, optional).
func bindListParams(r *http.Request) (listPapersParams, error) {
	var p listPapersParams
	q := r.URL.Query()

	bindings := []struct {
		name string
		dest any
	}{
		{"category", &p.Category},
		{"has_code", &p.HasCode},
		{"min_impact_score", &p.MinImpactScore},
		{"min_reproducibility", &p.MinReproducibility},
		{"difficulty", &p.Difficulty},
		{"sort", &p.Sort},
		{"limit", &p.Limit},
		{"offset", &p.Offset},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return listPapersParams{}, fmt.Errorf("invalid parameter %q: %w", b.name, err)
		}
	}
	return p, nil
}

// --- Request translation ---

// buildFilters translates the wire filter block into the source-agnostic
// filter expression. A multi-valued category (comma-separated) becomes a
// should group (OR); everything else is a must condition.
func buildFilters(fp *filterParams) (filter.Expression, error) {
	if fp == nil {
		return filter.Expression{}, nil
	}

	var must, should []filter.Condition

	if fp.Category != nil {
		categories := splitCSV(*fp.Category)
		switch len(categories) {
		case 0:
		case 1:
			cond, err := filter.NewMatch(paper.FieldCategories, categories[0])
			if err != nil {
				return filter.Expression{}, fmt.Errorf("category filter: %w", err)
			}
			must = append(must, cond)
		default:
			for _, c := range categories {
				cond, err := filter.NewMatch(paper.FieldCategories, c)
				if err != nil {
					return filter.Expression{}, fmt.Errorf("category filter: %w", err)
				}
				should = append(should, cond)
			}
		}
	}

	if fp.HasCode != nil {
		flag := "0"
		if *fp.HasCode {
			flag = "1"
		}
		cond, err := filter.NewMatch(paper.FieldHasCode, flag)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("has_code filter: %w", err)
		}
		must = append(must, cond)
	}

	if fp.MinImpactScore != nil {
		cond, err := minScoreCondition(paper.FieldImpactScore, *fp.MinImpactScore)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("min_impact_score filter: %w", err)
		}
		must = append(must, cond)
	}

	if fp.MinReproducibility != nil {
		cond, err := minScoreCondition(paper.FieldReproducibilityScore, *fp.MinReproducibility)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("min_reproducibility filter: %w", err)
		}
		must = append(must, cond)
	}

	if fp.Difficulty != nil {
		d := paper.Difficulty(*fp.Difficulty)
		if d == "" || !d.IsValid() {
			return filter.Expression{}, fmt.Errorf("unknown difficulty %q", *fp.Difficulty)
		}
		cond, err := filter.NewMatch(paper.FieldDifficulty, *fp.Difficulty)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("difficulty filter: %w", err)
		}
		must = append(must, cond)
	}

	expr, err := filter.NewExpression(must, should)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("build filters: %w", err)
	}
	return expr, nil
}

func minScoreCondition(field string, min float64) (filter.Condition, error) {
	if min < 0 || min > paper.MaxScore {
		return filter.Condition{}, fmt.Errorf("must be between 0 and %g, got %g", paper.MaxScore, min)
	}
	return filter.NewRange(field, filter.Min(min))
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// queryFromSearchRequest validates the hybrid search body and builds the
// domain query. Explicitly provided out-of-range limits are rejected;
// an absent limit falls back to the default.
func queryFromSearchRequest(req hybridSearchRequest) (query.Query, error) {
	if req.Limit != nil && (*req.Limit < query.MinLimit || *req.Limit > query.MaxLimit) {
		return query.Query{}, fmt.Errorf("limit must be between %d and %d", query.MinLimit, query.MaxLimit)
	}

	filters, err := buildFilters(req.Filters)
	if err != nil {
		return query.Query{}, err
	}

	q, err := query.New(derefStr(req.Query), filters, query.Sort(derefStr(req.Sort)), derefInt(req.Limit))
	if err != nil {
		return query.Query{}, fmt.Errorf("build query: %w", err)
	}
	return q, nil
}

// queryFromListParams builds the browse query for GET /api/v1/papers.
// Browse has no free text, so the keyword path serves it alone.
func queryFromListParams(p listPapersParams) (query.Query, int, error) {
	if p.Limit != nil && (*p.Limit < query.MinLimit || *p.Limit > query.MaxLimit) {
		return query.Query{}, 0, fmt.Errorf("limit must be between %d and %d", query.MinLimit, query.MaxLimit)
	}

	filters, err := buildFilters(&filterParams{
		Category:           p.Category,
		HasCode:            p.HasCode,
		MinImpactScore:     p.MinImpactScore,
		MinReproducibility: p.MinReproducibility,
		Difficulty:         p.Difficulty,
	})
	if err != nil {
		return query.Query{}, 0, err
	}

	q, err := query.New("", filters, query.Sort(derefStr(p.Sort)), derefInt(p.Limit))
	if err != nil {
		return query.Query{}, 0, fmt.Errorf("build query: %w", err)
	}
	return q, derefInt(p.Offset), nil
}

// --- Response translation ---

func searchResultToResponse(res *result.Result) hybridSearchResponse {
	t := res.Timing()
	return hybridSearchResponse{
		SemanticResults: hitsToEntries(res.Semantic()),
		KeywordResults:  hitsToEntries(res.Keyword()),
		TotalSemantic:   res.TotalSemantic(),
		TotalKeyword:    res.TotalKeyword(),
		Timing: timingInfo{
			SemanticMS: t.SemanticMS,
			KeywordMS:  t.KeywordMS,
			TotalMS:    t.TotalMS,
		},
		SearchMode: string(res.Mode()),
	}
}

func hitsToEntries(hits []hit.Hit) []hitEntry {
	entries := make([]hitEntry, len(hits))
	for i := range hits {
		entries[i] = hitToEntry(&hits[i])
	}
	return entries
}

func hitToEntry(h *hit.Hit) hitEntry {
	entry := hitEntry{
		ID:      h.ID(),
		Source:  string(h.Source()),
		Title:   h.Title(),
		Summary: h.Summary(),
	}

	if h.Source() == hit.SourceSemantic {
		score := h.Score()
		entry.RelevanceScore = &score
	}

	if p := h.Paper(); p != nil {
		entry.Authors = p.Authors()
		entry.Categories = p.Categories()
		if !p.PublishedAt().IsZero() {
			published := p.PublishedAt()
			entry.PublishedAt = &published
		}
		entry.PDFURL = p.PDFURL()
		hasCode := p.HasCode()
		entry.HasCode = &hasCode
		entry.CodeURL = p.CodeURL()
		impact := p.ImpactScore()
		entry.ImpactScore = &impact
		repro := p.ReproducibilityScore()
		entry.ReproducibilityScore = &repro
		entry.Difficulty = string(p.Difficulty())
		citations := p.Citations()
		entry.Citations = &citations
	}

	return entry
}

func paperToResponse(p *paper.Paper) paperResponse {
	resp := paperResponse{
		ID:                   p.ID(),
		Title:                p.Title(),
		Summary:              p.Summary(),
		Authors:              p.Authors(),
		Categories:           p.Categories(),
		PDFURL:               p.PDFURL(),
		HasCode:              p.HasCode(),
		CodeURL:              p.CodeURL(),
		ImpactScore:          p.ImpactScore(),
		ReproducibilityScore: p.ReproducibilityScore(),
		Difficulty:           string(p.Difficulty()),
		Citations:            p.Citations(),
	}
	if !p.PublishedAt().IsZero() {
		published := p.PublishedAt()
		resp.PublishedAt = &published
	}
	return resp
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
