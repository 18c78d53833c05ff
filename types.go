package paperdex

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	"github.com/kailas-cloud/paperdex/internal/domain/search/filter"
	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
	"github.com/kailas-cloud/paperdex/internal/domain/search/result"
)

// Paper is a catalog record. Derived fields (scores, difficulty, hasCode)
// come from the enrichment pipeline and are zero on unenriched records.
type Paper struct {
	ID                   string
	Title                string
	Summary              string
	Authors              []string
	Categories           []string // primary category first
	PublishedAt          time.Time
	PDFURL               string
	HasCode              bool
	CodeURL              string
	ImpactScore          float64
	ReproducibilityScore float64
	Difficulty           string // beginner, intermediate, advanced, or ""
	Citations            int
}

// Hit is one retrieval hit. RelevanceScore is set on semantic hits only;
// Paper carries the full record on keyword and enriched hits, nil on thin
// semantic hits.
type Hit struct {
	ID             string
	Source         string // "semantic" or "keyword"
	RelevanceScore *float64
	Title          string
	Summary        string
	Paper          *Paper
}

// Timing records wall-clock milliseconds per retrieval source.
type Timing struct {
	SemanticMS int64
	KeywordMS  int64
	TotalMS    int64
}

// SearchResult is the outcome of one aggregated search: two disjoint hit
// lists plus per-source totals.
type SearchResult struct {
	Semantic      []Hit
	Keyword       []Hit
	TotalSemantic int
	TotalKeyword  int
	Timing        Timing
	Mode          string // "hybrid" or "keyword_only"
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

// SearchRequest describes one hybrid search. An empty Query skips the
// semantic source (filter-only browse through the keyword path).
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

// PaperList is one page of the catalog.
type PaperList struct {
	Items   []Paper
	Total   int
	HasMore bool
}

// --- Converters ---

func (f Filters) toExpression() (filter.Expression, error) {
	var must, should []filter.Condition

	if f.Category != "" {
		var categories []string
		for _, c := range strings.Split(f.Category, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				categories = append(categories, trimmed)
			}
		}
		for _, c := range categories {
			cond, err := filter.NewMatch(paper.FieldCategories, c)
			if err != nil {
				return filter.Expression{}, fmt.Errorf("category filter: %w", err)
			}
			if len(categories) == 1 {
				must = append(must, cond)
			} else {
				should = append(should, cond)
			}
		}
	}

	if f.HasCode != nil {
		flag := "0"
		if *f.HasCode {
			flag = "1"
		}
		cond, err := filter.NewMatch(paper.FieldHasCode, flag)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("has_code filter: %w", err)
		}
		must = append(must, cond)
	}

	if f.MinImpactScore != nil {
		cond, err := minScore(paper.FieldImpactScore, *f.MinImpactScore)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, cond)
	}
	if f.MinReproducibility != nil {
		cond, err := minScore(paper.FieldReproducibilityScore, *f.MinReproducibility)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, cond)
	}

	if f.Difficulty != "" {
		if !paper.Difficulty(f.Difficulty).IsValid() {
			return filter.Expression{}, fmt.Errorf("unknown difficulty %q", f.Difficulty)
		}
		cond, err := filter.NewMatch(paper.FieldDifficulty, f.Difficulty)
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

func minScore(field string, min float64) (filter.Condition, error) {
	if min < 0 || min > paper.MaxScore {
		return filter.Condition{}, fmt.Errorf("%s must be between 0 and %g, got %g", field, paper.MaxScore, min)
	}
	return filter.NewRange(field, filter.Min(min))
}

func (r SearchRequest) toQuery() (query.Query, error) {
	filters, err := r.Filters.toExpression()
	if err != nil {
		return query.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	q, err := query.New(r.Query, filters, query.Sort(r.Sort), r.Limit)
	if err != nil {
		return query.Query{}, fmt.Errorf("build query: %w", err)
	}
	return q, nil
}

func (r ListRequest) toQuery() (query.Query, error) {
	filters, err := r.Filters.toExpression()
	if err != nil {
		return query.Query{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	q, err := query.New("", filters, query.Sort(r.Sort), r.Limit)
	if err != nil {
		return query.Query{}, fmt.Errorf("build query: %w", err)
	}
	return q, nil
}

func toDomainPaper(p Paper) (paper.Paper, error) {
	dp, err := paper.New(p.ID, p.Title, p.Summary, paper.Meta{
		Authors:              p.Authors,
		Categories:           p.Categories,
		PublishedAt:          p.PublishedAt,
		PDFURL:               p.PDFURL,
		HasCode:              p.HasCode,
		CodeURL:              p.CodeURL,
		ImpactScore:          p.ImpactScore,
		ReproducibilityScore: p.ReproducibilityScore,
		Difficulty:           paper.Difficulty(p.Difficulty),
		Citations:            p.Citations,
	})
	if err != nil {
		return paper.Paper{}, fmt.Errorf("invalid paper: %w", err)
	}
	return dp, nil
}

func fromDomainPaper(dp *paper.Paper) Paper {
	return Paper{
		ID:                   dp.ID(),
		Title:                dp.Title(),
		Summary:              dp.Summary(),
		Authors:              dp.Authors(),
		Categories:           dp.Categories(),
		PublishedAt:          dp.PublishedAt(),
		PDFURL:               dp.PDFURL(),
		HasCode:              dp.HasCode(),
		CodeURL:              dp.CodeURL(),
		ImpactScore:          dp.ImpactScore(),
		ReproducibilityScore: dp.ReproducibilityScore(),
		Difficulty:           string(dp.Difficulty()),
		Citations:            dp.Citations(),
	}
}

func fromDomainHit(h *hit.Hit) Hit {
	out := Hit{
		ID:      h.ID(),
		Source:  string(h.Source()),
		Title:   h.Title(),
		Summary: h.Summary(),
	}
	if h.Source() == hit.SourceSemantic {
		score := h.Score()
		out.RelevanceScore = &score
	}
	if p := h.Paper(); p != nil {
		pp := fromDomainPaper(p)
		out.Paper = &pp
	}
	return out
}

func fromDomainHits(hits []hit.Hit) []Hit {
	out := make([]Hit, len(hits))
	for i := range hits {
		out[i] = fromDomainHit(&hits[i])
	}
	return out
}

func fromDomainResult(res *result.Result) SearchResult {
	t := res.Timing()
	return SearchResult{
		Semantic:      fromDomainHits(res.Semantic()),
		Keyword:       fromDomainHits(res.Keyword()),
		TotalSemantic: res.TotalSemantic(),
		TotalKeyword:  res.TotalKeyword(),
		Timing: Timing{
			SemanticMS: t.SemanticMS,
			KeywordMS:  t.KeywordMS,
			TotalMS:    t.TotalMS,
		},
		Mode: string(res.Mode()),
	}
}
