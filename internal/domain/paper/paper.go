package paper

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/paperdex/internal/domain/arxiv"
)

// MaxSummarySize is the maximum abstract size in bytes.
const MaxSummarySize = 65536 // 64KB

// MaxScore bounds the derived quality scores (impact, reproducibility).
const MaxScore = 10.0

// Difficulty is the derived reading-difficulty level of a paper.
type Difficulty string

// Difficulty levels. The empty value means "not scored".
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// IsValid reports whether the difficulty is a known level or unset.
func (d Difficulty) IsValid() bool {
	switch d {
	case "", DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Meta carries the optional metadata of a paper. Derived scores come from
// the enrichment pipeline and may be absent (zero) on unenriched records.
type Meta struct {
	Authors              []string
	Categories           []string // primary category first
	PublishedAt          time.Time
	PDFURL               string
	HasCode              bool
	CodeURL              string
	ImpactScore          float64
	ReproducibilityScore float64
	Difficulty           Difficulty
	Citations            int
}

// Paper is the paper aggregate (immutable value object). Its identifier is
// always the canonical accession token.
type Paper struct {
	id                   string
	title                string
	summary              string
	authors              []string
	categories           []string
	publishedAt          time.Time
	pdfURL               string
	hasCode              bool
	codeURL              string
	impactScore          float64
	reproducibilityScore float64
	difficulty           Difficulty
	citations            int
}

// New validates and creates a Paper. The identifier is canonicalized, so
// callers may pass any surface form (bare token, versioned token, locator).
func New(id, title, summary string, meta Meta) (Paper, error) {
	canonical := arxiv.Normalize(id)
	if canonical == "" {
		return Paper{}, fmt.Errorf("paper ID is required")
	}
	if title == "" {
		return Paper{}, fmt.Errorf("title is required")
	}
	if summary == "" {
		return Paper{}, fmt.Errorf("summary is required")
	}
	if len(summary) > MaxSummarySize {
		return Paper{}, fmt.Errorf("summary too large (max %d bytes)", MaxSummarySize)
	}
	if meta.ImpactScore < 0 || meta.ImpactScore > MaxScore {
		return Paper{}, fmt.Errorf("impact score must be between 0 and %g, got %g", MaxScore, meta.ImpactScore)
	}
	if meta.ReproducibilityScore < 0 || meta.ReproducibilityScore > MaxScore {
		return Paper{}, fmt.Errorf("reproducibility score must be between 0 and %g, got %g", MaxScore, meta.ReproducibilityScore)
	}
	if !meta.Difficulty.IsValid() {
		return Paper{}, fmt.Errorf("unknown difficulty %q", meta.Difficulty)
	}
	if meta.Citations < 0 {
		return Paper{}, fmt.Errorf("citations must not be negative, got %d", meta.Citations)
	}

	return Paper{
		id:                   canonical,
		title:                title,
		summary:              summary,
		authors:              cloneStrings(meta.Authors),
		categories:           cloneStrings(meta.Categories),
		publishedAt:          meta.PublishedAt,
		pdfURL:               meta.PDFURL,
		hasCode:              meta.HasCode,
		codeURL:              meta.CodeURL,
		impactScore:          meta.ImpactScore,
		reproducibilityScore: meta.ReproducibilityScore,
		difficulty:           meta.Difficulty,
		citations:            meta.Citations,
	}, nil
}

// Reconstruct creates a Paper without validation (storage hydration).
func Reconstruct(id, title, summary string, meta Meta) Paper {
	return Paper{
		id:                   id,
		title:                title,
		summary:              summary,
		authors:              meta.Authors,
		categories:           meta.Categories,
		publishedAt:          meta.PublishedAt,
		pdfURL:               meta.PDFURL,
		hasCode:              meta.HasCode,
		codeURL:              meta.CodeURL,
		impactScore:          meta.ImpactScore,
		reproducibilityScore: meta.ReproducibilityScore,
		difficulty:           meta.Difficulty,
		citations:            meta.Citations,
	}
}

// ID returns the canonical accession token.
func (p *Paper) ID() string { return p.id }

// Title returns the paper title.
func (p *Paper) Title() string { return p.title }

// Summary returns the abstract.
func (p *Paper) Summary() string { return p.summary }

// Authors returns the author list.
func (p *Paper) Authors() []string { return p.authors }

// Categories returns all category codes, primary first.
func (p *Paper) Categories() []string { return p.categories }

// Category returns the primary category code, or "" when uncategorized.
func (p *Paper) Category() string {
	if len(p.categories) == 0 {
		return ""
	}
	return p.categories[0]
}

// PublishedAt returns the publication date (zero when unknown).
func (p *Paper) PublishedAt() time.Time { return p.publishedAt }

// PDFURL returns the full-text locator.
func (p *Paper) PDFURL() string { return p.pdfURL }

// HasCode reports whether an implementation is available.
func (p *Paper) HasCode() bool { return p.hasCode }

// CodeURL returns the implementation locator.
func (p *Paper) CodeURL() string { return p.codeURL }

// ImpactScore returns the derived impact score (0 when not scored).
func (p *Paper) ImpactScore() float64 { return p.impactScore }

// ReproducibilityScore returns the derived reproducibility score.
func (p *Paper) ReproducibilityScore() float64 { return p.reproducibilityScore }

// Difficulty returns the derived reading-difficulty level.
func (p *Paper) Difficulty() Difficulty { return p.difficulty }

// Citations returns the citation count.
func (p *Paper) Citations() int { return p.citations }

// IsZero reports whether the paper is the empty value.
func (p *Paper) IsZero() bool { return p.id == "" }

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
