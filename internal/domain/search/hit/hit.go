package hit

import (
	"github.com/kailas-cloud/paperdex/internal/domain/arxiv"
	"github.com/kailas-cloud/paperdex/internal/domain/paper"
)

// Source tags the retrieval source of a hit.
type Source string

// Retrieval sources.
const (
	SourceSemantic Source = "semantic"
	SourceKeyword  Source = "keyword"
)

// TopRelevance is the fixed relevance marker carried by semantic hits.
// The upstream returns a ranked list without per-hit scores, so every
// semantic hit is tagged with the top marker and list order is authoritative.
const TopRelevance = 1.0

// Hit is a single source-tagged retrieval hit. Semantic hits start thin
// (id, title, synthesized snippet); keyword hits carry the full paper
// record. Enrichment upgrades a thin hit in place of its lexical twin.
type Hit struct {
	id      string
	source  Source
	score   float64
	title   string
	summary string
	record  *paper.Paper
}

// NewThin builds a thin semantic hit from a raw upstream record.
// The identifier is canonicalized, so upstream ids may arrive in any
// surface form (bare token, versioned token, abs/pdf locator).
func NewThin(rawID, title, summary string) Hit {
	return Hit{
		id:      arxiv.Normalize(rawID),
		source:  SourceSemantic,
		score:   TopRelevance,
		title:   title,
		summary: summary,
	}
}

// NewThick builds a keyword hit carrying the full paper record.
func NewThick(p paper.Paper) Hit {
	return Hit{
		id:      p.ID(),
		source:  SourceKeyword,
		title:   p.Title(),
		summary: p.Summary(),
		record:  &p,
	}
}

// Enrich returns a copy with the thin fields replaced by the full record.
// The source tag and the relevance marker are preserved.
func (h Hit) Enrich(p paper.Paper) Hit {
	h.title = p.Title()
	h.summary = p.Summary()
	h.record = &p
	return h
}

// ID returns the canonical identifier.
func (h *Hit) ID() string { return h.id }

// Source returns the retrieval source tag.
func (h *Hit) Source() Source { return h.source }

// Score returns the relevance marker (zero on keyword hits).
func (h *Hit) Score() float64 { return h.score }

// Title returns the paper title.
func (h *Hit) Title() string { return h.title }

// Summary returns the abstract or synthesized snippet.
func (h *Hit) Summary() string { return h.summary }

// Paper returns the full record (nil on thin hits).
func (h *Hit) Paper() *paper.Paper { return h.record }

// IsThick reports whether the hit carries a full paper record.
func (h *Hit) IsThick() bool { return h.record != nil }

// Page is one fetched page of keyword hits plus the index-wide match count.
type Page struct {
	Hits    []Hit
	Total   int
	HasMore bool
}
