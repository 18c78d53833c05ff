package hit

import (
	"testing"
	"time"

	"github.com/kailas-cloud/paperdex/internal/domain/paper"
)

func testPaper(t *testing.T, id string) paper.Paper {
	t.Helper()
	p, err := paper.New(id, "Attention Is All You Need", "We propose the Transformer.", paper.Meta{
		Authors:     []string{"Vaswani"},
		Categories:  []string{"cs.CL", "cs.LG"},
		PublishedAt: time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC),
		HasCode:     true,
		ImpactScore: 9.8,
		Citations:   90000,
	})
	if err != nil {
		t.Fatalf("paper.New: %v", err)
	}
	return p
}

func TestNewThin(t *testing.T) {
	h := NewThin("https://arxiv.org/abs/1706.03762v5", "Attention Is All You Need", "snippet")

	if h.ID() != "1706.03762" {
		t.Errorf("ID() = %q, want canonical form", h.ID())
	}
	if h.Source() != SourceSemantic {
		t.Errorf("Source() = %q", h.Source())
	}
	if h.Score() != TopRelevance {
		t.Errorf("Score() = %f, want %f", h.Score(), TopRelevance)
	}
	if h.Title() != "Attention Is All You Need" {
		t.Errorf("Title() = %q", h.Title())
	}
	if h.Summary() != "snippet" {
		t.Errorf("Summary() = %q", h.Summary())
	}
	if h.IsThick() {
		t.Error("IsThick() = true for thin hit")
	}
	if h.Paper() != nil {
		t.Error("Paper() should be nil for thin hit")
	}
}

func TestNewThick(t *testing.T) {
	p := testPaper(t, "1706.03762")
	h := NewThick(p)

	if h.ID() != "1706.03762" {
		t.Errorf("ID() = %q", h.ID())
	}
	if h.Source() != SourceKeyword {
		t.Errorf("Source() = %q", h.Source())
	}
	if h.Score() != 0 {
		t.Errorf("Score() = %f, want 0 for keyword hit", h.Score())
	}
	if h.Title() != p.Title() {
		t.Errorf("Title() = %q", h.Title())
	}
	if h.Summary() != p.Summary() {
		t.Errorf("Summary() = %q", h.Summary())
	}
	if !h.IsThick() {
		t.Error("IsThick() = false for thick hit")
	}
	if h.Paper() == nil {
		t.Fatal("Paper() should not be nil")
	}
	if h.Paper().Citations() != 90000 {
		t.Errorf("Paper().Citations() = %d", h.Paper().Citations())
	}
}

func TestEnrich(t *testing.T) {
	thin := NewThin("1706.03762v3", "short title", "synthesized snippet")
	p := testPaper(t, "1706.03762")

	enriched := thin.Enrich(p)

	if enriched.Source() != SourceSemantic {
		t.Errorf("Source() = %q, enrichment must preserve the source tag", enriched.Source())
	}
	if enriched.Score() != TopRelevance {
		t.Errorf("Score() = %f, enrichment must preserve the relevance marker", enriched.Score())
	}
	if enriched.ID() != "1706.03762" {
		t.Errorf("ID() = %q", enriched.ID())
	}
	if enriched.Title() != p.Title() {
		t.Errorf("Title() = %q, want adopted title", enriched.Title())
	}
	if enriched.Summary() != p.Summary() {
		t.Errorf("Summary() = %q, want adopted abstract", enriched.Summary())
	}
	if !enriched.IsThick() {
		t.Error("IsThick() = false after enrichment")
	}

	// Enrich returns a copy; the original stays thin.
	if thin.IsThick() {
		t.Error("original hit mutated by Enrich")
	}
}
