package main

import (
	"testing"
	"time"
)

func TestToPaper(t *testing.T) {
	row := &arxivRow{
		ID:         "1706.03762",
		Title:      "Attention Is All\n  You Need",
		Abstract:   "  The dominant sequence transduction models are based on RNNs.  ",
		Authors:    "Ashish Vaswani, Noam Shazeer and Illia Polosukhin",
		Categories: "cs.CL cs.LG",
		UpdateDate: "2023-04-05",
	}

	p, ok := toPaper(row)
	if !ok {
		t.Fatal("expected a valid paper")
	}

	if p.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q, want collapsed whitespace", p.Title)
	}
	if p.Summary != "The dominant sequence transduction models are based on RNNs." {
		t.Errorf("Summary = %q, want trimmed", p.Summary)
	}
	if len(p.Authors) != 3 || p.Authors[2] != "Illia Polosukhin" {
		t.Errorf("Authors = %v, want three names", p.Authors)
	}
	if len(p.Categories) != 2 || p.Categories[0] != "cs.CL" {
		t.Errorf("Categories = %v, want [cs.CL cs.LG]", p.Categories)
	}
	want := time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)
	if !p.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", p.PublishedAt, want)
	}
	if p.PDFURL != "https://arxiv.org/pdf/1706.03762" {
		t.Errorf("PDFURL = %q", p.PDFURL)
	}
}

func TestToPaper_MissingFields(t *testing.T) {
	rows := []*arxivRow{
		{Title: "t", Abstract: "a"},
		{ID: "2401.00001", Abstract: "a"},
		{ID: "2401.00001", Title: "t"},
		{ID: "2401.00001", Title: "   ", Abstract: "a"},
	}
	for _, row := range rows {
		if _, ok := toPaper(row); ok {
			t.Errorf("toPaper(%+v) ok = true, want false", row)
		}
	}
}

func TestToPaper_BadDate(t *testing.T) {
	row := &arxivRow{
		ID: "2401.00001", Title: "t", Abstract: "a", UpdateDate: "unknown",
	}
	p, ok := toPaper(row)
	if !ok {
		t.Fatal("expected a valid paper")
	}
	if !p.PublishedAt.IsZero() {
		t.Errorf("PublishedAt = %v, want zero for a bad date", p.PublishedAt)
	}
}

func TestParseAuthors(t *testing.T) {
	got := parseAuthors("A. One, B. Two and C. Three")
	want := []string{"A. One", "B. Two", "C. Three"}
	if len(got) != len(want) {
		t.Fatalf("parseAuthors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseAuthors[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := collapseWhitespace("  a\n  b\tc "); got != "a b c" {
		t.Errorf("collapseWhitespace = %q, want %q", got, "a b c")
	}
}
