// Row types for the arXiv metadata ingest pipeline and their conversion
// into catalog records.
package main

import (
	"strings"
	"time"

	"github.com/kailas-cloud/paperdex"
)

// arxivRow is a raw row from the arXiv metadata parquet snapshot.
type arxivRow struct {
	ID         string // accession token, e.g. "2401.12345" or "math.GT/0309136"
	Title      string
	Abstract   string
	Authors    string // comma-separated display string
	Categories string // space-separated, primary first
	UpdateDate string // "YYYY-MM-DD"
}

// toPaper converts a raw row into a catalog record. Returns false when the
// row misses one of the required fields.
func toPaper(row *arxivRow) (paperdex.Paper, bool) {
	id := strings.TrimSpace(row.ID)
	title := collapseWhitespace(row.Title)
	abstract := strings.TrimSpace(row.Abstract)
	if id == "" || title == "" || abstract == "" {
		return paperdex.Paper{}, false
	}

	var published time.Time
	if t, err := time.Parse("2006-01-02", row.UpdateDate); err == nil {
		published = t
	}

	return paperdex.Paper{
		ID:          id,
		Title:       title,
		Summary:     abstract,
		Authors:     parseAuthors(row.Authors),
		Categories:  strings.Fields(row.Categories),
		PublishedAt: published,
		PDFURL:      "https://arxiv.org/pdf/" + id,
	}, true
}

// parseAuthors splits the display string into individual names. The last
// pair is usually joined with "and".
func parseAuthors(s string) []string {
	s = strings.ReplaceAll(s, " and ", ", ")
	var authors []string
	for _, part := range strings.Split(s, ",") {
		if name := collapseWhitespace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// collapseWhitespace trims and folds internal runs of whitespace into one
// space. Metadata strings carry line-wrap continuations.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
