package papers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/paperdex/internal/domain/paper"
)

// Hash field names, aliased from the domain vocabulary so the schema in
// index.go and every query builder agree on one list.
const (
	fieldTitle       = paper.FieldTitle
	fieldSummary     = paper.FieldSummary
	fieldAuthors     = paper.FieldAuthors
	fieldCategories  = paper.FieldCategories
	fieldPublishedAt = paper.FieldPublishedAt
	fieldPDFURL      = paper.FieldPDFURL
	fieldHasCode     = paper.FieldHasCode
	fieldCodeURL     = paper.FieldCodeURL
	fieldImpact      = paper.FieldImpactScore
	fieldRepro       = paper.FieldReproducibilityScore
	fieldDifficulty  = paper.FieldDifficulty
	fieldCitations   = paper.FieldCitations
)

// buildHashFields converts a domain Paper into a flat map[string]string for HSET.
// Authors are JSON-encoded into a single field; categories are comma-joined
// so the TAG separator can split them back.
func buildHashFields(p *paper.Paper) (map[string]string, error) {
	authors, err := json.Marshal(p.Authors())
	if err != nil {
		return nil, err
	}

	var publishedAt int64
	if !p.PublishedAt().IsZero() {
		publishedAt = p.PublishedAt().Unix()
	}

	return map[string]string{
		fieldTitle:       p.Title(),
		fieldSummary:     p.Summary(),
		fieldAuthors:     string(authors),
		fieldCategories:  strings.Join(p.Categories(), ","),
		fieldPublishedAt: strconv.FormatInt(publishedAt, 10),
		fieldPDFURL:      p.PDFURL(),
		fieldHasCode:     boolToFlag(p.HasCode()),
		fieldCodeURL:     p.CodeURL(),
		fieldImpact:      strconv.FormatFloat(p.ImpactScore(), 'f', -1, 64),
		fieldRepro:       strconv.FormatFloat(p.ReproducibilityScore(), 'f', -1, 64),
		fieldDifficulty:  string(p.Difficulty()),
		fieldCitations:   strconv.Itoa(p.Citations()),
	}, nil
}

// parseHashFields converts a flat hash map back into a domain Paper.
// Values come from our own writes, so parsing is lenient: a malformed
// field degrades to its zero value instead of failing the whole record.
func parseHashFields(id string, m map[string]string) paper.Paper {
	var meta paper.Meta

	if raw := m[fieldAuthors]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &meta.Authors)
	}
	if raw := m[fieldCategories]; raw != "" {
		meta.Categories = strings.Split(raw, ",")
	}
	if sec, err := strconv.ParseInt(m[fieldPublishedAt], 10, 64); err == nil && sec != 0 {
		meta.PublishedAt = time.Unix(sec, 0).UTC()
	}
	meta.PDFURL = m[fieldPDFURL]
	meta.HasCode = m[fieldHasCode] == "1"
	meta.CodeURL = m[fieldCodeURL]
	if f, err := strconv.ParseFloat(m[fieldImpact], 64); err == nil {
		meta.ImpactScore = f
	}
	if f, err := strconv.ParseFloat(m[fieldRepro], 64); err == nil {
		meta.ReproducibilityScore = f
	}
	meta.Difficulty = paper.Difficulty(m[fieldDifficulty])
	if n, err := strconv.Atoi(m[fieldCitations]); err == nil {
		meta.Citations = n
	}

	return paper.Reconstruct(id, m[fieldTitle], m[fieldSummary], meta)
}

func boolToFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
