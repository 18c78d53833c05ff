// Package arxiv canonicalizes arXiv document identifiers.
//
// Retrieval sources reference the same paper in different surface forms:
// a bare accession token ("2401.12345"), a versioned token ("2401.12345v2"),
// or a full locator ("https://arxiv.org/abs/2401.12345"). Normalize reduces
// all of them to one comparable key so cross-source deduplication works on
// set membership alone.
package arxiv

import (
	"regexp"
	"strings"
)

var (
	// locatorRe extracts the accession segment from abs/pdf locator URLs.
	// The capture stops before any query string or fragment.
	locatorRe = regexp.MustCompile(`/(?:abs|pdf)/([^?#]+)`)
	// versionRe matches a trailing revision marker such as "v2".
	versionRe = regexp.MustCompile(`v\d+$`)
)

// Normalize reduces a raw identifier to its canonical accession token.
// It is pure and never fails: values with no recognizable pattern pass
// through unchanged, so deduplication degrades to "no match" instead of
// erroring. Handles new-style ("2401.12345") and old-style
// ("math.GT/0309136") tokens, with or without version suffixes or
// abs/pdf locator wrapping.
func Normalize(raw string) string {
	id := strings.TrimSpace(raw)
	if m := locatorRe.FindStringSubmatch(id); m != nil {
		id = m[1]
	}
	id = strings.TrimSuffix(id, "/")
	id = strings.TrimSuffix(id, ".pdf")
	return versionRe.ReplaceAllString(id, "")
}
