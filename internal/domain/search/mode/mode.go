package mode

// Mode is the retrieval strategy recorded on a search response.
type Mode string

// Search mode constants.
const (
	// Hybrid combines semantic and keyword retrieval.
	Hybrid Mode = "hybrid"
	// KeywordOnly is the filter/browse path; the semantic source is skipped.
	KeywordOnly Mode = "keyword_only"
	// SemanticOnly is reserved for responses built from the semantic
	// source alone; it is never derived from a query.
	SemanticOnly Mode = "semantic_only"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == KeywordOnly || m == SemanticOnly
}

// Derive picks the mode for a query: hybrid when free text is present,
// keyword_only otherwise.
func Derive(hasText bool) Mode {
	if hasText {
		return Hybrid
	}
	return KeywordOnly
}
