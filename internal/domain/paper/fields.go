package paper

// Index attribute names. The storage layer writes hash fields under these
// names and the search index declares them as schema attributes, so query
// builders anywhere in the codebase filter and sort against this list.
const (
	FieldTitle                = "title"
	FieldSummary              = "summary"
	FieldAuthors              = "authors"
	FieldCategories           = "categories"
	FieldPublishedAt          = "published_at"
	FieldPDFURL               = "pdf_url"
	FieldHasCode              = "has_code"
	FieldCodeURL              = "code_url"
	FieldImpactScore          = "impact_score"
	FieldReproducibilityScore = "reproducibility_score"
	FieldDifficulty           = "difficulty"
	FieldCitations            = "citations"
)
