package papers

import (
	"github.com/kailas-cloud/paperdex/internal/db"
)

// buildIndex returns the paper search index schema. TEXT on title and
// summary drives the keyword clause; published_at and citations are
// SORTABLE because they back the two sort orders.
func buildIndex(keyPrefix string) *db.IndexDefinition {
	return db.NewIndex(indexName(keyPrefix)).
		Prefix(paperKeyPrefix(keyPrefix)).
		Text(fieldTitle).
		Text(fieldSummary).
		TagWithOpts(fieldCategories, ",", false).
		Tag(fieldDifficulty).
		Tag(fieldHasCode).
		Numeric(fieldImpact).
		Numeric(fieldRepro).
		NumericSortable(fieldPublishedAt).
		NumericSortable(fieldCitations).
		MustBuild()
}

func indexName(keyPrefix string) string {
	return keyPrefix + "papers:idx"
}

func paperKeyPrefix(keyPrefix string) string {
	return keyPrefix + "paper:"
}
