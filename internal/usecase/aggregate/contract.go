package aggregate

import (
	"context"

	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
)

// SemanticSource retrieves ranked matches for a natural-language
// description. Hits come back thin and in upstream relevance order.
type SemanticSource interface {
	Search(ctx context.Context, text string, topK int) ([]hit.Hit, error)
}

// KeywordSource retrieves one filtered page of thick hits plus the
// index-wide match count.
type KeywordSource interface {
	Fetch(ctx context.Context, q query.Query) (hit.Page, error)
}
