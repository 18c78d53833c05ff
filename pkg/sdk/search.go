package sdk

import (
	"context"
	"net/http"
)

// Search runs one hybrid search. Results arrive in two disjoint lists:
// semantic matches (enriched with catalog records where possible) and
// keyword matches. When the semantic source is down or the query has no
// free text, SearchMode reports "keyword_only" and the semantic list is
// empty; the call still succeeds.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	var out SearchResult
	err := c.do(ctx, "search", http.MethodPost, "/api/v1/search/hybrid", nil, req.payload(), &out)
	if err != nil {
		return SearchResult{}, err
	}
	return out, nil
}
