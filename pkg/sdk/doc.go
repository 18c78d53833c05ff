// Package sdk provides the HTTP client for the paperdex research-paper
// discovery API.
//
// The client covers the whole service surface: hybrid search, catalog
// browsing, single-paper lookup, and health.
//
//	client, _ := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//
//	res, _ := client.Search(ctx, sdk.SearchRequest{
//	    Query: "attention mechanisms for long documents",
//	    Limit: 20,
//	})
//	for _, hit := range res.SemanticResults {
//	    fmt.Println(hit.ID, hit.Title)
//	}
//
// Error answers from the service become *APIError values that also match
// the package sentinels:
//
//	_, err := client.GetPaper(ctx, "2401.99999")
//	if errors.Is(err, sdk.ErrNotFound) {
//	    // no such paper
//	}
//
// Applications embedding the catalog in-process can skip HTTP entirely and
// use the root paperdex package instead.
package sdk
