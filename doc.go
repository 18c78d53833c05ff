// Package paperdex provides an embedded Go client for the paperdex
// research-paper discovery service backed by Redis with the search module.
//
// The client talks to the store in-process and exposes two surfaces:
//   - Catalog access: fetch, list and bulk-load paper records
//   - Hybrid search: concurrent semantic and keyword retrieval merged
//     into one deduplicated result
//
// # Catalog
//
//	client, _ := paperdex.New(ctx, paperdex.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	_ = client.Papers().EnsureIndex(ctx)
//	_ = client.Papers().UpsertBatch(ctx, papers)
//	p, _ := client.Papers().Get(ctx, "1706.03762v5")
//
// # Hybrid search
//
//	client, _ := paperdex.New(ctx,
//	    paperdex.WithRedis("localhost:6379", ""),
//	    paperdex.WithSemanticService("https://semantic.example.com", apiKey),
//	)
//
//	hasCode := true
//	res, _ := client.Search(ctx, paperdex.SearchRequest{
//	    Query: "efficient attention for long sequences",
//	    Filters: paperdex.Filters{
//	        Category: "cs.LG,cs.CL",
//	        HasCode:  &hasCode,
//	    },
//	})
//
// Without WithSemanticService the client still works: searches degrade to
// keyword-only results and report the degraded mode in SearchResult.Mode.
package paperdex
