package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(server.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// --- Search ---

func TestSearch(t *testing.T) {
	ctx := context.Background()
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/v1/search/hybrid" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key-1" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["query"] != "sparse attention" {
			t.Errorf("query = %v", body["query"])
		}
		if body["limit"] != float64(5) {
			t.Errorf("limit = %v", body["limit"])
		}
		filters, ok := body["filters"].(map[string]any)
		if !ok {
			t.Fatalf("filters missing: %v", body)
		}
		if filters["category"] != "cs.LG" {
			t.Errorf("category = %v", filters["category"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"semanticResults": [
				{"id": "2401.00001", "_source": "semantic", "relevanceScore": 1.0,
				 "title": "T1", "summary": "S1", "hasCode": true, "citations": 12}
			],
			"keywordResults": [
				{"id": "2401.00002", "_source": "keyword", "title": "T2", "summary": "S2"}
			],
			"totalSemantic": 1,
			"totalKeyword": 25,
			"timing": {"semantic_ms": 120, "keyword_ms": 45, "total_ms": 130},
			"searchMode": "hybrid"
		}`))
	}
	c := newTestClient(t, handler, WithAPIKey("key-1"))

	res, err := c.Search(ctx, SearchRequest{
		Query:   "sparse attention",
		Limit:   5,
		Filters: Filters{Category: "cs.LG"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(res.SemanticResults) != 1 || len(res.KeywordResults) != 1 {
		t.Fatalf("result lists = %d/%d, want 1/1",
			len(res.SemanticResults), len(res.KeywordResults))
	}
	sem := res.SemanticResults[0]
	if sem.Source != "semantic" {
		t.Errorf("Source = %q", sem.Source)
	}
	if sem.RelevanceScore == nil || *sem.RelevanceScore != 1.0 {
		t.Errorf("RelevanceScore = %v, want 1.0", sem.RelevanceScore)
	}
	if sem.HasCode == nil || !*sem.HasCode {
		t.Errorf("HasCode = %v, want true", sem.HasCode)
	}
	kw := res.KeywordResults[0]
	if kw.RelevanceScore != nil {
		t.Error("keyword hit must not carry a relevance score")
	}
	if res.TotalKeyword != 25 || res.TotalSemantic != 1 {
		t.Errorf("totals = %d/%d, want 1/25", res.TotalSemantic, res.TotalKeyword)
	}
	if res.Timing.SemanticMS != 120 || res.Timing.TotalMS != 130 {
		t.Errorf("timing = %+v", res.Timing)
	}
	if res.SearchMode != "hybrid" {
		t.Errorf("mode = %q", res.SearchMode)
	}
}

func TestSearch_OmitsZeroFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		// Zero values stay off the wire so the service applies its
		// own defaults.
		for _, key := range []string{"query", "limit", "sort", "filters"} {
			if _, present := body[key]; present {
				t.Errorf("key %q sent for a zero value", key)
			}
		}
		_, _ = w.Write([]byte(`{"searchMode": "keyword_only"}`))
	})

	res, err := c.Search(context.Background(), SearchRequest{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.SearchMode != "keyword_only" {
		t.Errorf("mode = %q", res.SearchMode)
	}
}

func TestSearch_InvalidQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": "validation_failed", "message": "unknown sort key"}`))
	})

	_, err := c.Search(context.Background(), SearchRequest{Sort: "upvotes"})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Code != "validation_failed" {
		t.Errorf("Code = %q", apiErr.Code)
	}
}

// --- GetPaper ---

func TestGetPaper(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Old-style identifiers carry a slash; it must arrive escaped.
		if got := r.URL.EscapedPath(); got != "/api/v1/papers/math.GT%2F0309136" {
			t.Errorf("escaped path = %q", got)
		}
		_, _ = w.Write([]byte(`{"id": "math.GT/0309136", "title": "T", "summary": "S", "citations": 3}`))
	})

	p, err := c.GetPaper(context.Background(), "math.GT/0309136")
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if p.ID != "math.GT/0309136" || p.Citations != 3 {
		t.Errorf("paper = %+v", p)
	}
}

func TestGetPaper_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "paper_not_found", "message": "paper not found"}`))
	})

	_, err := c.GetPaper(context.Background(), "2401.99999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// --- ListPapers ---

func TestListPapers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "cs.LG,cs.CL" {
			t.Errorf("category = %q", q.Get("category"))
		}
		if q.Get("has_code") != "true" {
			t.Errorf("has_code = %q", q.Get("has_code"))
		}
		if q.Get("min_impact_score") != "7.5" {
			t.Errorf("min_impact_score = %q", q.Get("min_impact_score"))
		}
		if q.Get("sort") != "citations" {
			t.Errorf("sort = %q", q.Get("sort"))
		}
		if q.Get("limit") != "10" || q.Get("offset") != "20" {
			t.Errorf("page = %q/%q", q.Get("limit"), q.Get("offset"))
		}
		_, _ = w.Write([]byte(`{
			"items": [{"id": "2401.00001", "title": "T", "summary": "S"}],
			"total": 31,
			"hasMore": false
		}`))
	})

	hasCode := true
	minImpact := 7.5
	list, err := c.ListPapers(context.Background(), ListRequest{
		Filters: Filters{
			Category:       "cs.LG,cs.CL",
			HasCode:        &hasCode,
			MinImpactScore: &minImpact,
		},
		Sort:   "citations",
		Limit:  10,
		Offset: 20,
	})
	if err != nil {
		t.Fatalf("ListPapers: %v", err)
	}
	if len(list.Items) != 1 || list.Total != 31 || list.HasMore {
		t.Errorf("list = %+v", list)
	}
}

func TestListPapers_EmptyRequestSendsNoParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("raw query = %q, want empty", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"items": [], "total": 0, "hasMore": false}`))
	})

	if _, err := c.ListPapers(context.Background(), ListRequest{}); err != nil {
		t.Fatalf("ListPapers: %v", err)
	}
}

// --- Health ---

func TestHealth_Degraded503ComesBackAsData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status": "error", "checks": {"database": "error", "semantic": "ok"}}`))
	})

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "error" {
		t.Errorf("status = %q", h.Status)
	}
	if h.Checks["database"] != "error" || h.Checks["semantic"] != "ok" {
		t.Errorf("checks = %v", h.Checks)
	}
}

func TestHealth_UnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error for unexpected status")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Code != "unknown" {
		t.Errorf("Code = %q, want unknown for a non-JSON body", apiErr.Code)
	}
	if apiErr.Message != "upstream exploded" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

// --- Auth ---

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code": "unauthorized", "message": "invalid API key"}`))
	})

	_, err := c.GetPaper(context.Background(), "2401.00001")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestNoAuthHeaderWithoutKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"id": "2401.00001", "title": "T", "summary": "S"}`))
	})

	if _, err := c.GetPaper(context.Background(), "2401.00001"); err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
}
