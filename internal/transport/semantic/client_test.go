package semantic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
)

func TestSearch_HappyPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Description != "papers about attention" {
			t.Errorf("unexpected description: %q", req.Description)
		}
		if req.TopK != 6 {
			t.Errorf("unexpected top_k: %d", req.TopK)
		}
		if !req.FastMode {
			t.Error("expected fast_mode=true")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(searchResponse{
			Results: []searchResultEntry{
				{ID: "https://arxiv.org/abs/1706.03762v5", Title: "Attention Is All You Need", Summary: "s1"},
				{ID: "2401.00001", Title: "Second", Summary: "s2"},
			},
		})
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL, APIKey: "test-key", FastMode: true})

	hits, err := c.Search(context.Background(), "papers about attention", 6)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	// Upstream order preserved, identifiers canonicalized.
	if hits[0].ID() != "1706.03762" {
		t.Errorf("expected canonical id 1706.03762, got %s", hits[0].ID())
	}
	if hits[1].ID() != "2401.00001" {
		t.Errorf("unexpected second id: %s", hits[1].ID())
	}
	if hits[0].Source() != hit.SourceSemantic {
		t.Errorf("expected semantic source, got %s", hits[0].Source())
	}
	if hits[0].IsThick() {
		t.Error("semantic hits must be thin")
	}
	if hits[0].Score() != hit.TopRelevance {
		t.Errorf("expected top relevance marker, got %g", hits[0].Score())
	}
}

func TestSearch_NoAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("expected no auth header, got %s", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	if _, err := c.Search(context.Background(), "x", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_EmptyIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{Results: []searchResultEntry{}})
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	hits, err := c.Search(context.Background(), "nothing matches this", 10)
	if err != nil {
		t.Fatalf("empty result must not error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected 0 hits, got %d", len(hits))
	}
}

func TestSearch_FallbackIsValidData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{
			Results:  []searchResultEntry{{ID: "2401.00001", Title: "t", Summary: "s"}},
			Fallback: true,
		})
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	hits, err := c.Search(context.Background(), "x", 5)
	if err != nil {
		t.Fatalf("fallback answer must not error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
}

func TestSearch_Non200Classified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "synthesis backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	_, err := c.Search(context.Background(), "x", 5)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestSearch_MalformedPayloadClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	_, err := c.Search(context.Background(), "x", 5)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestSearch_TimeoutClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hold the request until the client gives up.
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL, Timeout: 30 * time.Millisecond})
	_, err := c.Search(context.Background(), "x", 5)
	if !errors.Is(err, domain.ErrSourceTimeout) {
		t.Fatalf("expected ErrSourceTimeout, got %v", err)
	}
}

func TestSearch_CallerCancelPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	c := NewClient(&Config{BaseURL: server.URL})
	_, err := c.Search(ctx, "x", 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrSourceTimeout) || errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatal("caller abort must not classify as a source failure")
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	if err := c.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestSearch_TrailingSlashBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL + "/"})
	if _, err := c.Search(context.Background(), "x", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
