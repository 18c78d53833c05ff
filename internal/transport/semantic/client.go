package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
)

// DefaultTimeout bounds a single semantic retrieval.
const DefaultTimeout = 10 * time.Second

// Client talks to the semantic search service (natural-language retrieval
// over a pre-built embedding corpus).
type Client struct {
	baseURL  string
	apiKey   string
	timeout  time.Duration
	fastMode bool
	httpc    *http.Client
	logger   *zap.Logger
}

// Config holds the semantic service settings.
type Config struct {
	BaseURL  string
	APIKey   string // optional bearer key
	Timeout  time.Duration
	FastMode bool
	Logger   *zap.Logger
}

// NewClient creates a semantic service client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		timeout:  timeout,
		fastMode: cfg.FastMode,
		httpc:    &http.Client{},
		logger:   logger,
	}
}

type searchRequest struct {
	Description string `json:"description"`
	TopK        int    `json:"top_k"`
	FastMode    bool   `json:"fast_mode"`
}

type searchResponse struct {
	Results  []searchResultEntry `json:"results"`
	Fallback bool                `json:"fallback"`
}

type searchResultEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Search retrieves ranked semantic matches for a natural-language
// description under the client's own deadline. Returned hits are thin
// (identifiers canonicalized, title + summary only) in upstream relevance
// order. A fallback-quality answer is still valid data.
func (c *Client) Search(ctx context.Context, text string, topK int) ([]hit.Hit, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(searchRequest{
		Description: text,
		TopK:        topK,
		FastMode:    c.fastMode,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal semantic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build semantic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: semantic service returned %d: %s",
			domain.ErrSourceUnavailable, resp.StatusCode, readSnippet(resp.Body))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode semantic response: %w", domain.ErrSourceUnavailable, err)
	}

	if decoded.Fallback {
		c.logger.Warn("semantic service answered in fallback mode",
			zap.Int("results", len(decoded.Results)))
	}

	hits := make([]hit.Hit, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		hits = append(hits, hit.NewThin(r.ID, r.Title, r.Summary))
	}
	return hits, nil
}

// HealthCheck probes the semantic service availability.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("semantic health probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("semantic health probe returned %d", resp.StatusCode)
	}
	return nil
}

// classifyTransportError maps low-level transport failures onto the source
// sentinels. Caller abort passes through untouched.
func (c *Client) classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var urlErr *url.Error
	timedOut := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &urlErr) && urlErr.Timeout())
	if timedOut {
		return fmt.Errorf("%w: semantic search exceeded %s", domain.ErrSourceTimeout, c.timeout)
	}

	return fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
}

// readSnippet drains at most 512 bytes of an error body for diagnostics.
func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
