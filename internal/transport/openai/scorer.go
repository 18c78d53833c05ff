package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	"github.com/kailas-cloud/paperdex/internal/metrics"
)

// DefaultModel is used when the config names no model.
const DefaultModel = "gpt-4o-mini"

// Assessment is the model's judgement of one paper, decoded from its
// strict-JSON answer.
type Assessment struct {
	ImpactScore          float64 `json:"impact_score"`
	ReproducibilityScore float64 `json:"reproducibility_score"`
	Difficulty           string  `json:"difficulty"`
	HasCode              bool    `json:"has_code"`
}

// Scorer derives catalog quality signals from a paper's title and abstract
// via an OpenAI-compatible chat completion (e.g. OpenAI, Nebius).
type Scorer struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the scoring provider settings.
type Config struct {
	APIKey   string
	BaseURL  string // empty: api.openai.com
	Model    string
	Provider string // metrics label, default "openai"
	Logger   *zap.Logger
}

// NewScorer creates an OpenAI-compatible scoring provider.
func NewScorer(cfg *Config) *Scorer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		provider: provider,
		logger:   logger,
	}
}

const systemPrompt = `You assess research papers from title and abstract alone.
Answer with a single JSON object and nothing else:
{"impact_score": <0-10>, "reproducibility_score": <0-10>, "difficulty": "beginner"|"intermediate"|"advanced", "has_code": <true if the abstract mentions released code, a repository, or an implementation>}`

// Score asks the model to assess one paper. All provider and decode
// failures are wrapped with domain.ErrEnrichmentProviderError so callers
// fall back to neutral defaults on a single errors.Is check.
func (s *Scorer) Score(ctx context.Context, title, abstract string) (Assessment, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Title: " + title + "\n\nAbstract: " + abstract},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: 128,
	}

	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EnrichmentRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		metrics.EnrichmentErrorsTotal.WithLabelValues(s.provider, s.model, "api_error").Inc()
		return Assessment{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.EnrichmentRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		metrics.EnrichmentErrorsTotal.WithLabelValues(s.provider, s.model, "empty_response").Inc()
		return Assessment{}, fmt.Errorf("empty completion response: %w", domain.ErrEnrichmentProviderError)
	}

	var a Assessment
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &a); err != nil {
		metrics.EnrichmentRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		metrics.EnrichmentErrorsTotal.WithLabelValues(s.provider, s.model, "bad_json").Inc()
		return Assessment{}, fmt.Errorf("parse assessment json: %w", domain.ErrEnrichmentProviderError)
	}
	normalize(&a)

	metrics.EnrichmentRequestsTotal.WithLabelValues(s.provider, s.model, "success").Inc()
	metrics.EnrichmentRequestDuration.WithLabelValues(s.provider, s.model).Observe(duration.Seconds())

	if tokens := resp.Usage.TotalTokens; tokens > 0 {
		metrics.EnrichmentTokensTotal.WithLabelValues(s.provider, s.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.EnrichmentTokensTotal.WithLabelValues(s.provider, s.model, "total").Add(float64(tokens))
	}

	return a, nil
}

// normalize repairs answers that stray outside the documented ranges:
// scores are clamped to [0, 10] and unknown difficulty labels dropped.
func normalize(a *Assessment) {
	a.ImpactScore = clamp(a.ImpactScore, 0, paper.MaxScore)
	a.ReproducibilityScore = clamp(a.ReproducibilityScore, 0, paper.MaxScore)

	a.Difficulty = strings.ToLower(strings.TrimSpace(a.Difficulty))
	if !paper.Difficulty(a.Difficulty).IsValid() {
		a.Difficulty = ""
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *Scorer) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEnrichmentProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrEnrichmentProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("enrichment API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("enrichment API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("enrichment API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("enrichment request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body
// (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
