// Optional LLM enrichment stage. Derives impact and reproducibility
// scores, difficulty, and a has-code flag from title plus abstract
// through an OpenAI-compatible chat endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/kailas-cloud/paperdex"
	openaiScore "github.com/kailas-cloud/paperdex/internal/transport/openai"
)

const enrichTimeout = 30 * time.Second

// enricher scores papers concurrently through a worker pool. Pool size
// caps in-flight provider calls independently of the ingest worker count.
type enricher struct {
	scorer  *openaiScore.Scorer
	pool    *ants.Pool
	metrics *loaderMetrics
	timeout time.Duration
}

func newEnricher(workers int, metrics *loaderMetrics) (*enricher, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("enrichment requires OPENAI_API_KEY")
	}

	scorer := openaiScore.NewScorer(&openaiScore.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   os.Getenv("ENRICH_MODEL"),
	})

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create enrich pool: %w", err)
	}

	return &enricher{
		scorer:  scorer,
		pool:    pool,
		metrics: metrics,
		timeout: enrichTimeout,
	}, nil
}

// HealthCheck verifies the provider answers before ingest starts.
func (e *enricher) HealthCheck(ctx context.Context) error {
	return e.scorer.HealthCheck(ctx)
}

// EnrichBatch scores every paper in place and returns when the whole
// batch is done. A failed assessment leaves the record with neutral
// defaults; the batch itself always proceeds to ingest.
func (e *enricher) EnrichBatch(ctx context.Context, papers []paperdex.Paper) {
	var wg sync.WaitGroup
	for i := range papers {
		wg.Add(1)
		p := &papers[i]
		if err := e.pool.Submit(func() {
			defer wg.Done()
			e.enrichOne(ctx, p)
		}); err != nil {
			wg.Done()
			e.metrics.enrichFailures.Inc()
		}
	}
	wg.Wait()
}

func (e *enricher) enrichOne(ctx context.Context, p *paperdex.Paper) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	a, err := e.scorer.Score(callCtx, p.Title, p.Summary)
	if err != nil {
		e.metrics.enrichFailures.Inc()
		log.Printf("enrich %s: %v", p.ID, err)
		return
	}

	p.ImpactScore = a.ImpactScore
	p.ReproducibilityScore = a.ReproducibilityScore
	p.Difficulty = a.Difficulty
	if a.HasCode {
		p.HasCode = true
	}
}

func (e *enricher) Close() {
	e.pool.Release()
}
