package paperdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/paperdex/internal/db"
	dbRedis "github.com/kailas-cloud/paperdex/internal/db/redis"
	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
	lexicalrepo "github.com/kailas-cloud/paperdex/internal/repository/lexical"
	papersrepo "github.com/kailas-cloud/paperdex/internal/repository/papers"
	"github.com/kailas-cloud/paperdex/internal/transport/semantic"
	aggregateuc "github.com/kailas-cloud/paperdex/internal/usecase/aggregate"
	papersuc "github.com/kailas-cloud/paperdex/internal/usecase/papers"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the embedded paperdex entry point. It talks to the paper store
// directly, without going through the HTTP API.
type Client struct {
	store     db.Store
	papersSvc *papersuc.Service
	aggSvc    *aggregateuc.Service
}

// New creates a paperdex Client and connects to the database.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("paperdex: database address required (use WithRedis)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("paperdex: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("paperdex: create redis store: %w", err)
	}
	return s, nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	paperRepo := papersrepo.New(store, cfg.keyPrefix)
	keywordSource := lexicalrepo.New(paperRepo, cfg.keywordTimeout)

	// Semantic source: noop unless configured. Hybrid searches then settle
	// as keyword-only degradation instead of erroring out.
	var semanticSource aggregateuc.SemanticSource = noopSemantic{}
	if cfg.semanticURL != "" {
		semanticSource = semantic.NewClient(&semantic.Config{
			BaseURL:  cfg.semanticURL,
			APIKey:   cfg.semanticAPIKey,
			Timeout:  cfg.semanticTimeout,
			FastMode: cfg.fastMode,
			Logger:   cfg.logger,
		})
	}

	return &Client{
		store:     store,
		papersSvc: papersuc.New(paperRepo),
		aggSvc:    aggregateuc.New(semanticSource, keywordSource, aggregateuc.NewReporter(cfg.logger)),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Papers returns the catalog service.
func (c *Client) Papers() *PapersService {
	return &PapersService{svc: c.papersSvc}
}

// Search runs one aggregated search across both retrieval sources.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	q, err := req.toQuery()
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}

	res, err := c.aggSvc.Search(ctx, q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromDomainResult(&res), nil
}

// noopSemantic fails every retrieval (used when no semantic service is
// configured). The aggregator degrades such searches to keyword results.
type noopSemantic struct{}

func (noopSemantic) Search(_ context.Context, _ string, _ int) ([]hit.Hit, error) {
	return nil, fmt.Errorf(
		"%w: semantic service not configured (use WithSemanticService)",
		domain.ErrSourceUnavailable,
	)
}
