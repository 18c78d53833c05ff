package papers

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/arxiv"
	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
)

// Service handles catalog reads for the API and writes for the loader.
type Service struct {
	repo Repository
}

// New creates a papers service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Listing is one page of the catalog plus browse bookkeeping.
type Listing struct {
	Items   []paper.Paper
	Total   int
	HasMore bool
}

// Get fetches one paper. The identifier may arrive in any surface form
// (versioned token, abs/pdf locator); it is canonicalized before lookup
// so all forms resolve to the same record.
func (s *Service) Get(ctx context.Context, id string) (paper.Paper, error) {
	canonical := arxiv.Normalize(id)
	if canonical == "" {
		return paper.Paper{}, fmt.Errorf("%w: empty identifier", domain.ErrPaperNotFound)
	}

	p, err := s.repo.Get(ctx, canonical)
	if err != nil {
		return paper.Paper{}, fmt.Errorf("get paper: %w", err)
	}
	return p, nil
}

// List returns one page of the catalog matching the query's filters.
func (s *Service) List(ctx context.Context, q query.Query, offset int) (Listing, error) {
	if offset < 0 {
		return Listing{}, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidQuery)
	}

	items, total, err := s.repo.Find(ctx, q, offset, q.Limit())
	if err != nil {
		return Listing{}, fmt.Errorf("list papers: %w", err)
	}

	return Listing{
		Items:   items,
		Total:   total,
		HasMore: offset+len(items) < total,
	}, nil
}

// Upsert writes one paper record.
func (s *Service) Upsert(ctx context.Context, p paper.Paper) error {
	if p.IsZero() {
		return fmt.Errorf("upsert paper: empty record")
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert paper: %w", err)
	}
	return nil
}

// UpsertBatch writes a batch of paper records in one round-trip.
func (s *Service) UpsertBatch(ctx context.Context, ps []paper.Paper) error {
	for i := range ps {
		if ps[i].IsZero() {
			return fmt.Errorf("upsert batch: empty record at %d", i)
		}
	}
	if err := s.repo.UpsertBatch(ctx, ps); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// Count returns the number of indexed papers.
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count papers: %w", err)
	}
	return count, nil
}

// EnsureIndex creates the search index when missing. Safe to call on
// every startup.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if err := s.repo.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Reset drops the search index and purges all paper keys.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("reset catalog: %w", err)
	}
	return nil
}
