package paperdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	papersuc "github.com/kailas-cloud/paperdex/internal/usecase/papers"
)

// PapersService manages the paper catalog.
type PapersService struct {
	svc *papersuc.Service
}

// Get retrieves one paper by arXiv identifier. Any surface form works
// (versioned id, abs/pdf URL, old-style slashed id); all of them resolve
// to the same canonical record.
func (s *PapersService) Get(ctx context.Context, id string) (Paper, error) {
	p, err := s.svc.Get(ctx, id)
	if err != nil {
		return Paper{}, fmt.Errorf("get paper: %w", err)
	}
	return fromDomainPaper(&p), nil
}

// List returns one filtered catalog page.
func (s *PapersService) List(ctx context.Context, req ListRequest) (PaperList, error) {
	q, err := req.toQuery()
	if err != nil {
		return PaperList{}, fmt.Errorf("list papers: %w", err)
	}

	listing, err := s.svc.List(ctx, q, req.Offset)
	if err != nil {
		return PaperList{}, fmt.Errorf("list papers: %w", err)
	}

	items := make([]Paper, len(listing.Items))
	for i := range listing.Items {
		items[i] = fromDomainPaper(&listing.Items[i])
	}
	return PaperList{Items: items, Total: listing.Total, HasMore: listing.HasMore}, nil
}

// Upsert writes one paper record.
func (s *PapersService) Upsert(ctx context.Context, p Paper) error {
	dp, err := toDomainPaper(p)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return s.svc.Upsert(ctx, dp)
}

// UpsertBatch writes paper records in one round-trip.
func (s *PapersService) UpsertBatch(ctx context.Context, ps []Paper) error {
	records := make([]paper.Paper, len(ps))
	for i := range ps {
		var err error
		records[i], err = toDomainPaper(ps[i])
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return s.svc.UpsertBatch(ctx, records)
}

// Count returns the number of indexed papers.
func (s *PapersService) Count(ctx context.Context) (int, error) {
	return s.svc.Count(ctx)
}

// EnsureIndex creates the catalog search index if it does not exist.
// Safe to call on every startup.
func (s *PapersService) EnsureIndex(ctx context.Context) error {
	return s.svc.EnsureIndex(ctx)
}

// Reset drops the search index and purges every stored paper. Meant for
// batch reloads, not production traffic.
func (s *PapersService) Reset(ctx context.Context) error {
	return s.svc.Reset(ctx)
}
