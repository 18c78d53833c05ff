package lexical

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
)

// DefaultTimeout bounds a single keyword retrieval.
const DefaultTimeout = 8 * time.Second

// finder is the consumer interface onto the paper repository (ISP).
type finder interface {
	Find(ctx context.Context, q query.Query, offset, limit int) ([]paper.Paper, int, error)
}

// Source adapts the paper store into a keyword retrieval source. It always
// runs, even for empty query text (filter-only browsing).
type Source struct {
	finder  finder
	timeout time.Duration
}

// New creates a keyword source. A non-positive timeout falls back to the
// default.
func New(f finder, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Source{finder: f, timeout: timeout}
}

// Fetch retrieves one keyword page under the source's own deadline. It
// requests double the query's page size so post-deduplication shrinkage
// still leaves a full page, and carries the store's total match count.
func (s *Source) Fetch(ctx context.Context, q query.Query) (hit.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fetchSize := 2 * q.Limit()
	found, total, err := s.finder.Find(ctx, q, 0, fetchSize)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// Caller abort is not a source failure.
			return hit.Page{}, err
		case errors.Is(err, context.DeadlineExceeded):
			return hit.Page{}, fmt.Errorf("%w: keyword search exceeded %s", domain.ErrSourceTimeout, s.timeout)
		default:
			return hit.Page{}, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
	}

	hits := make([]hit.Hit, 0, len(found))
	for i := range found {
		hits = append(hits, hit.NewThick(found[i]))
	}

	return hit.Page{
		Hits:    hits,
		Total:   total,
		HasMore: total > len(hits),
	}, nil
}
