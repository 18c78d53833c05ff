package papers

import (
	"context"

	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
)

// Repository defines the storage contract for the paper catalog.
type Repository interface {
	Get(ctx context.Context, id string) (paper.Paper, error)
	Find(ctx context.Context, q query.Query, offset, limit int) ([]paper.Paper, int, error)
	Upsert(ctx context.Context, p paper.Paper) error
	UpsertBatch(ctx context.Context, ps []paper.Paper) error
	Count(ctx context.Context) (int, error)
	EnsureIndex(ctx context.Context) error
	Reset(ctx context.Context) error
}
