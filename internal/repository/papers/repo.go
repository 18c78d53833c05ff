package papers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/paperdex/internal/db"
	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
)

// store is the consumer interface for paper records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	SearchPage(ctx context.Context, q *db.PageQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
}

// Repo implements usecase paper storage over Redis hashes plus one
// FT.SEARCH index.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a paper repository. An empty keyPrefix falls back to the
// default namespace.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Get returns a paper by its canonical ID.
func (r *Repo) Get(ctx context.Context, id string) (paper.Paper, error) {
	key := r.paperKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return paper.Paper{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	// HGETALL on a missing key returns an empty map, not an error.
	if len(fields) == 0 {
		return paper.Paper{}, domain.ErrPaperNotFound
	}
	return parseHashFields(id, fields), nil
}

// Find runs the translated query against the paper index and returns one
// page plus the total match count. Offset and limit are explicit so
// callers can over-fetch beyond the query's own page size.
func (r *Repo) Find(ctx context.Context, q query.Query, offset, limit int) ([]paper.Paper, int, error) {
	pq := &db.PageQuery{
		IndexName: r.indexName(),
		Filters:   q.Filters(),
		SortBy:    sortField(q.Sort()),
		SortDesc:  true,
		Offset:    offset,
		Limit:     limit,
	}
	if q.HasText() {
		pq.Text = q.Text()
		pq.TextFields = []string{fieldTitle, fieldSummary}
	}

	result, err := r.store.SearchPage(ctx, pq)
	if err != nil {
		return nil, 0, fmt.Errorf("search papers: %w", err)
	}

	found := make([]paper.Paper, 0, len(result.Entries))
	for _, entry := range result.Entries {
		id := strings.TrimPrefix(entry.Key, r.paperKeyPrefix())
		found = append(found, parseHashFields(id, entry.Fields))
	}
	return found, result.Total, nil
}

// Upsert writes a paper record. HSET creates or overwrites field-by-field.
func (r *Repo) Upsert(ctx context.Context, p paper.Paper) error {
	fields, err := buildHashFields(&p)
	if err != nil {
		return fmt.Errorf("encode paper %s: %w", p.ID(), err)
	}
	key := r.paperKey(p.ID())
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// UpsertBatch writes papers in one pipelined round-trip.
func (r *Repo) UpsertBatch(ctx context.Context, ps []paper.Paper) error {
	if len(ps) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(ps))
	for i := range ps {
		fields, err := buildHashFields(&ps[i])
		if err != nil {
			return fmt.Errorf("encode paper %s: %w", ps[i].ID(), err)
		}
		items = append(items, db.HashSetItem{Key: r.paperKey(ps[i].ID()), Fields: fields})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset batch of %d: %w", len(items), err)
	}
	return nil
}

// Count returns the number of indexed papers.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count papers: %w", err)
	}
	return n, nil
}

// EnsureIndex creates the paper search index. An existing index is success.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	err := r.store.CreateIndex(ctx, buildIndex(r.keyPrefix))
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.indexName(), err)
	}
	return nil
}

// Reset drops the index and purges all paper keys. Used by the loader's
// -reset flag.
func (r *Repo) Reset(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.indexName()); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.indexName(), err)
	}

	keys, err := r.store.Scan(ctx, r.paperKeyPrefix()+"*")
	if err != nil {
		return fmt.Errorf("scan paper keys: %w", err)
	}
	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("del %s: %w", key, err)
		}
	}
	return nil
}

func (r *Repo) paperKey(id string) string {
	return r.paperKeyPrefix() + id
}

func (r *Repo) paperKeyPrefix() string {
	return paperKeyPrefix(r.keyPrefix)
}

func (r *Repo) indexName() string {
	return indexName(r.keyPrefix)
}

func sortField(s query.Sort) string {
	if s == query.SortCitations {
		return fieldCitations
	}
	return fieldPublishedAt
}
