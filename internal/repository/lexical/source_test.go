package lexical

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/paper"
	"github.com/kailas-cloud/paperdex/internal/domain/search/filter"
	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
)

type mockFinder struct {
	findFn func(ctx context.Context, q query.Query, offset, limit int) ([]paper.Paper, int, error)
}

func (m *mockFinder) Find(ctx context.Context, q query.Query, offset, limit int) ([]paper.Paper, int, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q, offset, limit)
	}
	return nil, 0, nil
}

func testQuery(t *testing.T, limit int) query.Query {
	t.Helper()
	q, err := query.New("attention", filter.Expression{}, query.SortRecency, limit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return q
}

func testPaper(t *testing.T, id string) paper.Paper {
	t.Helper()
	p, err := paper.New(id, "title "+id, "summary "+id, paper.Meta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestFetch_HappyPath(t *testing.T) {
	mf := &mockFinder{}
	src := New(mf, 0)
	ctx := context.Background()

	mf.findFn = func(_ context.Context, _ query.Query, offset, limit int) ([]paper.Paper, int, error) {
		if offset != 0 {
			t.Errorf("expected offset 0, got %d", offset)
		}
		if limit != 40 {
			t.Errorf("expected double page size 40, got %d", limit)
		}
		return []paper.Paper{testPaper(t, "1706.03762"), testPaper(t, "2401.00001")}, 2, nil
	}

	page, err := src.Fetch(ctx, testQuery(t, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(page.Hits))
	}
	if page.Total != 2 {
		t.Fatalf("expected total 2, got %d", page.Total)
	}
	if page.HasMore {
		t.Fatal("expected no more pages")
	}
	if page.Hits[0].Source() != hit.SourceKeyword {
		t.Fatalf("expected keyword source, got %s", page.Hits[0].Source())
	}
	if !page.Hits[0].IsThick() {
		t.Fatal("keyword hits must carry the full record")
	}
}

func TestFetch_HasMore(t *testing.T) {
	mf := &mockFinder{}
	src := New(mf, 0)

	mf.findFn = func(_ context.Context, _ query.Query, _, limit int) ([]paper.Paper, int, error) {
		found := make([]paper.Paper, 0, limit)
		for i := 0; i < limit; i++ {
			found = append(found, testPaper(t, "2401.0000"+string(rune('1'+i))))
		}
		return found, 500, nil
	}

	page, err := src.Fetch(context.Background(), testQuery(t, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Hits) != 4 {
		t.Fatalf("expected 4 hits, got %d", len(page.Hits))
	}
	if page.Total != 500 {
		t.Fatalf("expected total 500, got %d", page.Total)
	}
	if !page.HasMore {
		t.Fatal("expected more pages")
	}
}

func TestFetch_EmptyIsSuccess(t *testing.T) {
	mf := &mockFinder{}
	src := New(mf, 0)

	mf.findFn = func(_ context.Context, _ query.Query, _, _ int) ([]paper.Paper, int, error) {
		return nil, 0, nil
	}

	page, err := src.Fetch(context.Background(), testQuery(t, 20))
	if err != nil {
		t.Fatalf("empty result must not error: %v", err)
	}
	if len(page.Hits) != 0 || page.Total != 0 || page.HasMore {
		t.Fatalf("expected empty page, got %+v", page)
	}
}

func TestFetch_AppliesDeadline(t *testing.T) {
	mf := &mockFinder{}
	src := New(mf, 3*time.Second)

	mf.findFn = func(ctx context.Context, _ query.Query, _, _ int) ([]paper.Paper, int, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Error("expected a deadline on the fetch context")
		}
		if remaining := time.Until(deadline); remaining > 3*time.Second {
			t.Errorf("deadline too far out: %s", remaining)
		}
		return nil, 0, nil
	}

	if _, err := src.Fetch(context.Background(), testQuery(t, 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetch_TimeoutClassified(t *testing.T) {
	mf := &mockFinder{}
	src := New(mf, time.Second)

	mf.findFn = func(_ context.Context, _ query.Query, _, _ int) ([]paper.Paper, int, error) {
		return nil, 0, context.DeadlineExceeded
	}

	_, err := src.Fetch(context.Background(), testQuery(t, 20))
	if !errors.Is(err, domain.ErrSourceTimeout) {
		t.Fatalf("expected ErrSourceTimeout, got %v", err)
	}
}

func TestFetch_UpstreamClassified(t *testing.T) {
	mf := &mockFinder{}
	src := New(mf, 0)

	mf.findFn = func(_ context.Context, _ query.Query, _, _ int) ([]paper.Paper, int, error) {
		return nil, 0, errors.New("index not ready")
	}

	_, err := src.Fetch(context.Background(), testQuery(t, 20))
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrSourceTimeout) {
		t.Fatal("upstream failure must not classify as timeout")
	}
}

func TestFetch_CallerCancelPropagates(t *testing.T) {
	mf := &mockFinder{}
	src := New(mf, 0)

	mf.findFn = func(_ context.Context, _ query.Query, _, _ int) ([]paper.Paper, int, error) {
		return nil, 0, context.Canceled
	}

	_, err := src.Fetch(context.Background(), testQuery(t, 20))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrSourceUnavailable) || errors.Is(err, domain.ErrSourceTimeout) {
		t.Fatal("caller abort must not classify as a source failure")
	}
}
