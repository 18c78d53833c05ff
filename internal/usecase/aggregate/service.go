package aggregate

import (
	"context"
	"time"

	"github.com/kailas-cloud/paperdex/internal/domain/search/hit"
	"github.com/kailas-cloud/paperdex/internal/domain/search/mode"
	"github.com/kailas-cloud/paperdex/internal/domain/search/query"
	"github.com/kailas-cloud/paperdex/internal/domain/search/result"
)

// Service fans one query out to the semantic and keyword sources and
// merges their answers into a single deduplicated result.
type Service struct {
	semantic SemanticSource
	keyword  KeywordSource
	reporter *Reporter
}

// New creates an aggregation service.
func New(semantic SemanticSource, keyword KeywordSource, reporter *Reporter) *Service {
	return &Service{semantic: semantic, keyword: keyword, reporter: reporter}
}

// Settle envelopes. Buffered channels sized 1 guarantee the source
// goroutines never block on send, even after caller abort.
type semanticOutcome struct {
	hits    []hit.Hit
	err     error
	elapsed time.Duration
}

type keywordOutcome struct {
	page    hit.Page
	err     error
	elapsed time.Duration
}

// Search runs both sources concurrently and awaits both, regardless of
// individual success or failure. A failed source is reported and treated
// as empty; the only error return is caller cancellation.
func (s *Service) Search(ctx context.Context, q query.Query) (result.Result, error) {
	started := time.Now()
	searchMode := mode.Derive(q.HasText())
	s.reporter.requestStarted(searchMode)

	semCh := make(chan semanticOutcome, 1)
	keyCh := make(chan keywordOutcome, 1)

	// The semantic source needs query text; keyword-only requests skip it
	// and report zero elapsed.
	if searchMode == mode.Hybrid {
		go func() {
			t := time.Now()
			hits, err := s.semantic.Search(ctx, q.Text(), q.Limit())
			semCh <- semanticOutcome{hits: hits, err: err, elapsed: time.Since(t)}
		}()
	} else {
		semCh <- semanticOutcome{}
	}

	go func() {
		t := time.Now()
		page, err := s.keyword.Fetch(ctx, q)
		keyCh <- keywordOutcome{page: page, err: err, elapsed: time.Since(t)}
	}()

	sem := <-semCh
	key := <-keyCh

	if err := ctx.Err(); err != nil {
		return result.Result{}, err
	}

	semHits := sem.hits
	if sem.err != nil {
		s.reporter.sourceFailed(sourceSemantic, searchMode, sem.elapsed, sem.err)
		semHits = nil
	} else if searchMode == mode.Hybrid {
		s.reporter.sourceSucceeded(sourceSemantic, sem.elapsed)
	}

	keyPage := key.page
	if key.err != nil {
		s.reporter.sourceFailed(sourceKeyword, searchMode, key.elapsed, key.err)
		keyPage = hit.Page{}
	} else {
		s.reporter.sourceSucceeded(sourceKeyword, key.elapsed)
	}

	semantic, keyword := merge(semHits, keyPage.Hits, q.Limit())

	timing := result.Timing{
		SemanticMS: sem.elapsed.Milliseconds(),
		KeywordMS:  key.elapsed.Milliseconds(),
		TotalMS:    time.Since(started).Milliseconds(),
	}

	res := result.New(semantic, keyword, len(semHits), keyPage.Total, timing, searchMode)
	if res.IsEmpty() {
		s.reporter.bothEmpty(searchMode, sem.err, key.err, timing)
	}
	return res, nil
}

// merge deduplicates the two lists with semantic priority and enriches
// thin semantic hits from their keyword twins.
//
// A keyword hit whose id already appears in the semantic list is dropped
// (the semantic list is pre-ranked by relevance, so it owns shared ids),
// but its full record first replaces the thin fields of the matching
// semantic hit. Both lists keep their incoming order. Each list is then
// capped at its candidate budget, a no-op unless an upstream over-returns
// its requested count.
func merge(semantic, keyword []hit.Hit, limit int) ([]hit.Hit, []hit.Hit) {
	if len(semantic) == 0 && len(keyword) == 0 {
		return nil, nil
	}

	position := make(map[string]int, len(semantic))
	for i := range semantic {
		if _, ok := position[semantic[i].ID()]; !ok {
			position[semantic[i].ID()] = i
		}
	}

	enriched := make([]hit.Hit, len(semantic))
	copy(enriched, semantic)

	kept := make([]hit.Hit, 0, len(keyword))
	for _, kh := range keyword {
		i, shared := position[kh.ID()]
		if !shared {
			kept = append(kept, kh)
			continue
		}
		if p := kh.Paper(); p != nil {
			enriched[i] = enriched[i].Enrich(*p)
		}
	}

	if len(enriched) > limit {
		enriched = enriched[:limit]
	}
	if budget := 2 * limit; len(kept) > budget {
		kept = kept[:budget]
	}
	return enriched, kept
}
