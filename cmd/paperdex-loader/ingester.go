// Worker pool that streams parquet rows into the paper catalog.
// Reader → channel(batchItem) → N workers → UpsertBatch → Redis.
package main

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/paperdex"
)

// ingester fans batches out to upsert workers.
type ingester struct {
	papers    *paperdex.PapersService
	enricher  *enricher // nil when enrichment is off
	workers   int
	batchSize int
	metrics   *loaderMetrics
	cursor    *cursorTracker
}

// batchItem is one batch for a worker, tagged with the cursor position
// reached once it lands.
type batchItem struct {
	papers    []paperdex.Paper
	fileIndex int
	rowOffset int
}

// ingestResult sums up one ingest run.
type ingestResult struct {
	Processed int64
	Failed    int64
	Duration  time.Duration
}

// Run drives the pipeline: reader → workers → Redis.
func (ing *ingester) Run(ctx context.Context, reader *parquetReader, maxRows int) (ingestResult, error) {
	cur := ing.cursor.Get()

	batches := make(chan batchItem, ing.workers*2)
	var wg sync.WaitGroup
	var totalProcessed, totalFailed atomic.Int64

	start := time.Now()

	for i := 0; i < ing.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			ing.worker(ctx, workerID, batches, &totalProcessed, &totalFailed)
		}(i)
	}

	var readerErr error
	go func() {
		defer close(batches)
		readerErr = ing.produce(ctx, reader, cur.FileIndex, cur.RowOffset, maxRows, batches)
	}()

	wg.Wait()

	result := ingestResult{
		Processed: totalProcessed.Load(),
		Failed:    totalFailed.Load(),
		Duration:  time.Since(start),
	}
	if readerErr != nil {
		return result, readerErr
	}
	return result, nil
}

// produce reads parquet rows and assembles batches.
func (ing *ingester) produce(
	ctx context.Context,
	reader *parquetReader,
	fileIndex, rowOffset, maxRows int,
	out chan<- batchItem,
) error {
	var batch []paperdex.Paper
	currentFile := fileIndex
	currentRow := rowOffset

	err := reader.ReadPapers(fileIndex, rowOffset, maxRows,
		func(row *arxivRow, fi, rowNum int) bool {
			select {
			case <-ctx.Done():
				return false
			default:
			}

			if fi != currentFile && len(batch) > 0 {
				// Flush before crossing a shard boundary so every batch
				// maps to a single (fileIndex, rowOffset) pair.
				out <- batchItem{
					papers:    batch,
					fileIndex: currentFile,
					rowOffset: currentRow,
				}
				batch = make([]paperdex.Paper, 0, ing.batchSize)
			}
			currentFile = fi
			currentRow = rowNum + 1

			p, ok := toPaper(row)
			if !ok {
				ing.metrics.rowsFailed.WithLabelValues("invalid_row").Inc()
				return true
			}

			batch = append(batch, p)

			if len(batch) >= ing.batchSize {
				out <- batchItem{
					papers:    batch,
					fileIndex: currentFile,
					rowOffset: currentRow,
				}
				batch = make([]paperdex.Paper, 0, ing.batchSize)
			}
			return true
		})

	if len(batch) > 0 {
		out <- batchItem{
			papers:    batch,
			fileIndex: currentFile,
			rowOffset: currentRow,
		}
	}

	return err
}

// worker drains batches from the channel.
func (ing *ingester) worker(
	ctx context.Context,
	id int,
	batches <-chan batchItem,
	processed, failed *atomic.Int64,
) {
	for batch := range batches {
		ing.processBatch(ctx, id, batch, processed, failed)
	}
}

func (ing *ingester) processBatch(
	ctx context.Context,
	id int,
	batch batchItem,
	processed, failed *atomic.Int64,
) {
	if ing.enricher != nil {
		ing.enricher.EnrichBatch(ctx, batch.papers)
	}

	start := time.Now()

	err := ing.papers.UpsertBatch(ctx, batch.papers)

	ing.metrics.batchDuration.Observe(time.Since(start).Seconds())
	ing.metrics.batchesTotal.Inc()

	if err != nil {
		log.Printf("worker %d: batch upsert error: %v", id, err)
		failed.Add(int64(len(batch.papers)))
		ing.metrics.rowsFailed.WithLabelValues("batch_error").Add(float64(len(batch.papers)))
		return
	}

	processed.Add(int64(len(batch.papers)))
	ing.metrics.rowsProcessed.Add(float64(len(batch.papers)))

	ing.cursor.Advance(batch.fileIndex, batch.rowOffset, len(batch.papers), 0)
	ing.metrics.cursorPosition.Set(float64(batch.rowOffset))

	total := processed.Load()
	if total%10000 < int64(ing.batchSize) {
		log.Printf("papers: %d processed, %d failed", total, failed.Load())
	}
}
