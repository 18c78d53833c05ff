// arXiv metadata ingest pipeline for paperdex.
// Downloads parquet shards from the Hugging Face Hub, optionally enriches
// records through an OpenAI-compatible endpoint, and loads them into Redis
// through the paperdex client. Supports resume, parallel upserts, and
// Prometheus metrics.
//
// Usage:
//
//	paperdex-loader -data-dir /data -max-rows 1000000 -workers 8
//
// Env vars:
//
//	REDIS_ADDR      — Redis address (default: localhost:6379)
//	REDIS_PASSWORD  — Redis password
//	HF_TOKEN        — Hugging Face API token (higher rate limits)
//	OPENAI_API_KEY  — enrichment provider key (required with -enrich)
//	OPENAI_BASE_URL — enrichment endpoint (default: api.openai.com)
//	ENRICH_MODEL    — enrichment model (default: gpt-4o-mini)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/paperdex"
	"github.com/kailas-cloud/paperdex/internal/metrics"
	"github.com/kailas-cloud/paperdex/internal/version"
)

func main() {
	cfg := parseFlags()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		cancel()
		log.Fatal(err)
	}
}

type config struct {
	dataDir        string
	maxRows        int
	maxFiles       int
	workers        int
	batchSize      int
	enrich         bool
	enrichWorkers  int
	metricsPort    string
	cursorInterval int
	reset          bool
	skipDownload   bool
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.dataDir, "data-dir", "/data", "directory for parquet shards")
	flag.IntVar(&cfg.maxRows, "max-rows", 1_000_000, "max papers to load (0=unlimited)")
	flag.IntVar(&cfg.maxFiles, "max-files", 2, "max parquet shards to download (0=all)")
	flag.IntVar(&cfg.workers, "workers", 8, "number of parallel upsert workers")
	flag.IntVar(&cfg.batchSize, "batch-size", 100, "papers per batch upsert")
	flag.BoolVar(&cfg.enrich, "enrich", false, "score papers through the LLM before ingest")
	flag.IntVar(&cfg.enrichWorkers, "enrich-workers", 16, "concurrent enrichment calls")
	flag.StringVar(&cfg.metricsPort, "metrics-port", "9090", "Prometheus metrics port")
	flag.IntVar(&cfg.cursorInterval, "cursor-interval", 10000, "save cursor every N rows")
	flag.BoolVar(&cfg.reset, "reset", false, "drop the catalog and cursor, start from scratch")
	flag.BoolVar(&cfg.skipDownload, "skip-download", false, "reuse parquet shards already on disk")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg config) error {
	start := time.Now()

	runID := uuid.NewString()
	log.SetPrefix(runID[:8] + " ")
	log.Printf("paperdex-loader %s, run %s", version.Human(), runID)

	reg := prometheus.NewRegistry()
	m := newLoaderMetrics(reg)
	if cfg.enrich {
		metrics.RegisterEnrichmentMetrics(reg)
	}
	metricsSrv := serveMetrics(cfg.metricsPort, reg)
	defer func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = metricsSrv.Shutdown(shutCtx)
	}()

	addr := env("REDIS_ADDR", "localhost:6379")
	password := env("REDIS_PASSWORD", "")

	redisClient, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
		Password:    password,
	})
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	defer redisClient.Close()

	cursor, err := newCursorTracker(ctx, redisClient, cfg.cursorInterval, runID)
	if err != nil {
		return fmt.Errorf("cursor: %w", err)
	}

	client, err := paperdex.New(ctx, paperdex.WithRedis(addr, password))
	if err != nil {
		return fmt.Errorf("paperdex connect: %w", err)
	}
	defer client.Close()

	if cfg.reset {
		if err := client.Papers().Reset(ctx); err != nil {
			return fmt.Errorf("reset catalog: %w", err)
		}
		cursor.Reset()
		log.Println("catalog and cursor reset, starting from scratch")
	}

	if err := stageDownload(cfg, cursor, m); err != nil {
		return err
	}

	startStatsPoller(ctx, redisClient, m)

	if err := stageIndex(ctx, client, cursor); err != nil {
		return err
	}

	var enr *enricher
	if cfg.enrich {
		enr, err = newEnricher(cfg.enrichWorkers, m)
		if err != nil {
			return err
		}
		defer enr.Close()
		if err := enr.HealthCheck(ctx); err != nil {
			return fmt.Errorf("enrichment provider: %w", err)
		}
	}

	result, err := stageIngest(ctx, client, cfg, cursor, enr, m)
	if err != nil {
		return err
	}

	stageReport(ctx, client, result, start)
	cursor.Done()

	return nil
}

func stageDownload(cfg config, cursor *cursorTracker, m *loaderMetrics) error {
	log.Println("=== Stage 1: Download ===")
	if cfg.skipDownload {
		log.Println("download: skipping (-skip-download)")
		return nil
	}
	cursor.SetStage("download")

	dl := newDownloader(os.Getenv("HF_TOKEN"), cfg.dataDir, m)
	if err := dl.DownloadPapers(cfg.maxFiles); err != nil {
		return fmt.Errorf("download papers: %w", err)
	}
	return nil
}

func startStatsPoller(ctx context.Context, client rueidis.Client, m *loaderMetrics) {
	poller := &statsPoller{
		client:    client,
		metrics:   m,
		indexName: "paperdex:papers:idx",
		interval:  30 * time.Second,
	}
	poller.Start(ctx)
}

func stageIndex(ctx context.Context, client *paperdex.Client, cursor *cursorTracker) error {
	log.Println("=== Stage 2: Index ===")
	cursor.SetStage("index")

	if err := client.Papers().EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

func stageIngest(
	ctx context.Context,
	client *paperdex.Client,
	cfg config,
	cursor *cursorTracker,
	enr *enricher,
	m *loaderMetrics,
) (ingestResult, error) {
	log.Println("=== Stage 3: Ingest ===")
	cursor.SetStage("ingest")

	reader, err := newParquetReader(filepath.Join(cfg.dataDir, "papers"))
	if err != nil {
		return ingestResult{}, fmt.Errorf("init parquet reader: %w", err)
	}

	ing := &ingester{
		papers:    client.Papers(),
		enricher:  enr,
		workers:   cfg.workers,
		batchSize: cfg.batchSize,
		metrics:   m,
		cursor:    cursor,
	}

	result, err := ing.Run(ctx, reader, cfg.maxRows)
	if err != nil {
		return result, fmt.Errorf("ingest papers: %w", err)
	}
	return result, nil
}

func stageReport(
	ctx context.Context,
	client *paperdex.Client,
	result ingestResult,
	start time.Time,
) {
	log.Println("=== Stage 4: Report ===")

	count, _ := client.Papers().Count(ctx)
	elapsed := time.Since(start)
	rate := float64(result.Processed) / elapsed.Seconds()

	log.Printf("DONE in %s", elapsed.Round(time.Second))
	log.Printf("  papers: %d in catalog (%d processed, %d failed)",
		count, result.Processed, result.Failed)
	log.Printf("  rate: %.0f rows/sec", rate)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
