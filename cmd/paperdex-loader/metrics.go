// Prometheus metrics for the corpus loader.
// Ingest progress, batch latency, Redis memory, index size.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/rueidis"
)

// loaderMetrics holds every loader Prometheus metric.
type loaderMetrics struct {
	rowsProcessed  prometheus.Counter
	rowsFailed     *prometheus.CounterVec
	batchesTotal   prometheus.Counter
	batchDuration  prometheus.Histogram
	enrichFailures prometheus.Counter

	downloadBytes prometheus.Counter

	cursorPosition prometheus.Gauge

	redisMemory *prometheus.GaugeVec
	indexSize   *prometheus.GaugeVec
	indexDocs   prometheus.Gauge
}

func newLoaderMetrics(reg prometheus.Registerer) *loaderMetrics {
	m := &loaderMetrics{
		rowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperdex_loader",
			Name:      "rows_processed_total",
			Help:      "Total rows successfully ingested",
		}),

		rowsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperdex_loader",
			Name:      "rows_failed_total",
			Help:      "Total rows failed",
		}, []string{"reason"}),

		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperdex_loader",
			Name:      "batches_total",
			Help:      "Total batches sent",
		}),

		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "paperdex_loader",
			Name:      "batch_duration_seconds",
			Help:      "Batch upsert duration",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		enrichFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperdex_loader",
			Name:      "enrich_failures_total",
			Help:      "Rows ingested with neutral defaults after enrichment failure",
		}),

		downloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperdex_loader",
			Name:      "download_bytes_total",
			Help:      "Total bytes downloaded from Hugging Face",
		}),

		cursorPosition: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "paperdex_loader",
			Name:      "cursor_position",
			Help:      "Current cursor row offset",
		}),

		redisMemory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "paperdex_loader",
			Name:      "redis_memory_bytes",
			Help:      "Redis memory usage",
		}, []string{"type"}),

		indexSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "paperdex_loader",
			Name:      "index_size_bytes",
			Help:      "FT.INFO component sizes",
		}, []string{"component"}),

		indexDocs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "paperdex_loader",
			Name:      "index_docs_total",
			Help:      "Number of documents in the paper index",
		}),
	}

	reg.MustRegister(
		m.rowsProcessed, m.rowsFailed,
		m.batchesTotal, m.batchDuration,
		m.enrichFailures, m.downloadBytes,
		m.cursorPosition,
		m.redisMemory, m.indexSize, m.indexDocs,
	)

	return m
}

// serveMetrics starts the HTTP endpoint for Prometheus scrapes.
func serveMetrics(port string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("metrics server on :%s/metrics", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	return srv
}

// statsPoller periodically samples Redis memory and index stats.
type statsPoller struct {
	client    rueidis.Client
	metrics   *loaderMetrics
	indexName string
	interval  time.Duration
}

// Start launches the background goroutine. Stops on ctx.Done().
func (p *statsPoller) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		// First poll right away.
		p.poll(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

func (p *statsPoller) poll(ctx context.Context) {
	p.pollMemory(ctx)
	p.pollIndex(ctx)
}

func (p *statsPoller) pollMemory(ctx context.Context) {
	cmd := p.client.B().Info().Section("memory").Build()
	resp := p.client.Do(ctx, cmd)
	if resp.Error() != nil {
		return
	}
	text, _ := resp.ToString()
	for _, kv := range parseInfoFields(text) {
		switch kv.key {
		case "used_memory":
			p.metrics.redisMemory.WithLabelValues("used").Set(kv.val)
		case "used_memory_peak":
			p.metrics.redisMemory.WithLabelValues("peak").Set(kv.val)
		case "used_memory_rss":
			p.metrics.redisMemory.WithLabelValues("rss").Set(kv.val)
		}
	}
}

func (p *statsPoller) pollIndex(ctx context.Context) {
	cmd := p.client.B().Arbitrary("FT.INFO").Args(p.indexName).Build()
	resp := p.client.Do(ctx, cmd)
	if resp.Error() != nil {
		return
	}

	arr, err := resp.ToArray()
	if err != nil {
		return
	}

	// FT.INFO returns alternating key-value pairs.
	for i := 0; i+1 < len(arr); i += 2 {
		key, _ := arr[i].ToString()
		switch key {
		case "num_docs":
			val, _ := arr[i+1].AsFloat64()
			p.metrics.indexDocs.Set(val)
		case "inverted_sz_mb":
			val, _ := arr[i+1].AsFloat64()
			p.metrics.indexSize.WithLabelValues("inverted").Set(val * 1024 * 1024)
		case "doc_table_size_mb":
			val, _ := arr[i+1].AsFloat64()
			p.metrics.indexSize.WithLabelValues("data").Set(val * 1024 * 1024)
		case "key_table_size_mb":
			val, _ := arr[i+1].AsFloat64()
			p.metrics.indexSize.WithLabelValues("keys").Set(val * 1024 * 1024)
		}
	}
}

type infoField struct {
	key string
	val float64
}

func parseInfoFields(text string) []infoField {
	var fields []infoField
	var line []byte
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			fields = appendInfoField(fields, string(line))
			line = line[:0]
		} else if text[i] != '\r' {
			line = append(line, text[i])
		}
	}
	if len(line) > 0 {
		fields = appendInfoField(fields, string(line))
	}
	return fields
}

func appendInfoField(fields []infoField, line string) []infoField {
	for i := 0; i < len(line); i++ {
		if line[i] == ':' {
			key := line[:i]
			val := parseFloat(line[i+1:])
			return append(fields, infoField{key: key, val: val})
		}
	}
	return fields
}

func parseFloat(s string) float64 {
	var result float64
	var decimal float64
	inDecimal := false
	for _, c := range s {
		if c >= '0' && c <= '9' {
			if inDecimal {
				decimal /= 10
				result += float64(c-'0') * decimal
			} else {
				result = result*10 + float64(c-'0')
			}
		} else if c == '.' {
			inDecimal = true
			decimal = 1
		}
	}
	return result
}
