package aggregate

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/paperdex/internal/domain"
	"github.com/kailas-cloud/paperdex/internal/domain/search/mode"
	"github.com/kailas-cloud/paperdex/internal/domain/search/result"
	"github.com/kailas-cloud/paperdex/internal/metrics"
)

// Source labels shared between logs and metrics.
const (
	sourceSemantic = "semantic"
	sourceKeyword  = "keyword"
)

// Reporter records per-source retrieval outcomes: a latency observation on
// success, a structured warn plus a reason-labeled counter on failure, and
// a single diagnostic entry when both sources settle empty.
type Reporter struct {
	logger *zap.Logger
}

// NewReporter creates a reporter. A nil logger disables log output but
// keeps the metrics.
func NewReporter(logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{logger: logger}
}

func (r *Reporter) requestStarted(m mode.Mode) {
	metrics.SearchRequestsTotal.WithLabelValues(string(m)).Inc()
}

func (r *Reporter) sourceSucceeded(source string, elapsed time.Duration) {
	metrics.RetrievalSourceDuration.WithLabelValues(source, "success").Observe(elapsed.Seconds())
}

func (r *Reporter) sourceFailed(source string, m mode.Mode, elapsed time.Duration, cause error) {
	metrics.RetrievalSourceDuration.WithLabelValues(source, "error").Observe(elapsed.Seconds())
	metrics.RetrievalFailuresTotal.WithLabelValues(source, failureReason(cause)).Inc()

	r.logger.Warn("retrieval source failed",
		zap.String("source", source),
		zap.String("mode", string(m)),
		zap.Duration("elapsed", elapsed),
		zap.Error(cause),
	)
}

// bothEmpty emits one diagnostic entry distinguishing "no results exist"
// from "pipeline is broken". The generated id lets operators correlate a
// user report with this log line.
func (r *Reporter) bothEmpty(m mode.Mode, semCause, keyCause error, timing result.Timing) {
	fields := []zap.Field{
		zap.String("diagnostic_id", uuid.NewString()),
		zap.String("mode", string(m)),
		zap.Int64("semantic_ms", timing.SemanticMS),
		zap.Int64("keyword_ms", timing.KeywordMS),
	}
	if semCause != nil {
		fields = append(fields, zap.NamedError("semantic_cause", semCause))
	}
	if keyCause != nil {
		fields = append(fields, zap.NamedError("keyword_cause", keyCause))
	}
	r.logger.Warn("search settled with zero hits from both sources", fields...)
}

// failureReason labels a source failure for metrics.
func failureReason(err error) string {
	if errors.Is(err, domain.ErrSourceTimeout) {
		return "timeout"
	}
	return "upstream"
}
