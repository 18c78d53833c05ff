package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/paperdex/internal/domain"
	aggregateuc "github.com/kailas-cloud/paperdex/internal/usecase/aggregate"
	healthuc "github.com/kailas-cloud/paperdex/internal/usecase/health"
	papersuc "github.com/kailas-cloud/paperdex/internal/usecase/papers"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the paperdex API.
type Server struct {
	aggregate     *aggregateuc.Service
	papers        *papersuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	aggregate *aggregateuc.Service,
	papers *papersuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		aggregate: aggregate,
		papers:    papers,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrPaperNotFound, http.StatusNotFound, errorCodePaperNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, errorCodeValidationFailed),
	}
	return s
}

// Routes registers all API routes on the router. The paper route takes a
// wildcard because old-style identifiers ("math.GT/0309136") carry a slash.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search/hybrid", s.HybridSearch)
		r.Get("/papers", s.ListPapers)
		r.Get("/papers/*", s.GetPaper)
	})
}

// HybridSearch handles POST /api/v1/search/hybrid.
func (s *Server) HybridSearch(w http.ResponseWriter, r *http.Request) {
	var req hybridSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := queryFromSearchRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.aggregate.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToResponse(&res))
}

// GetPaper handles GET /api/v1/papers/{id}.
func (s *Server) GetPaper(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}

	p, err := s.papers.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paperToResponse(&p))
}

// ListPapers handles GET /api/v1/papers.
func (s *Server) ListPapers(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCodeBadRequest, err.Error())
		return
	}

	q, offset, err := queryFromListParams(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCodeValidationFailed, err.Error())
		return
	}

	listing, err := s.papers.List(r.Context(), q, offset)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]paperResponse, len(listing.Items))
	for i := range listing.Items {
		items[i] = paperToResponse(&listing.Items[i])
	}

	writeJSON(w, http.StatusOK, paperListResponse{
		Items:   items,
		Total:   listing.Total,
		HasMore: listing.HasMore,
	})
}

// HealthCheck handles GET /health. Only a down store makes the endpoint
// report failure; a degraded semantic source still answers 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrPaperNotFound,
		domain.ErrInvalidQuery,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, errorCodeInternalError, "internal error")
}
