package health

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the semantic source is down; keyword search and
	// the catalog still answer.
	Degraded Status = "degraded"
	// Unhealthy indicates the paper store is down.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store    StorePinger
	semantic SemanticChecker
}

// New creates a Service. semantic can be nil.
func New(store StorePinger, semantic SemanticChecker) *Service {
	return &Service{store: store, semantic: semantic}
}

// Check probes all components concurrently and aggregates the outcome.
// Each probe runs to completion even when the other fails.
func (s *Service) Check(ctx context.Context) Report {
	var storeErr, semErr error

	var g errgroup.Group
	g.Go(func() error {
		storeErr = s.store.Ping(ctx)
		return nil
	})
	if s.semantic != nil {
		g.Go(func() error {
			semErr = s.semantic.HealthCheck(ctx)
			return nil
		})
	}
	// The probes record their errors themselves; Wait only joins.
	_ = g.Wait()

	checks := make(map[string]CheckResult)
	status := Healthy

	if storeErr != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	if s.semantic != nil {
		if semErr != nil {
			checks["semantic"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["semantic"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
