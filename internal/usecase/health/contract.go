package health

import "context"

// StorePinger checks paper store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// SemanticChecker checks semantic search service availability.
type SemanticChecker interface {
	HealthCheck(ctx context.Context) error
}
