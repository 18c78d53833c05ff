package paperdex

import "github.com/kailas-cloud/paperdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrPaperNotFound     = domain.ErrPaperNotFound
	ErrInvalidQuery      = domain.ErrInvalidQuery
	ErrSourceTimeout     = domain.ErrSourceTimeout
	ErrSourceUnavailable = domain.ErrSourceUnavailable
)
