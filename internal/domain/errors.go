package domain

import "errors"

var (
	// ErrPaperNotFound signals a missing paper record.
	ErrPaperNotFound = errors.New("paper not found")
	// ErrInvalidQuery signals an unusable query or filter set.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSourceTimeout signals a retrieval source that exceeded its deadline.
	ErrSourceTimeout = errors.New("retrieval source timeout")
	// ErrSourceUnavailable signals a retrieval source that returned a
	// non-success status or an unreadable payload.
	ErrSourceUnavailable = errors.New("retrieval source unavailable")
	// ErrEnrichmentProviderError signals an enrichment provider failure.
	ErrEnrichmentProviderError = errors.New("enrichment provider error")
)
