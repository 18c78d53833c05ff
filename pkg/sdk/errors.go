package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Package sentinels. Service error answers match them through
// (*APIError).Is, so callers only need errors.Is.
var (
	// ErrNotFound means the requested paper does not exist.
	ErrNotFound = errors.New("paperdex: not found")
	// ErrInvalidQuery means the service rejected the request parameters.
	ErrInvalidQuery = errors.New("paperdex: invalid query")
	// ErrUnauthorized means the API key is missing or wrong.
	ErrUnauthorized = errors.New("paperdex: unauthorized")
)

// APIError is a structured error answer from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paperdex api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Is maps HTTP statuses onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrInvalidQuery:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// parseAPIError decodes the service error body. A non-JSON answer keeps a
// short body snippet as the message.
func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var wire struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &wire) == nil && wire.Code != "" {
		apiErr.Code = wire.Code
		apiErr.Message = wire.Message
		return apiErr
	}

	apiErr.Code = "unknown"
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
