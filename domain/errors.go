package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidCutoutRequest = errors.New("invalid request")
	ErrRetrievalUnavailable = errors.New("cutout provider temporarily unavailable")
	ErrProviderFailed       = errors.New("cutout provider call failed")
)

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidCutoutRequest, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidCutoutRequest
}

// RetrievalUnavailableError is returned once every fallback candidate failed.
// LastReason is already redacted.
type RetrievalUnavailableError struct {
	LastReason string
	Attempts   int
}

func (e *RetrievalUnavailableError) Error() string {
	if e.LastReason == "" {
		return ErrRetrievalUnavailable.Error()
	}
	return fmt.Sprintf("%s: %s", ErrRetrievalUnavailable, e.LastReason)
}

func (e *RetrievalUnavailableError) Unwrap() error {
	return ErrRetrievalUnavailable
}

// ProviderError is a single failed provider call. It is always retryable.
type ProviderError struct {
	Provider   ProviderID
	StatusCode int
	Reason     string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider: status %d: %s", e.Provider, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s provider: %s", e.Provider, e.Reason)
}

func (e *ProviderError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrProviderFailed, e.Cause}
	}
	return []error{ErrProviderFailed}
}

// IsValidationError reports whether err is a cutout request validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidCutoutRequest)
}

// IsRetrievalUnavailable reports whether err means every provider candidate failed.
func IsRetrievalUnavailable(err error) bool {
	return errors.Is(err, ErrRetrievalUnavailable)
}
