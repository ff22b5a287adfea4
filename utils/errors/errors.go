// Package errors provides structured error handling for the skyview HTTP layer.
// It attaches codes and diagnostic context to failures before they are logged.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"skyview/domain"
)

// ErrorCode represents a categorized error type for structured error handling.
type ErrorCode string

const (
	ErrCodeValidation  ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeRateLimit   ErrorCode = "RATE_LIMIT_ERROR"
	ErrCodeExternalAPI ErrorCode = "EXTERNAL_API_ERROR"
	ErrCodeUnknown     ErrorCode = "UNKNOWN_ERROR"
)

// AppError represents a structured application error with code, message, cause, and context.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ValidationError creates an AppError for input validation failures.
func ValidationError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Cause: cause, Context: context}
}

// UnavailableError creates an AppError for exhausted upstream providers.
func UnavailableError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{Code: ErrCodeUnavailable, Message: message, Cause: cause, Context: context}
}

// ExternalAPIError creates an AppError for external API call failures.
func ExternalAPIError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{Code: ErrCodeExternalAPI, Message: message, Cause: cause, Context: context}
}

// UnknownError creates an AppError for unclassified errors.
func UnknownError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{Code: ErrCodeUnknown, Message: message, Cause: cause, Context: context}
}

// Classify maps an engine error onto an AppError.
func Classify(err error, context map[string]interface{}) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	switch {
	case domain.IsValidationError(err):
		return ValidationError("invalid request parameters", err, context)
	case domain.IsRetrievalUnavailable(err):
		return UnavailableError(domain.ErrRetrievalUnavailable.Error(), err, context)
	default:
		return UnknownError("unexpected error", err, context)
	}
}

// LogError logs an AppError with structured logging and context
func LogError(logger *slog.Logger, err error, operation string) {
	if logger == nil {
		return
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		args := []interface{}{
			"operation", operation,
			"error_code", string(appErr.Code),
			"error_message", appErr.Message,
		}

		for key, value := range appErr.Context {
			args = append(args, key, value)
		}

		if appErr.Cause != nil {
			args = append(args, "cause", appErr.Cause.Error())
		}

		logger.Error("application error occurred", args...)
	} else {
		logger.Error("unknown error occurred",
			"operation", operation,
			"error", err.Error(),
		)
	}
}
