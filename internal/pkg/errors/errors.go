// Package errors provides custom error types and error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes.
const (
	// CodeConfiguration marks invalid evaluation setup: unknown metric
	// names, bad cutoffs, bad discount bases. Fatal before any query runs.
	CodeConfiguration = "CONFIGURATION_ERROR"

	// CodeDataIntegrity marks corrupt input data: duplicate judgments for a
	// (query, document) pair or duplicate documents within one ranking.
	CodeDataIntegrity = "DATA_INTEGRITY_ERROR"

	// CodeParse marks malformed judgment or run file content.
	CodeParse = "PARSE_ERROR"

	// CodeInternal marks unexpected failures.
	CodeInternal = "INTERNAL_ERROR"
)

// AppError represents an application error with code and details.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code, format string, args ...any) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetail adds a single detail to the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Convenience constructors.

// ConfigurationError creates a configuration error.
func ConfigurationError(message string) *AppError {
	return New(CodeConfiguration, message)
}

// ConfigurationErrorf creates a configuration error with a formatted message.
func ConfigurationErrorf(format string, args ...any) *AppError {
	return Newf(CodeConfiguration, format, args...)
}

// DataIntegrityError creates a data integrity error.
func DataIntegrityError(message string) *AppError {
	return New(CodeDataIntegrity, message)
}

// DataIntegrityErrorf creates a data integrity error with a formatted message.
func DataIntegrityErrorf(format string, args ...any) *AppError {
	return Newf(CodeDataIntegrity, format, args...)
}

// ParseErrorf creates a parse error with a formatted message.
func ParseErrorf(format string, args ...any) *AppError {
	return Newf(CodeParse, format, args...)
}

// InternalError creates an internal error.
func InternalError(message string, err error) *AppError {
	return Wrap(CodeInternal, message, err)
}

// HasCode reports whether err is an AppError with the given code anywhere in
// its chain.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsConfiguration checks if error is a configuration error.
func IsConfiguration(err error) bool {
	return HasCode(err, CodeConfiguration)
}

// IsDataIntegrity checks if error is a data integrity error.
func IsDataIntegrity(err error) bool {
	return HasCode(err, CodeDataIntegrity)
}

// IsParse checks if error is a parse error.
func IsParse(err error) bool {
	return HasCode(err, CodeParse)
}
