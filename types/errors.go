/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure so callers never have to re-inspect raw
// provider text.
type ErrorCode string

const (
	ErrConfiguration ErrorCode = "configuration"
	ErrAuth          ErrorCode = "auth"
	ErrRateLimited   ErrorCode = "rate_limited"
	ErrQuota         ErrorCode = "quota_exceeded"
	ErrModelNotFound ErrorCode = "model_not_found"
	ErrNetwork       ErrorCode = "network"
	ErrParse         ErrorCode = "parse"
	ErrCatalog       ErrorCode = "catalog"
	ErrNotFound      ErrorCode = "not_found"
	ErrUnknown       ErrorCode = "unknown"
)

// ProviderError carries a classified failure from the completion client or
// one of the engines. Wrapping layers add context with %w; the code survives
// through errors.As.
type ProviderError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewError creates a classified error.
func NewError(code ErrorCode, message string) *ProviderError {
	return &ProviderError{Code: code, Message: message}
}

// WrapError classifies an underlying error.
func WrapError(code ErrorCode, message string, err error) *ProviderError {
	return &ProviderError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the classification from an error chain, returning
// ErrUnknown for unclassified errors.
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrUnknown
}

// IsCode reports whether err carries the given classification.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
