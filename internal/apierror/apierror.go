// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "fmt"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// Kind classifies a business error so handlers can pick the right HTTP status
// without string-matching messages.
type Kind int

const (
	KindValidation Kind = iota // caller's fault — malformed or missing input
	KindNotFound               // customer/product/order/return absent
	KindConflict               // insufficient stock, duplicate return, already processed
	KindInternal               // persistence failure — rolled back, details logged only
)

// Error is a business-rule violation raised by the service layer before any
// transaction commits. Every multi-step operation aborts entirely on Error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, logged but never sent to clients
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected persistence error. The client only ever sees
// the generic message; the cause stays in the logs.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "internal server error", Err: err}
}
