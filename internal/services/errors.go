package services

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable failure taxonomy returned to API clients
type ErrorCode string

const (
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeInvalidState       ErrorCode = "INVALID_STATE"
	CodeNoAcceptedProof    ErrorCode = "NO_ACCEPTED_PROOF"
	CodeInsufficientBudget ErrorCode = "INSUFFICIENT_BUDGET"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// Error is a failure the caller can act on. Anything else returned by a
// service is treated as an internal error.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on code so errors.Is(err, ErrNotFound) holds for any NOT_FOUND error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrUnauthorized    = &Error{Code: CodeUnauthorized, Message: "authentication required"}
	ErrForbidden       = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation      = &Error{Code: CodeValidation, Message: "invalid request"}
	ErrInvalidState    = &Error{Code: CodeInvalidState, Message: "invalid state"}
	ErrNoAcceptedProof = &Error{Code: CodeNoAcceptedProof, Message: "no accepted proof"}
	ErrInsufficient    = &Error{Code: CodeInsufficientBudget, Message: "insufficient budget"}
	ErrConflict        = &Error{Code: CodeConflict, Message: "concurrent modification"}
)

// CodeOf returns the taxonomy code for err, INTERNAL_ERROR for unknown errors
func CodeOf(err error) ErrorCode {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeInternal
}
