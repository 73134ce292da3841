// Package domainerrors defines the coded errors shared by every service in the
// ledger. Handlers translate codes to HTTP statuses; services never inspect
// error strings.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of domain failure.
type Code string

const (
	// CodeUnauthorized means the caller lacks the role or capability the
	// operation requires.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound means the referenced record does not exist.
	CodeNotFound Code = "not_found"

	// CodeInvalidProgression means a status transition targeted an ordinal
	// that is not strictly greater than the product's current one.
	CodeInvalidProgression Code = "invalid_progression"

	// CodeConflict means a write collided with an already-present immutable
	// record.
	CodeConflict Code = "conflict"

	// CodeBadRequest means the request was malformed at the transport
	// boundary.
	CodeBadRequest Code = "bad_request"

	// CodeInternal means an unexpected infrastructure failure.
	CodeInternal Code = "internal"
)

// Error is a domain error with a stable machine-readable code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

// New builds a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the code from err, or CodeInternal when err is not a domain
// error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// ToHTTPStatus maps a domain code to the HTTP status handlers respond with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidProgression:
		return http.StatusConflict
	case CodeConflict:
		return http.StatusConflict
	case CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
