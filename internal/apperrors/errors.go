// Package apperrors defines the sentinel error values shared across
// services and handlers. Services return these (usually wrapped with
// fmt.Errorf and %w); handlers map them to HTTP statuses.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrBadRequest indicates a malformed or invalid request from the caller.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized indicates an invalid access code, token, or admin key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict indicates a duplicate resource (e.g. company id already taken).
	ErrConflict = errors.New("resource conflict")
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrProvider indicates the generative-language call failed or
	// returned unusable output.
	ErrProvider = errors.New("provider failure")
)

// HTTPStatus maps a sentinel (possibly wrapped) to its response status.
// Unrecognized errors are internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrProvider):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
