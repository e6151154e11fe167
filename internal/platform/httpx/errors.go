package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Repositories and services wrap these
// so handlers can map outcomes without inspecting driver errors.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Unknown errors become a 500 with no detail; infrastructure failures must
// never read as an allow or a business-level deny.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// Forbidden rejects the request with a coarse reason.
func Forbidden(w http.ResponseWriter, reason string) {
	Problem(w, http.StatusForbidden, "Forbidden", reason)
}

// Unauthorized rejects the request before any guard logic runs.
func Unauthorized(w http.ResponseWriter) {
	Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
}
