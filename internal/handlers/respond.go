package handlers

import (
	"errors"
	"net/http"

	"contabilitate/internal/httpx"
	"contabilitate/internal/services"
)

// writeServiceError translates Ledger sentinel errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrDuplicate):
		httpx.JSONError(w, http.StatusConflict, "uniqueness_violation", err.Error())
	case errors.Is(err, services.ErrForeignKey):
		httpx.JSONError(w, http.StatusConflict, "referential_violation", err.Error())
	case errors.Is(err, services.ErrRequired):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
