package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/finbook/internal/adapter/http/dto"
	"github.com/iho/finbook/internal/adapter/http/middleware"
	"github.com/iho/finbook/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCreditNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTaxPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidEventType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrWorkActWithoutRelated):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidEntityKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyEntityName):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSameEndpoint):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingEndpoint):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPurpose):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingFromAccount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingCompanyPair):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// tenantID extracts the tenant identity set by the middleware. It writes a 401
// response and returns false when the request carries none.
func tenantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing tenant identity", "")
	}
	return userID, ok
}

// parseTimeQuery parses an RFC 3339 query parameter. A missing or malformed
// value yields nil.
func parseTimeQuery(r *http.Request, key string) *time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
