package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/domain"
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
	case errors.Is(err, domain.ErrBankNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrDebtNotFound),
		errors.Is(err, domain.ErrReceivableNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrDollarCardNotFound),
		errors.Is(err, domain.ErrPendingTradeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidAsset),
		errors.Is(err, domain.ErrDerivedAsset),
		errors.Is(err, domain.ErrBankNotPOS),
		errors.Is(err, domain.ErrSameBank),
		errors.Is(err, domain.ErrCardCompleted),
		errors.Is(err, domain.ErrUnknownTradeKind),
		errors.Is(err, domain.ErrUnknownGroupType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLineageCycle):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into dst and reports a 400 on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// handleServiceError writes the mapped status for a failed operation.
func handleServiceError(w http.ResponseWriter, action string, err error) {
	writeError(w, mapDomainError(err), "failed to "+action, err.Error())
}
