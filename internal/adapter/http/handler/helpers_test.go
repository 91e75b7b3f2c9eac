package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"bank not found", domain.ErrBankNotFound, http.StatusNotFound},
		{"customer not found", domain.ErrCustomerNotFound, http.StatusNotFound},
		{"debt not found", domain.ErrDebtNotFound, http.StatusNotFound},
		{"group not found", domain.ErrGroupNotFound, http.StatusNotFound},
		{"pending trade not found", domain.ErrPendingTradeNotFound, http.StatusNotFound},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid rate", domain.ErrInvalidRate, http.StatusBadRequest},
		{"derived asset", domain.ErrDerivedAsset, http.StatusBadRequest},
		{"same bank", domain.ErrSameBank, http.StatusBadRequest},
		{"card completed", domain.ErrCardCompleted, http.StatusBadRequest},
		{"unknown trade kind", domain.ErrUnknownTradeKind, http.StatusBadRequest},
		{"lineage cycle", domain.ErrLineageCycle, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestMapDomainErrorUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("pay debt: %w", domain.ErrDebtNotFound)
	if got := mapDomainError(err); got != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped error, got %d", got)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "failed to pay debt", "amount must be positive")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Error != "failed to pay debt" || resp.Message != "amount must be positive" {
		t.Fatalf("unexpected error response: %+v", resp)
	}
}
