package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/book"
)

// PendingService defines the behavior needed by PendingHandler.
type PendingService interface {
	StagePendingTrade(kind string, payload json.RawMessage) (string, error)
	ConfirmPendingTrade(id string) error
	DiscardPendingTrade(id string) error
	Snapshot() (*book.Book, error)
}

// PendingHandler handles staged trades.
type PendingHandler struct {
	svc PendingService
}

// NewPendingHandler creates a new PendingHandler.
func NewPendingHandler(svc PendingService) *PendingHandler {
	return &PendingHandler{svc: svc}
}

// Stage stores a trade for later confirmation.
func (h *PendingHandler) Stage(w http.ResponseWriter, r *http.Request) {
	var req dto.StagePendingTradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.svc.StagePendingTrade(req.Kind, req.Payload)
	if err != nil {
		handleServiceError(w, "stage trade", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IDResponse{ID: id})
}

// List lists staged trades.
func (h *PendingHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "list pending trades", err)
		return
	}

	trades := make([]*dto.PendingTradeResponse, len(snap.PendingTrades))
	for i, p := range snap.PendingTrades {
		trades[i] = dto.PendingTradeFromDomain(p)
	}
	writeJSON(w, http.StatusOK, trades)
}

// Confirm executes a staged trade and removes it.
func (h *PendingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.ConfirmPendingTrade(id); err != nil {
		handleServiceError(w, "confirm trade", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "confirmed"})
}

// Discard drops a staged trade without executing it.
func (h *PendingHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DiscardPendingTrade(id); err != nil {
		handleServiceError(w, "discard trade", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "discarded"})
}
