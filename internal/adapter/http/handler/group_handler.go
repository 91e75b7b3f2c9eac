package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/book"
)

// GroupService defines the behavior needed by GroupHandler.
type GroupService interface {
	DeleteTransactionGroup(groupID string) error
	RestoreTransactionGroup(groupID string) error
	Snapshot() (*book.Book, error)
}

// GroupHandler handles transaction group reversal and restoration.
type GroupHandler struct {
	svc GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(svc GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// Get returns the transactions of one group.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "get group", err)
		return
	}

	txs := snap.Group(id)
	if len(txs) == 0 {
		writeError(w, http.StatusNotFound, "transaction group not found", id)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}

// Delete reverses a whole transaction group: balances are inverted and every
// side effect is unwound.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteTransactionGroup(id); err != nil {
		handleServiceError(w, "delete group", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "deleted"})
}

// Restore re-applies a previously deleted group.
func (h *GroupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.RestoreTransactionGroup(id); err != nil {
		handleServiceError(w, "restore group", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "restored"})
}
