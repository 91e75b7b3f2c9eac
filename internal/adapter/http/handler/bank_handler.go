package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/usecase"
)

// BankService defines the behavior needed by BankHandler.
type BankService interface {
	AddBank(name string, isPOS bool) (string, error)
	UpdateBank(id, name string, isPOS bool) error
	DeleteBank(id string) error
	TransferBetweenBanks(input usecase.BankTransferInput) error
	Snapshot() (*book.Book, error)
}

// BankHandler handles bank account HTTP requests.
type BankHandler struct {
	svc BankService
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(svc BankService) *BankHandler {
	return &BankHandler{svc: svc}
}

// Create opens a bank account.
func (h *BankHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBankRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.svc.AddBank(req.Name, req.IsPOS)
	if err != nil {
		handleServiceError(w, "create bank", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IDResponse{ID: id})
}

// Update renames a bank or toggles its POS eligibility.
func (h *BankHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateBankRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.UpdateBank(id, req.Name, req.IsPOS); err != nil {
		handleServiceError(w, "update bank", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "updated"})
}

// Delete removes a bank account.
func (h *BankHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteBank(id); err != nil {
		handleServiceError(w, "delete bank", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "deleted"})
}

// List lists all bank accounts.
func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "list banks", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BanksFromDomain(snap.Banks))
}

// Transfer moves money between two banks.
func (h *BankHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var input usecase.BankTransferInput
	if !decodeBody(w, r, &input) {
		return
	}

	if err := h.svc.TransferBetweenBanks(input); err != nil {
		handleServiceError(w, "transfer between banks", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "transferred"})
}
