package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/usecase"
)

// PartyService defines the behavior needed by PartyHandler.
type PartyService interface {
	AddCustomer(name, currency string) (string, error)
	SetCustomerArchived(id string, archived bool) error
	AddDebt(input usecase.AddDebtInput) (string, error)
	PayDebt(input usecase.PayDebtInput) error
	MergeCustomerDebts(customerID string) error
	ConvertSingleUsdDebtToLyd(input usecase.ConvertDebtInput) error

	AddReceivable(input usecase.AddReceivableInput) (string, error)
	PayReceivable(input usecase.PayReceivableInput) error
	SetReceivableArchived(id string, archived bool) error
	MergeDebtorReceivables(debtor, currency string) error

	Snapshot() (*book.Book, error)
}

// PartyHandler handles customer and receivable HTTP requests.
type PartyHandler struct {
	svc PartyService
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(svc PartyService) *PartyHandler {
	return &PartyHandler{svc: svc}
}

// CreateCustomer registers a customer ledger for a (name, currency) pair.
func (h *PartyHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.svc.AddCustomer(req.Name, req.Currency)
	if err != nil {
		handleServiceError(w, "create customer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IDResponse{ID: id})
}

// ListCustomers lists all customer ledgers.
func (h *PartyHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "list customers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomersFromDomain(snap.Customers))
}

// GetCustomer returns one customer with its debts.
func (h *PartyHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "get customer", err)
		return
	}

	c := snap.Customer(id)
	if c == nil {
		writeError(w, http.StatusNotFound, "customer not found", id)
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(c))
}

// ArchiveCustomer toggles a customer's archived flag.
func (h *PartyHandler) ArchiveCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ArchiveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.SetCustomerArchived(id, req.Archived); err != nil {
		handleServiceError(w, "archive customer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "ok"})
}

// CreateDebt registers a debt on a customer. The customer id in the path
// wins over any id in the body.
func (h *PartyHandler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddDebtInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.CustomerID = chi.URLParam(r, "id")

	debtID, err := h.svc.AddDebt(input)
	if err != nil {
		handleServiceError(w, "create debt", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IDResponse{ID: debtID})
}

// PayDebt settles a payment against a customer's debt.
func (h *PartyHandler) PayDebt(w http.ResponseWriter, r *http.Request) {
	var input usecase.PayDebtInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.CustomerID = chi.URLParam(r, "id")

	if err := h.svc.PayDebt(input); err != nil {
		handleServiceError(w, "pay debt", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "paid"})
}

// MergeDebts consolidates a customer's open debts into one entry.
func (h *PartyHandler) MergeDebts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.MergeCustomerDebts(id); err != nil {
		handleServiceError(w, "merge debts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "merged"})
}

// ConvertDebt converts part of a USD debt into an LYD debt on another
// customer.
func (h *PartyHandler) ConvertDebt(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConvertDebtInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.CustomerID = chi.URLParam(r, "id")

	if err := h.svc.ConvertSingleUsdDebtToLyd(input); err != nil {
		handleServiceError(w, "convert debt", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "converted"})
}

// CreateReceivable registers an amount the desk owes an external party.
func (h *PartyHandler) CreateReceivable(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddReceivableInput
	if !decodeBody(w, r, &input) {
		return
	}

	id, err := h.svc.AddReceivable(input)
	if err != nil {
		handleServiceError(w, "create receivable", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IDResponse{ID: id})
}

// ListReceivables lists all receivables.
func (h *PartyHandler) ListReceivables(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "list receivables", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceivablesFromDomain(snap.Receivables))
}

// PayReceivable settles a payment against a receivable.
func (h *PartyHandler) PayReceivable(w http.ResponseWriter, r *http.Request) {
	var input usecase.PayReceivableInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.ReceivableID = chi.URLParam(r, "id")

	if err := h.svc.PayReceivable(input); err != nil {
		handleServiceError(w, "pay receivable", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "paid"})
}

// ArchiveReceivable toggles a receivable's archived flag.
func (h *PartyHandler) ArchiveReceivable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ArchiveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.SetReceivableArchived(id, req.Archived); err != nil {
		handleServiceError(w, "archive receivable", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "ok"})
}

// MergeReceivables consolidates a debtor's open receivables in one currency.
func (h *PartyHandler) MergeReceivables(w http.ResponseWriter, r *http.Request) {
	var req dto.MergeReceivablesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.svc.MergeDebtorReceivables(req.Debtor, req.Currency); err != nil {
		handleServiceError(w, "merge receivables", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "merged"})
}
