package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/usecase"
)

// RecordsService defines the behavior needed by RecordsHandler.
type RecordsService interface {
	PosSettlement(input usecase.PosSettlementInput) (string, error)
	OpenDollarCard(holder string, amountUSD decimal.Decimal) (string, error)
	DollarCardPayment(input usecase.DollarCardPaymentInput) error
	DollarCardComplete(input usecase.DollarCardCompleteInput) error
	AddOperatingCost(input usecase.OperatingCostInput) (string, error)
	Snapshot() (*book.Book, error)
}

// RecordsHandler handles POS settlements, dollar cards and operating costs.
type RecordsHandler struct {
	svc RecordsService
}

// NewRecordsHandler creates a new RecordsHandler.
func NewRecordsHandler(svc RecordsService) *RecordsHandler {
	return &RecordsHandler{svc: svc}
}

// PosSettlement credits a card payment onto a POS-eligible bank.
func (h *RecordsHandler) PosSettlement(w http.ResponseWriter, r *http.Request) {
	var input usecase.PosSettlementInput
	if !decodeBody(w, r, &input) {
		return
	}

	id, err := h.svc.PosSettlement(input)
	if err != nil {
		handleServiceError(w, "record pos settlement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IDResponse{ID: id})
}

// OpenDollarCard opens a prepaid dollar card.
func (h *RecordsHandler) OpenDollarCard(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenDollarCardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.svc.OpenDollarCard(req.Holder, req.AmountUSD)
	if err != nil {
		handleServiceError(w, "open dollar card", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IDResponse{ID: id})
}

// ListDollarCards lists all dollar cards.
func (h *RecordsHandler) ListDollarCards(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "list dollar cards", err)
		return
	}

	cards := make([]*dto.DollarCardResponse, len(snap.DollarCards))
	for i, c := range snap.DollarCards {
		cards[i] = dto.DollarCardFromDomain(c)
	}
	writeJSON(w, http.StatusOK, cards)
}

// DollarCardPayment collects an LYD installment toward a card.
func (h *RecordsHandler) DollarCardPayment(w http.ResponseWriter, r *http.Request) {
	var input usecase.DollarCardPaymentInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.CardID = chi.URLParam(r, "id")

	if err := h.svc.DollarCardPayment(input); err != nil {
		handleServiceError(w, "record card payment", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "paid"})
}

// DollarCardComplete closes a card and debits its USD amount.
func (h *RecordsHandler) DollarCardComplete(w http.ResponseWriter, r *http.Request) {
	var input usecase.DollarCardCompleteInput
	if !decodeBody(w, r, &input) {
		return
	}
	input.CardID = chi.URLParam(r, "id")

	if err := h.svc.DollarCardComplete(input); err != nil {
		handleServiceError(w, "complete dollar card", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "completed"})
}

// CreateOperatingCost records a running expense.
func (h *RecordsHandler) CreateOperatingCost(w http.ResponseWriter, r *http.Request) {
	var input usecase.OperatingCostInput
	if !decodeBody(w, r, &input) {
		return
	}

	id, err := h.svc.AddOperatingCost(input)
	if err != nil {
		handleServiceError(w, "record operating cost", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IDResponse{ID: id})
}
