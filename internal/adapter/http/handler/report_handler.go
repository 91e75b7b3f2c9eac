package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	TotalDebts(currency string) decimal.Decimal
	TotalReceivables(currency string) decimal.Decimal
	Balance(asset domain.Asset) decimal.Decimal
	Snapshot() (*book.Book, error)
	Export() ([]byte, error)
	Import(data []byte) error
	PurgeArchived() (int, error)
}

// ReportHandler handles balances, totals, the transaction log and snapshot
// export and import.
type ReportHandler struct {
	svc ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Balances returns every asset balance including the derived bank total.
func (h *ReportHandler) Balances(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "read balances", err)
		return
	}

	balances := make(map[string]decimal.Decimal, len(snap.Balances)+len(snap.Banks)+1)
	for asset, amount := range snap.Balances {
		balances[string(asset)] = amount
	}
	for _, bank := range snap.Banks {
		balances[string(domain.BankAsset(bank.ID))] = bank.Balance
	}
	balances[string(domain.AssetBankTotal)] = snap.Balance(domain.AssetBankTotal)

	writeJSON(w, http.StatusOK, dto.BalancesResponse{Balances: balances})
}

// Balance returns one asset balance.
func (h *ReportHandler) Balance(w http.ResponseWriter, r *http.Request) {
	asset := domain.Asset(chi.URLParam(r, "asset"))

	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{
		string(asset): h.svc.Balance(asset),
	})
}

// TotalDebts returns the sum of open debts in one currency.
func (h *ReportHandler) TotalDebts(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = domain.CurrencyUSD
	}

	writeJSON(w, http.StatusOK, dto.TotalResponse{
		Currency: currency,
		Total:    h.svc.TotalDebts(currency),
	})
}

// TotalReceivables returns the sum of open receivables in one currency.
func (h *ReportHandler) TotalReceivables(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = domain.CurrencyUSD
	}

	writeJSON(w, http.StatusOK, dto.TotalResponse{
		Currency: currency,
		Total:    h.svc.TotalReceivables(currency),
	})
}

// Transactions returns the log, newest last. Deleted entries are included;
// clients filter on is_deleted. Hidden entries never leave the server.
func (h *ReportHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		handleServiceError(w, "read transactions", err)
		return
	}

	visible := make([]*domain.Transaction, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		if tx.IsHidden {
			continue
		}
		visible = append(visible, tx)
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(visible))
}

// Export streams the full state document.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Export()
	if err != nil {
		handleServiceError(w, "export state", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import replaces the full state with the posted document.
func (h *ReportHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body", err.Error())
		return
	}

	if err := h.svc.Import(data); err != nil {
		handleServiceError(w, "import state", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "imported"})
}

// PurgeArchived drops archived debts and receivables from the state.
func (h *ReportHandler) PurgeArchived(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.PurgeArchived()
	if err != nil {
		handleServiceError(w, "purge archived", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"purged": n})
}
