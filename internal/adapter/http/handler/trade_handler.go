package handler

import (
	"net/http"

	"github.com/sarraf/treasury/internal/adapter/http/dto"
	"github.com/sarraf/treasury/internal/usecase"
)

// TradeService defines the behavior needed by TradeHandler.
type TradeService interface {
	BuyUSD(input usecase.BuyInput) error
	SellUSD(input usecase.SellInput) error
	BuyForeignCurrency(input usecase.BuyInput) error
	SellForeignCurrency(input usecase.SellInput) error
	AdjustAssetBalance(input usecase.AdjustBalanceInput) error
	ExchangeBetweenUsdAssets(input usecase.ExchangeInput) error
	ExchangeBetweenEurAssets(input usecase.ExchangeInput) error
	ExchangeFromBankToCash(input usecase.BankCashExchangeInput) error
	ExchangeFromCashToBank(input usecase.BankCashExchangeInput) error
}

// TradeHandler handles trade HTTP requests. Request bodies use the same JSON
// shape as staged pending-trade payloads.
type TradeHandler struct {
	svc TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(svc TradeService) *TradeHandler {
	return &TradeHandler{svc: svc}
}

// BuyUSD buys US dollars.
func (h *TradeHandler) BuyUSD(w http.ResponseWriter, r *http.Request) {
	var input usecase.BuyInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "buy usd", h.svc.BuyUSD(input))
}

// SellUSD sells US dollars.
func (h *TradeHandler) SellUSD(w http.ResponseWriter, r *http.Request) {
	var input usecase.SellInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "sell usd", h.svc.SellUSD(input))
}

// BuyOther buys a non-USD currency.
func (h *TradeHandler) BuyOther(w http.ResponseWriter, r *http.Request) {
	var input usecase.BuyInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "buy currency", h.svc.BuyForeignCurrency(input))
}

// SellOther sells a non-USD currency.
func (h *TradeHandler) SellOther(w http.ResponseWriter, r *http.Request) {
	var input usecase.SellInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "sell currency", h.svc.SellForeignCurrency(input))
}

// Adjust applies an unconditional balance delta to one asset.
func (h *TradeHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var input usecase.AdjustBalanceInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "adjust balance", h.svc.AdjustAssetBalance(input))
}

// USDExchange moves US dollars between the two USD cash pools.
func (h *TradeHandler) USDExchange(w http.ResponseWriter, r *http.Request) {
	var input usecase.ExchangeInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "exchange usd", h.svc.ExchangeBetweenUsdAssets(input))
}

// EURExchange moves euros between EUR assets.
func (h *TradeHandler) EURExchange(w http.ResponseWriter, r *http.Request) {
	var input usecase.ExchangeInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "exchange eur", h.svc.ExchangeBetweenEurAssets(input))
}

// BankToCash pays LYD out of a bank and takes foreign cash in.
func (h *TradeHandler) BankToCash(w http.ResponseWriter, r *http.Request) {
	var input usecase.BankCashExchangeInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "exchange bank to cash", h.svc.ExchangeFromBankToCash(input))
}

// CashToBank pays foreign cash out and takes LYD into a bank.
func (h *TradeHandler) CashToBank(w http.ResponseWriter, r *http.Request) {
	var input usecase.BankCashExchangeInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.run(w, "exchange cash to bank", h.svc.ExchangeFromCashToBank(input))
}

func (h *TradeHandler) run(w http.ResponseWriter, action string, err error) {
	if err != nil {
		handleServiceError(w, action, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "ok"})
}
