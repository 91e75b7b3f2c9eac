package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Trade endpoints decode the usecase input structs directly: their JSON shape
// is the same payload the pending-trade store replays, so the wire format and
// the staged format cannot drift apart. Only requests without a usecase input
// counterpart get a dto type here.

// CreateBankRequest represents a request to open a bank account.
type CreateBankRequest struct {
	Name  string `json:"name"`
	IsPOS bool   `json:"is_pos"`
}

// UpdateBankRequest represents a request to rename a bank or toggle its POS
// eligibility.
type UpdateBankRequest struct {
	Name  string `json:"name"`
	IsPOS bool   `json:"is_pos"`
}

// CreateCustomerRequest represents a request to register a customer ledger.
type CreateCustomerRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// ArchiveRequest toggles the archived flag of a customer or receivable.
type ArchiveRequest struct {
	Archived bool `json:"archived"`
}

// MergeReceivablesRequest represents a request to consolidate a debtor's open
// receivables in one currency.
type MergeReceivablesRequest struct {
	Debtor   string `json:"debtor"`
	Currency string `json:"currency"`
}

// OpenDollarCardRequest represents a request to open a prepaid dollar card.
type OpenDollarCardRequest struct {
	Holder    string          `json:"holder"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

// StagePendingTradeRequest represents a request to stage a trade for later
// confirmation. Payload carries the same JSON body the matching trade
// endpoint would accept.
type StagePendingTradeRequest struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}
