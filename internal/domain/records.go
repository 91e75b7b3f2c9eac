package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PosTransaction is the detail row behind a POS settlement: a customer paid
// the desk by card and the amount landed on a POS-eligible bank.
type PosTransaction struct {
	ID        string          `json:"id"`
	BankID    string          `json:"bank_id"`
	Amount    decimal.Decimal `json:"amount"`
	Party     string          `json:"party,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// DollarCard tracks a prepaid dollar-card purchase: LYD installments
// accumulate in PaidLYD until the card is completed and the USD delivered.
type DollarCard struct {
	ID        string          `json:"id"`
	Holder    string          `json:"holder"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	PaidLYD   decimal.Decimal `json:"paid_lyd"`
	Completed bool            `json:"completed"`
	CreatedAt time.Time       `json:"created_at"`
}

// OperatingCost is an expense row (rent, salaries, fees) paid from an asset.
type OperatingCost struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Asset       Asset           `json:"asset"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PendingTrade is a deferred trade operation: the operation kind plus its full
// argument payload, replayed later through the same entry point.
type PendingTrade struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
