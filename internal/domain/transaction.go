package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupType tags every transaction with the business operation that produced
// it. The set is closed; the reversal engine dispatches on it exhaustively.
type GroupType string

const (
	GroupNewDebt              GroupType = "NEW_DEBT"
	GroupNewReceivable        GroupType = "NEW_RECEIVABLE"
	GroupDebtPayment          GroupType = "DEBT_PAYMENT"
	GroupReceivablePayment    GroupType = "RECEIVABLE_PAYMENT"
	GroupBuyUSD               GroupType = "BUY_USD"
	GroupSellUSD              GroupType = "SELL_USD"
	GroupBuyOther             GroupType = "BUY_OTHER"
	GroupSellOther            GroupType = "SELL_OTHER"
	GroupAdjustBalance        GroupType = "ADJUST_BALANCE"
	GroupPOSTransaction       GroupType = "POS_TRANSACTION"
	GroupDollarCardPayment    GroupType = "DOLLAR_CARD_PAYMENT"
	GroupDollarCardComplete   GroupType = "DOLLAR_CARD_COMPLETE"
	GroupOperatingCost        GroupType = "OPERATING_COST"
	GroupUSDExchange          GroupType = "USD_EXCHANGE"
	GroupEURExchange          GroupType = "EUR_EXCHANGE"
	GroupBankTransfer         GroupType = "BANK_TRANSFER"
	GroupSingleDebtConversion GroupType = "SINGLE_DEBT_CONVERSION"
)

// KnownGroupType reports whether t belongs to the closed tag set.
func KnownGroupType(t GroupType) bool {
	switch t {
	case GroupNewDebt, GroupNewReceivable, GroupDebtPayment, GroupReceivablePayment,
		GroupBuyUSD, GroupSellUSD, GroupBuyOther, GroupSellOther,
		GroupAdjustBalance, GroupPOSTransaction,
		GroupDollarCardPayment, GroupDollarCardComplete,
		GroupOperatingCost, GroupUSDExchange, GroupEURExchange,
		GroupBankTransfer, GroupSingleDebtConversion:
		return true
	}
	return false
}

// TxMeta carries everything the reversal engine needs to undo a transaction's
// side effects without consulting any other record. Only the fields relevant
// to the transaction's GroupType are set.
type TxMeta struct {
	GroupType GroupType `json:"group_type"`

	// Party identifiers.
	CustomerID string `json:"customer_id,omitempty"`
	Debtor     string `json:"debtor,omitempty"`

	// Settlement applied to an existing entry: Paid was added to the entry's
	// cumulative paid amount.
	DebtID       string          `json:"debt_id,omitempty"`
	ReceivableID string          `json:"receivable_id,omitempty"`
	Paid         decimal.Decimal `json:"paid,omitempty"`

	// Entry spawned by the operation. Contributed is the amount it carried
	// into any later merge; Currency and CreatedAt allow re-insertion after
	// the row has been removed by a reversal.
	CreatedDebtID       string          `json:"created_debt_id,omitempty"`
	CreatedReceivableID string          `json:"created_receivable_id,omitempty"`
	Contributed         decimal.Decimal `json:"contributed,omitempty"`
	Currency            string          `json:"currency,omitempty"`

	// State of the spawned row captured when a reversal removes it, so a
	// later restore can rebuild the row exactly as it was.
	RemovedPaid     decimal.Decimal `json:"removed_paid,omitempty"`
	RemovedIndex    int             `json:"removed_index,omitempty"`
	RemovedArchived bool            `json:"removed_archived,omitempty"`

	// Auxiliary records spawned by the operation.
	PosID  string `json:"pos_id,omitempty"`
	CardID string `json:"card_id,omitempty"`
	CostID string `json:"cost_id,omitempty"`

	BankID            string `json:"bank_id,omitempty"`
	CounterpartBankID string `json:"counterpart_bank_id,omitempty"`

	// Display/reporting hints.
	Rate         decimal.Decimal `json:"rate,omitempty"`
	OriginalRate decimal.Decimal `json:"original_rate,omitempty"`
	IsSurplus    bool            `json:"is_surplus,omitempty"`
	IsProfit     bool            `json:"is_profit,omitempty"`
	ProfitLoss   bool            `json:"profit_loss,omitempty"`
}

// PrimaryEntityID returns the id that identifies the logical side effect of
// this metadata. Transactions sharing GroupType and primary entity describe
// one effect and are unwound once.
func (m TxMeta) PrimaryEntityID() string {
	for _, id := range []string{
		m.CreatedDebtID, m.CreatedReceivableID,
		m.DebtID, m.ReceivableID,
		m.PosID, m.CardID, m.CostID,
	} {
		if id != "" {
			return id
		}
	}
	return ""
}

// Transaction is one entry of the append-only log. Entries are never removed;
// reversal toggles IsDeleted.
type Transaction struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	Party       string          `json:"party,omitempty"`
	Asset       Asset           `json:"asset"`
	GroupID     string          `json:"group_id,omitempty"`
	Meta        TxMeta          `json:"meta"`
	IsDeleted   bool            `json:"is_deleted"`
	IsHidden    bool            `json:"is_hidden,omitempty"`
}
