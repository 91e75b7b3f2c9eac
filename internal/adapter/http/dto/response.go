package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/domain"
)

// BankResponse represents a bank account in API responses.
type BankResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	IsPOS     bool            `json:"is_pos"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BankFromDomain converts a domain bank to a response.
func BankFromDomain(b *domain.Bank) *BankResponse {
	return &BankResponse{
		ID:        b.ID,
		Name:      b.Name,
		Balance:   b.Balance,
		IsPOS:     b.IsPOS,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// BanksFromDomain converts domain banks to responses.
func BanksFromDomain(banks []*domain.Bank) []*BankResponse {
	result := make([]*BankResponse, len(banks))
	for i, b := range banks {
		result[i] = BankFromDomain(b)
	}
	return result
}

// DebtResponse represents a customer debt in API responses.
type DebtResponse struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Paid       decimal.Decimal `json:"paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	IsArchived bool            `json:"is_archived"`
	MergedFrom []string        `json:"merged_from,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DebtFromDomain converts a domain debt to a response.
func DebtFromDomain(d *domain.Debt) *DebtResponse {
	return &DebtResponse{
		ID:         d.ID,
		Amount:     d.Amount,
		Paid:       d.Paid,
		Remaining:  d.Remaining(),
		IsArchived: d.IsArchived,
		MergedFrom: d.MergedFrom,
		CreatedAt:  d.CreatedAt,
	}
}

// CustomerResponse represents a customer ledger in API responses.
type CustomerResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Currency   string          `json:"currency"`
	IsArchived bool            `json:"is_archived"`
	Debts      []*DebtResponse `json:"debts"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CustomerFromDomain converts a domain customer to a response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	debts := make([]*DebtResponse, len(c.Debts))
	for i, d := range c.Debts {
		debts[i] = DebtFromDomain(d)
	}
	return &CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Currency:   c.Currency,
		IsArchived: c.IsArchived,
		Debts:      debts,
		CreatedAt:  c.CreatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// ReceivableResponse represents an amount the desk owes in API responses.
type ReceivableResponse struct {
	ID         string          `json:"id"`
	Debtor     string          `json:"debtor"`
	Amount     decimal.Decimal `json:"amount"`
	Paid       decimal.Decimal `json:"paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	Currency   string          `json:"currency"`
	IsArchived bool            `json:"is_archived"`
	MergedFrom []string        `json:"merged_from,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ReceivableFromDomain converts a domain receivable to a response.
func ReceivableFromDomain(r *domain.Receivable) *ReceivableResponse {
	return &ReceivableResponse{
		ID:         r.ID,
		Debtor:     r.Debtor,
		Amount:     r.Amount,
		Paid:       r.Paid,
		Remaining:  r.Remaining(),
		Currency:   r.Currency,
		IsArchived: r.IsArchived,
		MergedFrom: r.MergedFrom,
		CreatedAt:  r.CreatedAt,
	}
}

// ReceivablesFromDomain converts domain receivables to responses.
func ReceivablesFromDomain(receivables []*domain.Receivable) []*ReceivableResponse {
	result := make([]*ReceivableResponse, len(receivables))
	for i, r := range receivables {
		result[i] = ReceivableFromDomain(r)
	}
	return result
}

// TransactionResponse represents a log entry in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	Party       string          `json:"party,omitempty"`
	Asset       string          `json:"asset"`
	GroupID     string          `json:"group_id,omitempty"`
	GroupType   string          `json:"group_type"`
	IsDeleted   bool            `json:"is_deleted"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		CreatedAt:   t.CreatedAt,
		Amount:      t.Amount,
		Currency:    t.Currency,
		Description: t.Description,
		Party:       t.Party,
		Asset:       string(t.Asset),
		GroupID:     t.GroupID,
		GroupType:   string(t.Meta.GroupType),
		IsDeleted:   t.IsDeleted,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// DollarCardResponse represents a prepaid dollar card in API responses.
type DollarCardResponse struct {
	ID        string          `json:"id"`
	Holder    string          `json:"holder"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	PaidLYD   decimal.Decimal `json:"paid_lyd"`
	Completed bool            `json:"completed"`
	CreatedAt time.Time       `json:"created_at"`
}

// DollarCardFromDomain converts a domain dollar card to a response.
func DollarCardFromDomain(c *domain.DollarCard) *DollarCardResponse {
	return &DollarCardResponse{
		ID:        c.ID,
		Holder:    c.Holder,
		AmountUSD: c.AmountUSD,
		PaidLYD:   c.PaidLYD,
		Completed: c.Completed,
		CreatedAt: c.CreatedAt,
	}
}

// PendingTradeResponse represents a staged trade in API responses.
type PendingTradeResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// PendingTradeFromDomain converts a staged trade to a response.
func PendingTradeFromDomain(p *domain.PendingTrade) *PendingTradeResponse {
	return &PendingTradeResponse{
		ID:        p.ID,
		Kind:      p.Kind,
		Payload:   p.Payload,
		CreatedAt: p.CreatedAt,
	}
}

// BalancesResponse maps every asset, including the derived bank total, to its
// balance.
type BalancesResponse struct {
	Balances map[string]decimal.Decimal `json:"balances"`
}

// TotalResponse represents an aggregated open amount in one currency.
type TotalResponse struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

// IDResponse carries the id of a newly created entity.
type IDResponse struct {
	ID string `json:"id"`
}

// StatusResponse acknowledges an operation without a body.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
