package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is an amount a customer owes the desk. Payments accumulate in Paid;
// the entry is settled when Remaining is zero or below. Paid greater than
// Amount is a permitted state, not an error.
type Debt struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Paid       decimal.Decimal `json:"paid"`
	CreatedAt  time.Time       `json:"created_at"`
	IsArchived bool            `json:"is_archived"`
	// MergedFrom lists the ids of the entries this debt consolidated.
	// Empty for entries that were created directly.
	MergedFrom []string `json:"merged_from,omitempty"`
}

// Remaining returns the unpaid portion.
func (d *Debt) Remaining() decimal.Decimal {
	return d.Amount.Sub(d.Paid)
}

// Settled reports whether nothing remains to pay.
func (d *Debt) Settled() bool {
	return d.Remaining().LessThanOrEqual(decimal.Zero)
}

// Customer holds a single-currency list of debts. Customers are looked up by
// (name, currency); creating an existing pair returns the existing customer.
type Customer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Currency   string    `json:"currency"`
	IsArchived bool      `json:"is_archived"`
	Debts      []*Debt   `json:"debts"`
	CreatedAt  time.Time `json:"created_at"`
}

// Debt returns the debt with the given id, or nil.
func (c *Customer) Debt(id string) *Debt {
	for _, d := range c.Debts {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Receivable is an amount the desk owes an external party. The debtor is
// identified by (name, currency) string match, not by id, so receivables can
// reference parties that are not customers.
type Receivable struct {
	ID         string          `json:"id"`
	Debtor     string          `json:"debtor"`
	Amount     decimal.Decimal `json:"amount"`
	Paid       decimal.Decimal `json:"paid"`
	Currency   string          `json:"currency"`
	CreatedAt  time.Time       `json:"created_at"`
	IsArchived bool            `json:"is_archived"`
	MergedFrom []string        `json:"merged_from,omitempty"`
}

// Remaining returns the unpaid portion.
func (r *Receivable) Remaining() decimal.Decimal {
	return r.Amount.Sub(r.Paid)
}

// Settled reports whether nothing remains to pay.
func (r *Receivable) Settled() bool {
	return r.Remaining().LessThanOrEqual(decimal.Zero)
}
