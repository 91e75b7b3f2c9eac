// Package book holds the desk's entire mutable state: cash and bank balances,
// customer debts, receivables, the append-only transaction log and auxiliary
// records. It is a pure data structure; business policy lives in usecase.
//
// A Book is not safe for concurrent use. The usecase layer owns one live Book
// behind a mutex and mutates clones, committing a clone only after a whole
// operation succeeded.
package book

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/domain"
)

// Book is the state aggregate.
type Book struct {
	Balances        map[domain.Asset]decimal.Decimal `json:"assets"`
	Banks           []*domain.Bank                   `json:"banks"`
	Customers       []*domain.Customer               `json:"customers"`
	Receivables     []*domain.Receivable             `json:"receivables"`
	Transactions    []*domain.Transaction            `json:"transactions"`
	PosTransactions []*domain.PosTransaction         `json:"pos_transactions"`
	DollarCards     []*domain.DollarCard             `json:"dollar_cards"`
	OperatingCosts  []*domain.OperatingCost          `json:"operating_costs"`
	PendingTrades   []*domain.PendingTrade           `json:"pending_trades"`
}

// New returns an empty book with all cash assets at zero.
func New() *Book {
	b := &Book{
		Balances: make(map[domain.Asset]decimal.Decimal),
	}
	for _, a := range domain.CashAssets {
		b.Balances[a] = decimal.Zero
	}
	return b
}

// Clone returns a deep copy via a JSON round trip. Every field of the book is
// serializable; the snapshot format doubles as the copy mechanism.
func (b *Book) Clone() (*Book, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("clone book: %w", err)
	}

	clone := &Book{}
	if err := json.Unmarshal(data, clone); err != nil {
		return nil, fmt.Errorf("clone book: %w", err)
	}
	if clone.Balances == nil {
		clone.Balances = make(map[domain.Asset]decimal.Decimal)
	}

	return clone, nil
}
