package book

import (
	"github.com/sarraf/treasury/internal/domain"
)

// Append adds a transaction to the log. The log is append-only; nothing ever
// removes entries.
func (b *Book) Append(tx *domain.Transaction) {
	b.Transactions = append(b.Transactions, tx)
}

// Group returns the transactions sharing a group id, in append order.
func (b *Book) Group(groupID string) []*domain.Transaction {
	var out []*domain.Transaction
	for _, tx := range b.Transactions {
		if tx.GroupID == groupID {
			out = append(out, tx)
		}
	}
	return out
}

// Transaction returns the log entry with the given id, or nil.
func (b *Book) Transaction(id string) *domain.Transaction {
	for _, tx := range b.Transactions {
		if tx.ID == id {
			return tx
		}
	}
	return nil
}
