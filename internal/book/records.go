package book

import (
	"fmt"

	"github.com/sarraf/treasury/internal/domain"
)

// PosTransaction returns the POS detail row with the given id, or nil.
func (b *Book) PosTransaction(id string) *domain.PosTransaction {
	for _, p := range b.PosTransactions {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePosTransaction deletes a POS detail row.
func (b *Book) RemovePosTransaction(id string) error {
	for i, p := range b.PosTransactions {
		if p.ID == id {
			b.PosTransactions = append(b.PosTransactions[:i], b.PosTransactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("pos transaction %s: not found", id)
}

// DollarCard returns the card with the given id, or nil.
func (b *Book) DollarCard(id string) *domain.DollarCard {
	for _, c := range b.DollarCards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// OperatingCost returns the cost row with the given id, or nil.
func (b *Book) OperatingCost(id string) *domain.OperatingCost {
	for _, c := range b.OperatingCosts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RemoveOperatingCost deletes a cost row.
func (b *Book) RemoveOperatingCost(id string) error {
	for i, c := range b.OperatingCosts {
		if c.ID == id {
			b.OperatingCosts = append(b.OperatingCosts[:i], b.OperatingCosts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("operating cost %s: not found", id)
}

// PendingTrade returns the pending trade with the given id, or nil.
func (b *Book) PendingTrade(id string) *domain.PendingTrade {
	for _, p := range b.PendingTrades {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePendingTrade deletes a pending trade after it was confirmed or
// discarded.
func (b *Book) RemovePendingTrade(id string) error {
	for i, p := range b.PendingTrades {
		if p.ID == id {
			b.PendingTrades = append(b.PendingTrades[:i], b.PendingTrades[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrPendingTradeNotFound, id)
}
