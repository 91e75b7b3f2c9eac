package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/domain"
)

// Bank returns the bank with the given id, or nil.
func (b *Book) Bank(id string) *domain.Bank {
	for _, bank := range b.Banks {
		if bank.ID == id {
			return bank
		}
	}
	return nil
}

// AddBank appends a bank with a zero balance.
func (b *Book) AddBank(id, name string, isPOS bool, now time.Time) *domain.Bank {
	bank := &domain.Bank{
		ID:        id,
		Name:      name,
		Balance:   decimal.Zero,
		IsPOS:     isPOS,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Banks = append(b.Banks, bank)
	return bank
}

// UpdateBank renames a bank and/or toggles its POS eligibility.
func (b *Book) UpdateBank(id, name string, isPOS bool, now time.Time) error {
	bank := b.Bank(id)
	if bank == nil {
		return fmt.Errorf("%w: %s", domain.ErrBankNotFound, id)
	}
	bank.Name = name
	bank.IsPOS = isPOS
	bank.UpdatedAt = now
	return nil
}

// DeleteBank removes a bank outright.
func (b *Book) DeleteBank(id string) error {
	for i, bank := range b.Banks {
		if bank.ID == id {
			b.Banks = append(b.Banks[:i], b.Banks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrBankNotFound, id)
}
