package book

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/domain"
)

// Customer returns the customer with the given id, or nil.
func (b *Book) Customer(id string) *domain.Customer {
	for _, c := range b.Customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CustomerByName looks a customer up by (name, currency). Matching is
// case-insensitive on the trimmed name.
func (b *Book) CustomerByName(name, currency string) *domain.Customer {
	name = strings.TrimSpace(name)
	for _, c := range b.Customers {
		if strings.EqualFold(c.Name, name) && c.Currency == currency {
			return c
		}
	}
	return nil
}

// EnsureCustomer returns the customer for (name, currency), creating one with
// the supplied id when none exists. Creation is idempotent on the pair.
func (b *Book) EnsureCustomer(id, name, currency string, now time.Time) *domain.Customer {
	if c := b.CustomerByName(name, currency); c != nil {
		return c
	}
	c := &domain.Customer{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Currency:  currency,
		CreatedAt: now,
	}
	b.Customers = append(b.Customers, c)
	return c
}

// FindDebt locates a debt by id across all customers.
func (b *Book) FindDebt(debtID string) (*domain.Customer, *domain.Debt) {
	for _, c := range b.Customers {
		if d := c.Debt(debtID); d != nil {
			return c, d
		}
	}
	return nil, nil
}

// InsertDebtAt places an existing debt row at a position in the customer's
// list. Restoration uses this to put a removed row back where it was; an
// out-of-range index appends.
func (b *Book) InsertDebtAt(customerID string, index int, debt *domain.Debt) error {
	c := b.Customer(customerID)
	if c == nil {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
	}
	c.Debts = insertAt(c.Debts, index, debt)
	return nil
}

// RemoveDebt deletes a debt row outright and reports the removed row and its
// position in the customer's list. Only the reversal engine calls this.
func (b *Book) RemoveDebt(debtID string) (*domain.Debt, int, error) {
	for _, c := range b.Customers {
		for i, d := range c.Debts {
			if d.ID == debtID {
				c.Debts = append(c.Debts[:i], c.Debts[i+1:]...)
				return d, i, nil
			}
		}
	}
	return nil, 0, fmt.Errorf("%w: %s", domain.ErrDebtNotFound, debtID)
}

// Receivable returns the receivable with the given id, or nil.
func (b *Book) Receivable(id string) *domain.Receivable {
	for _, r := range b.Receivables {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// InsertReceivable appends an existing receivable row.
func (b *Book) InsertReceivable(r *domain.Receivable) {
	b.Receivables = append(b.Receivables, r)
}

// InsertReceivableAt places an existing receivable row at a position. An
// out-of-range index appends.
func (b *Book) InsertReceivableAt(index int, r *domain.Receivable) {
	b.Receivables = insertAt(b.Receivables, index, r)
}

// RemoveReceivable deletes a receivable row outright and reports the removed
// row and its position.
func (b *Book) RemoveReceivable(id string) (*domain.Receivable, int, error) {
	for i, r := range b.Receivables {
		if r.ID == id {
			b.Receivables = append(b.Receivables[:i], b.Receivables[i+1:]...)
			return r, i, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: %s", domain.ErrReceivableNotFound, id)
}

func insertAt[T any](list []T, index int, v T) []T {
	if index < 0 || index > len(list) {
		index = len(list)
	}
	list = append(list, v)
	copy(list[index+1:], list[index:])
	list[index] = v
	return list
}

// TotalDebts sums the remaining balance of unarchived debts in a currency.
func (b *Book) TotalDebts(currency string) decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Customers {
		if c.Currency != currency {
			continue
		}
		for _, d := range c.Debts {
			if !d.IsArchived {
				total = total.Add(d.Remaining())
			}
		}
	}
	return total
}

// TotalReceivables sums the remaining balance of unarchived receivables in a
// currency.
func (b *Book) TotalReceivables(currency string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range b.Receivables {
		if !r.IsArchived && r.Currency == currency {
			total = total.Add(r.Remaining())
		}
	}
	return total
}
