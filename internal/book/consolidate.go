package book

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/domain"
)

// ConsolidateDebts merges all unpaid, unarchived debts of a customer into one
// successor entry carrying the sum of their remaining balances. The originals
// are archived with amounts untouched; the successor records their ids in
// MergedFrom. Returns nil when one or fewer unpaid entries exist.
func (b *Book) ConsolidateDebts(c *domain.Customer, successorID string, now time.Time) *domain.Debt {
	var open []*domain.Debt
	for _, d := range c.Debts {
		if !d.IsArchived && !d.Settled() {
			open = append(open, d)
		}
	}
	if len(open) <= 1 {
		return nil
	}

	total := decimal.Zero
	ids := make([]string, 0, len(open))
	for _, d := range open {
		total = total.Add(d.Remaining())
		ids = append(ids, d.ID)
		d.IsArchived = true
	}

	successor := &domain.Debt{
		ID:         successorID,
		Amount:     total,
		Paid:       decimal.Zero,
		CreatedAt:  now,
		MergedFrom: ids,
	}
	c.Debts = append(c.Debts, successor)
	return successor
}

// ConsolidateReceivables merges all unpaid, unarchived receivables for a
// (debtor, currency) key, mirroring ConsolidateDebts.
func (b *Book) ConsolidateReceivables(debtor, currency, successorID string, now time.Time) *domain.Receivable {
	debtor = strings.TrimSpace(debtor)

	var open []*domain.Receivable
	for _, r := range b.Receivables {
		if !r.IsArchived && !r.Settled() &&
			strings.EqualFold(r.Debtor, debtor) && r.Currency == currency {
			open = append(open, r)
		}
	}
	if len(open) <= 1 {
		return nil
	}

	total := decimal.Zero
	ids := make([]string, 0, len(open))
	for _, r := range open {
		total = total.Add(r.Remaining())
		ids = append(ids, r.ID)
		r.IsArchived = true
	}

	successor := &domain.Receivable{
		ID:         successorID,
		Debtor:     debtor,
		Amount:     total,
		Paid:       decimal.Zero,
		Currency:   currency,
		CreatedAt:  now,
		MergedFrom: ids,
	}
	b.Receivables = append(b.Receivables, successor)
	return successor
}

// FinalActiveDebtSuccessor walks the merge lineage starting from a debt id:
// repeatedly find the entry whose MergedFrom lists the previous id, until none
// is found or the found one is unarchived. Returns nil when the chain has no
// active successor, which includes the case of an entry that was never merged.
func (b *Book) FinalActiveDebtSuccessor(c *domain.Customer, debtID string) (*domain.Debt, error) {
	visited := map[string]bool{debtID: true}
	cur := debtID

	for {
		next := debtMergeParent(c, cur)
		if next == nil {
			return nil, nil
		}
		if visited[next.ID] {
			return nil, domain.ErrLineageCycle
		}
		visited[next.ID] = true

		if !next.IsArchived {
			return next, nil
		}
		cur = next.ID
	}
}

func debtMergeParent(c *domain.Customer, id string) *domain.Debt {
	for _, d := range c.Debts {
		for _, from := range d.MergedFrom {
			if from == id {
				return d
			}
		}
	}
	return nil
}

// FinalActiveReceivableSuccessor is the receivable counterpart of
// FinalActiveDebtSuccessor.
func (b *Book) FinalActiveReceivableSuccessor(id string) (*domain.Receivable, error) {
	visited := map[string]bool{id: true}
	cur := id

	for {
		next := b.receivableMergeParent(cur)
		if next == nil {
			return nil, nil
		}
		if visited[next.ID] {
			return nil, domain.ErrLineageCycle
		}
		visited[next.ID] = true

		if !next.IsArchived {
			return next, nil
		}
		cur = next.ID
	}
}

func (b *Book) receivableMergeParent(id string) *domain.Receivable {
	for _, r := range b.Receivables {
		for _, from := range r.MergedFrom {
			if from == id {
				return r
			}
		}
	}
	return nil
}
