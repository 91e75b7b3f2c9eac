package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

// DeleteTransactionGroup undoes everything a transaction group did: balance
// deltas are inverted, settlements unpaid, spawned rows removed through the
// merge lineage, and every entry flagged deleted. Deleting an already-deleted
// group is a no-op.
func (s *Service) DeleteTransactionGroup(groupID string) error {
	err := s.mutate("delete_group", func(b *book.Book) error {
		return s.doDeleteGroup(b, groupID)
	})
	if err == nil && s.metrics != nil {
		s.metrics.GroupsDeleted.Inc()
	}
	return err
}

// RestoreTransactionGroup is the exact forward mirror of delete: balance
// deltas are re-applied, settlements re-paid, removed rows re-inserted from
// metadata, and the deleted flags cleared. Restoring an active group is a
// no-op.
func (s *Service) RestoreTransactionGroup(groupID string) error {
	err := s.mutate("restore_group", func(b *book.Book) error {
		return s.doRestoreGroup(b, groupID)
	})
	if err == nil && s.metrics != nil {
		s.metrics.GroupsRestored.Inc()
	}
	return err
}

func (s *Service) doDeleteGroup(b *book.Book, groupID string) error {
	txs := b.Group(groupID)
	if len(txs) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrGroupNotFound, groupID)
	}

	active := make([]*domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.IsDeleted {
			active = append(active, tx)
		}
	}
	if len(active) == 0 {
		return nil
	}

	now := s.clock.Now()
	for _, tx := range active {
		if tx.Asset.IsSentinel() {
			continue
		}
		if err := b.Adjust(tx.Asset, tx.Amount.Neg(), now); err != nil {
			return fmt.Errorf("delete group %s: %w", groupID, err)
		}
	}

	// Several entries of one group can describe the same logical effect, a
	// payment and its surplus deposit for example. Unwind each effect once.
	seen := make(map[string]bool)
	for _, tx := range active {
		key := dedupKey(tx.Meta)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if err := s.unwindEffect(b, tx); err != nil {
			return fmt.Errorf("delete group %s: %w", groupID, err)
		}
	}

	for _, tx := range active {
		tx.IsDeleted = true
	}
	return nil
}

func (s *Service) doRestoreGroup(b *book.Book, groupID string) error {
	txs := b.Group(groupID)
	if len(txs) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrGroupNotFound, groupID)
	}

	deleted := make([]*domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.IsDeleted {
			deleted = append(deleted, tx)
		}
	}
	if len(deleted) == 0 {
		return nil
	}

	now := s.clock.Now()
	for _, tx := range deleted {
		if tx.Asset.IsSentinel() {
			continue
		}
		if err := b.Adjust(tx.Asset, tx.Amount, now); err != nil {
			return fmt.Errorf("restore group %s: %w", groupID, err)
		}
	}

	seen := make(map[string]bool)
	for _, tx := range deleted {
		key := dedupKey(tx.Meta)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if err := s.replayEffect(b, tx); err != nil {
			return fmt.Errorf("restore group %s: %w", groupID, err)
		}
	}

	for _, tx := range deleted {
		tx.IsDeleted = false
	}
	return nil
}

func dedupKey(m domain.TxMeta) string {
	id := m.PrimaryEntityID()
	if id == "" {
		return ""
	}
	return string(m.GroupType) + "|" + id
}

// unwindEffect reverses the ledger side effects one metadata payload
// describes. Balance deltas are already handled by the caller.
func (s *Service) unwindEffect(b *book.Book, tx *domain.Transaction) error {
	m := tx.Meta
	switch m.GroupType {
	case domain.GroupNewDebt:
		return s.removeCreatedDebt(b, tx)

	case domain.GroupNewReceivable:
		return s.removeCreatedReceivable(b, tx)

	case domain.GroupDebtPayment:
		if m.Paid.IsPositive() {
			if err := unpayDebt(b, m.DebtID, m.Paid); err != nil {
				return err
			}
		}
		if m.CreatedReceivableID != "" {
			return s.removeCreatedReceivable(b, tx)
		}
		return nil

	case domain.GroupReceivablePayment:
		if m.Paid.IsPositive() {
			if err := unpayReceivable(b, m.ReceivableID, m.Paid); err != nil {
				return err
			}
		}
		if m.CreatedDebtID != "" {
			return s.removeCreatedDebt(b, tx)
		}
		return nil

	case domain.GroupSellUSD, domain.GroupSellOther:
		if m.ReceivableID != "" && m.Paid.IsPositive() {
			if err := unpayReceivable(b, m.ReceivableID, m.Paid); err != nil {
				return err
			}
		}
		if m.CreatedDebtID != "" {
			return s.removeCreatedDebt(b, tx)
		}
		return nil

	case domain.GroupBuyUSD, domain.GroupBuyOther:
		if m.DebtID != "" && m.Paid.IsPositive() {
			if err := unpayDebt(b, m.DebtID, m.Paid); err != nil {
				return err
			}
		}
		if m.CreatedReceivableID != "" {
			return s.removeCreatedReceivable(b, tx)
		}
		return nil

	case domain.GroupUSDExchange, domain.GroupEURExchange:
		if m.CreatedDebtID != "" {
			return s.removeCreatedDebt(b, tx)
		}
		if m.CreatedReceivableID != "" {
			return s.removeCreatedReceivable(b, tx)
		}
		return nil

	case domain.GroupSingleDebtConversion:
		if m.DebtID != "" && m.Paid.IsPositive() {
			return unpayDebt(b, m.DebtID, m.Paid)
		}
		if m.CreatedDebtID != "" {
			return s.removeCreatedDebt(b, tx)
		}
		return nil

	case domain.GroupPOSTransaction:
		return b.RemovePosTransaction(m.PosID)

	case domain.GroupOperatingCost:
		return b.RemoveOperatingCost(m.CostID)

	case domain.GroupDollarCardPayment:
		card := b.DollarCard(m.CardID)
		if card == nil {
			return fmt.Errorf("%w: %s", domain.ErrDollarCardNotFound, m.CardID)
		}
		card.PaidLYD = card.PaidLYD.Sub(m.Paid)
		return nil

	case domain.GroupDollarCardComplete:
		card := b.DollarCard(m.CardID)
		if card == nil {
			return fmt.Errorf("%w: %s", domain.ErrDollarCardNotFound, m.CardID)
		}
		card.Completed = false
		return nil

	case domain.GroupAdjustBalance, domain.GroupBankTransfer:
		return nil

	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownGroupType, m.GroupType)
	}
}

// replayEffect re-applies the ledger side effects one metadata payload
// describes, the forward mirror of unwindEffect.
func (s *Service) replayEffect(b *book.Book, tx *domain.Transaction) error {
	m := tx.Meta
	switch m.GroupType {
	case domain.GroupNewDebt:
		return s.reinsertDebt(b, tx)

	case domain.GroupNewReceivable:
		return s.reinsertReceivable(b, tx)

	case domain.GroupDebtPayment:
		if m.Paid.IsPositive() {
			if err := repayDebt(b, m.DebtID, m.Paid); err != nil {
				return err
			}
		}
		if m.CreatedReceivableID != "" {
			return s.reinsertReceivable(b, tx)
		}
		return nil

	case domain.GroupReceivablePayment:
		if m.Paid.IsPositive() {
			if err := repayReceivable(b, m.ReceivableID, m.Paid); err != nil {
				return err
			}
		}
		if m.CreatedDebtID != "" {
			return s.reinsertDebt(b, tx)
		}
		return nil

	case domain.GroupSellUSD, domain.GroupSellOther:
		if m.ReceivableID != "" && m.Paid.IsPositive() {
			if err := repayReceivable(b, m.ReceivableID, m.Paid); err != nil {
				return err
			}
		}
		if m.CreatedDebtID != "" {
			return s.reinsertDebt(b, tx)
		}
		return nil

	case domain.GroupBuyUSD, domain.GroupBuyOther:
		if m.DebtID != "" && m.Paid.IsPositive() {
			if err := repayDebt(b, m.DebtID, m.Paid); err != nil {
				return err
			}
		}
		if m.CreatedReceivableID != "" {
			return s.reinsertReceivable(b, tx)
		}
		return nil

	case domain.GroupUSDExchange, domain.GroupEURExchange:
		if m.CreatedDebtID != "" {
			return s.reinsertDebt(b, tx)
		}
		if m.CreatedReceivableID != "" {
			return s.reinsertReceivable(b, tx)
		}
		return nil

	case domain.GroupSingleDebtConversion:
		if m.DebtID != "" && m.Paid.IsPositive() {
			return repayDebt(b, m.DebtID, m.Paid)
		}
		if m.CreatedDebtID != "" {
			return s.reinsertDebt(b, tx)
		}
		return nil

	case domain.GroupPOSTransaction:
		b.PosTransactions = append(b.PosTransactions, &domain.PosTransaction{
			ID:        m.PosID,
			BankID:    m.BankID,
			Amount:    tx.Amount,
			Party:     tx.Party,
			CreatedAt: tx.CreatedAt,
		})
		return nil

	case domain.GroupOperatingCost:
		b.OperatingCosts = append(b.OperatingCosts, &domain.OperatingCost{
			ID:          m.CostID,
			Description: tx.Description,
			Amount:      tx.Amount.Neg(),
			Asset:       tx.Asset,
			CreatedAt:   tx.CreatedAt,
		})
		return nil

	case domain.GroupDollarCardPayment:
		card := b.DollarCard(m.CardID)
		if card == nil {
			return fmt.Errorf("%w: %s", domain.ErrDollarCardNotFound, m.CardID)
		}
		card.PaidLYD = card.PaidLYD.Add(m.Paid)
		return nil

	case domain.GroupDollarCardComplete:
		card := b.DollarCard(m.CardID)
		if card == nil {
			return fmt.Errorf("%w: %s", domain.ErrDollarCardNotFound, m.CardID)
		}
		card.Completed = true
		return nil

	case domain.GroupAdjustBalance, domain.GroupBankTransfer:
		return nil

	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownGroupType, m.GroupType)
	}
}

// removeCreatedDebt takes a spawned debt back out of the ledger, capturing the
// row's paid amount, position, and archived flag in the metadata so a later
// restore rebuilds it exactly. If later merges absorbed the row, its
// contribution is subtracted from the final active successor first.
func (s *Service) removeCreatedDebt(b *book.Book, tx *domain.Transaction) error {
	m := tx.Meta
	c := b.Customer(m.CustomerID)
	if c == nil {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, m.CustomerID)
	}
	successor, err := b.FinalActiveDebtSuccessor(c, m.CreatedDebtID)
	if err != nil {
		return err
	}
	if successor != nil {
		successor.Amount = successor.Amount.Sub(m.Contributed)
	}

	removed, index, err := b.RemoveDebt(m.CreatedDebtID)
	if err != nil {
		return err
	}
	tx.Meta.RemovedPaid = removed.Paid
	tx.Meta.RemovedIndex = index
	tx.Meta.RemovedArchived = removed.IsArchived
	return nil
}

func (s *Service) removeCreatedReceivable(b *book.Book, tx *domain.Transaction) error {
	m := tx.Meta
	successor, err := b.FinalActiveReceivableSuccessor(m.CreatedReceivableID)
	if err != nil {
		return err
	}
	if successor != nil {
		successor.Amount = successor.Amount.Sub(m.Contributed)
	}

	removed, index, err := b.RemoveReceivable(m.CreatedReceivableID)
	if err != nil {
		return err
	}
	tx.Meta.RemovedPaid = removed.Paid
	tx.Meta.RemovedIndex = index
	tx.Meta.RemovedArchived = removed.IsArchived
	return nil
}

// reinsertDebt re-creates a debt row a deletion removed, rebuilding it from
// the state recorded at removal time: payments already made against the row
// and its position both survive the round trip. If the lineage still points
// at an active successor, the contribution goes back onto the successor.
func (s *Service) reinsertDebt(b *book.Book, tx *domain.Transaction) error {
	m := tx.Meta
	c := b.Customer(m.CustomerID)
	if c == nil {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, m.CustomerID)
	}

	debt := &domain.Debt{
		ID:         m.CreatedDebtID,
		Amount:     m.Contributed,
		Paid:       m.RemovedPaid,
		CreatedAt:  tx.CreatedAt,
		IsArchived: m.RemovedArchived,
	}
	if err := b.InsertDebtAt(c.ID, m.RemovedIndex, debt); err != nil {
		return err
	}

	successor, err := b.FinalActiveDebtSuccessor(c, debt.ID)
	if err != nil {
		return err
	}
	if successor != nil {
		successor.Amount = successor.Amount.Add(m.Contributed)
		debt.IsArchived = true
	}

	clearRemovedState(tx)
	return nil
}

func (s *Service) reinsertReceivable(b *book.Book, tx *domain.Transaction) error {
	m := tx.Meta
	r := &domain.Receivable{
		ID:         m.CreatedReceivableID,
		Debtor:     m.Debtor,
		Amount:     m.Contributed,
		Paid:       m.RemovedPaid,
		Currency:   m.Currency,
		CreatedAt:  tx.CreatedAt,
		IsArchived: m.RemovedArchived,
	}
	b.InsertReceivableAt(m.RemovedIndex, r)

	successor, err := b.FinalActiveReceivableSuccessor(r.ID)
	if err != nil {
		return err
	}
	if successor != nil {
		successor.Amount = successor.Amount.Add(m.Contributed)
		r.IsArchived = true
	}

	clearRemovedState(tx)
	return nil
}

// clearRemovedState resets the captured row state once a restore consumed it,
// so delete followed by restore leaves the metadata as it started. The next
// delete records it afresh.
func clearRemovedState(tx *domain.Transaction) {
	tx.Meta.RemovedPaid = decimal.Zero
	tx.Meta.RemovedIndex = 0
	tx.Meta.RemovedArchived = false
}

func unpayDebt(b *book.Book, debtID string, paid decimal.Decimal) error {
	_, debt := b.FindDebt(debtID)
	if debt == nil {
		return fmt.Errorf("%w: %s", domain.ErrDebtNotFound, debtID)
	}
	debt.Paid = debt.Paid.Sub(paid)
	return nil
}

func repayDebt(b *book.Book, debtID string, paid decimal.Decimal) error {
	_, debt := b.FindDebt(debtID)
	if debt == nil {
		return fmt.Errorf("%w: %s", domain.ErrDebtNotFound, debtID)
	}
	debt.Paid = debt.Paid.Add(paid)
	return nil
}

func unpayReceivable(b *book.Book, id string, paid decimal.Decimal) error {
	r := b.Receivable(id)
	if r == nil {
		return fmt.Errorf("%w: %s", domain.ErrReceivableNotFound, id)
	}
	r.Paid = r.Paid.Sub(paid)
	return nil
}

func repayReceivable(b *book.Book, id string, paid decimal.Decimal) error {
	r := b.Receivable(id)
	if r == nil {
		return fmt.Errorf("%w: %s", domain.ErrReceivableNotFound, id)
	}
	r.Paid = r.Paid.Add(paid)
	return nil
}
