package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

// SurplusMode says what happens to the part of a payment beyond the target's
// remaining balance.
type SurplusMode string

const (
	// SurplusDeposit routes the surplus to a cash or bank asset.
	SurplusDeposit SurplusMode = "deposit"
	// SurplusProfit deposits the surplus and flags it as profit.
	SurplusProfit SurplusMode = "profit"
	// SurplusReceivable records the surplus as a new receivable owed back to
	// the payer (debt payments only).
	SurplusReceivable SurplusMode = "receivable"
	// SurplusDebt records the surplus as a new debt owed by the payee
	// (receivable payments only).
	SurplusDebt SurplusMode = "debt"
)

// SurplusSpec configures surplus handling. Zero value means the operation
// clamps the payment to the remaining balance.
type SurplusSpec struct {
	Mode  SurplusMode  `json:"mode,omitempty"`
	Asset domain.Asset `json:"asset,omitempty"`
}

// AddBank creates a bank account and returns its id.
func (s *Service) AddBank(name string, isPOS bool) (string, error) {
	id := s.idGen.Generate()
	err := s.mutate("add_bank", func(b *book.Book) error {
		b.AddBank(id, name, isPOS, s.clock.Now())
		return nil
	})
	return id, err
}

// UpdateBank renames a bank and/or toggles POS eligibility.
func (s *Service) UpdateBank(id, name string, isPOS bool) error {
	return s.mutate("update_bank", func(b *book.Book) error {
		return b.UpdateBank(id, name, isPOS, s.clock.Now())
	})
}

// DeleteBank removes a bank.
func (s *Service) DeleteBank(id string) error {
	return s.mutate("delete_bank", func(b *book.Book) error {
		return b.DeleteBank(id)
	})
}

// AddCustomer returns the id of the customer for (name, currency), creating
// one when the pair is unknown.
func (s *Service) AddCustomer(name, currency string) (string, error) {
	if err := domain.ValidateCurrency(currency); err != nil {
		return "", err
	}

	var id string
	newID := s.idGen.Generate()
	err := s.mutate("add_customer", func(b *book.Book) error {
		c := b.EnsureCustomer(newID, name, currency, s.clock.Now())
		id = c.ID
		return nil
	})
	return id, err
}

// SetCustomerArchived toggles a customer's archived flag.
func (s *Service) SetCustomerArchived(id string, archived bool) error {
	return s.mutate("archive_customer", func(b *book.Book) error {
		c := b.Customer(id)
		if c == nil {
			return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, id)
		}
		c.IsArchived = archived
		return nil
	})
}

// AddDebtInput registers a standalone debt on a customer.
type AddDebtInput struct {
	CustomerID  string          `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// AddDebt appends a debt and consolidates the customer's open entries.
// Returns the id of the active debt holding the amount after any merge.
func (s *Service) AddDebt(input AddDebtInput) (string, error) {
	var finalID string
	err := s.mutate(TradeAddDebt, func(b *book.Book) error {
		id, err := s.doAddDebt(b, input)
		finalID = id
		return err
	})
	return finalID, err
}

func (s *Service) doAddDebt(b *book.Book, input AddDebtInput) (string, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return "", err
	}
	c := b.Customer(input.CustomerID)
	if c == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, input.CustomerID)
	}

	now := s.clock.Now()
	debtID := s.idGen.Generate()
	c.Debts = append(c.Debts, &domain.Debt{
		ID:        debtID,
		Amount:    input.Amount,
		Paid:      decimal.Zero,
		CreatedAt: now,
	})

	finalID := debtID
	if merged := b.ConsolidateDebts(c, s.idGen.Generate(), now); merged != nil {
		finalID = merged.ID
	}

	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount,
		Currency:    c.Currency,
		Description: input.Description,
		Party:       c.Name,
		Asset:       domain.AssetExternalDebt,
		GroupID:     s.groupGen.Generate(),
		Meta: domain.TxMeta{
			GroupType:     domain.GroupNewDebt,
			CustomerID:    c.ID,
			CreatedDebtID: debtID,
			Contributed:   input.Amount,
			Currency:      c.Currency,
		},
	})

	return finalID, nil
}

// AddReceivableInput registers an amount the desk owes an external party.
type AddReceivableInput struct {
	Debtor      string          `json:"debtor"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
}

// AddReceivable appends a receivable and consolidates the (debtor, currency)
// key. Returns the id of the active entry after any merge.
func (s *Service) AddReceivable(input AddReceivableInput) (string, error) {
	var finalID string
	err := s.mutate(TradeAddReceivable, func(b *book.Book) error {
		id, err := s.doAddReceivable(b, input)
		finalID = id
		return err
	})
	return finalID, err
}

func (s *Service) doAddReceivable(b *book.Book, input AddReceivableInput) (string, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return "", err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return "", err
	}

	now := s.clock.Now()
	id := s.idGen.Generate()
	b.InsertReceivable(&domain.Receivable{
		ID:        id,
		Debtor:    input.Debtor,
		Amount:    input.Amount,
		Paid:      decimal.Zero,
		Currency:  input.Currency,
		CreatedAt: now,
	})

	finalID := id
	if merged := b.ConsolidateReceivables(input.Debtor, input.Currency, s.idGen.Generate(), now); merged != nil {
		finalID = merged.ID
	}

	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount.Neg(),
		Currency:    input.Currency,
		Description: input.Description,
		Party:       input.Debtor,
		Asset:       domain.AssetExternalReceivable,
		GroupID:     s.groupGen.Generate(),
		Meta: domain.TxMeta{
			GroupType:           domain.GroupNewReceivable,
			Debtor:              input.Debtor,
			CreatedReceivableID: id,
			Contributed:         input.Amount,
			Currency:            input.Currency,
		},
	})

	return finalID, nil
}

// PayDebtInput pays down a customer's debt. The received money lands on
// DestAsset (cash or bank). Amounts beyond the remaining balance follow the
// Surplus spec.
type PayDebtInput struct {
	CustomerID  string          `json:"customer_id"`
	DebtID      string          `json:"debt_id"`
	Amount      decimal.Decimal `json:"amount"`
	DestAsset   domain.Asset    `json:"dest_asset"`
	Surplus     SurplusSpec     `json:"surplus,omitempty"`
	Description string          `json:"description,omitempty"`
}

// PayDebt settles min(amount, remaining) against the debt and routes any
// surplus per the spec.
func (s *Service) PayDebt(input PayDebtInput) error {
	return s.mutate(TradePayDebt, func(b *book.Book) error {
		return s.doPayDebt(b, input)
	})
}

func (s *Service) doPayDebt(b *book.Book, input PayDebtInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	c := b.Customer(input.CustomerID)
	if c == nil {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, input.CustomerID)
	}
	debt := c.Debt(input.DebtID)
	if debt == nil {
		return fmt.Errorf("%w: %s", domain.ErrDebtNotFound, input.DebtID)
	}

	remaining := debt.Remaining()
	settle := decimal.Min(input.Amount, decimal.Max(remaining, decimal.Zero))
	surplus := input.Amount.Sub(settle)

	groupID := s.groupGen.Generate()

	if settle.IsPositive() {
		debt.Paid = debt.Paid.Add(settle)
		if err := b.Adjust(input.DestAsset, settle, s.clock.Now()); err != nil {
			return err
		}
		s.appendTx(b, &domain.Transaction{
			Amount:      settle,
			Currency:    c.Currency,
			Description: input.Description,
			Party:       c.Name,
			Asset:       input.DestAsset,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:  domain.GroupDebtPayment,
				CustomerID: c.ID,
				DebtID:     debt.ID,
				Paid:       settle,
			},
		})
	}

	if !surplus.IsPositive() {
		return nil
	}

	switch input.Surplus.Mode {
	case "":
		// No surplus handling requested: clamp to the remaining balance.
		return nil

	case SurplusDeposit, SurplusProfit:
		asset := input.Surplus.Asset
		if asset == "" {
			asset = input.DestAsset
		}
		if err := b.Adjust(asset, surplus, s.clock.Now()); err != nil {
			return err
		}
		s.appendTx(b, &domain.Transaction{
			Amount:      surplus,
			Currency:    c.Currency,
			Description: input.Description,
			Party:       c.Name,
			Asset:       asset,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:  domain.GroupDebtPayment,
				CustomerID: c.ID,
				DebtID:     debt.ID,
				IsSurplus:  true,
				IsProfit:   input.Surplus.Mode == SurplusProfit,
			},
		})
		return nil

	case SurplusReceivable:
		// The desk received the overpayment and owes it back.
		if err := b.Adjust(input.DestAsset, surplus, s.clock.Now()); err != nil {
			return err
		}
		now := s.clock.Now()
		rid := s.idGen.Generate()
		b.InsertReceivable(&domain.Receivable{
			ID:        rid,
			Debtor:    c.Name,
			Amount:    surplus,
			Paid:      decimal.Zero,
			Currency:  c.Currency,
			CreatedAt: now,
		})
		b.ConsolidateReceivables(c.Name, c.Currency, s.idGen.Generate(), now)

		s.appendTx(b, &domain.Transaction{
			Amount:      surplus,
			Currency:    c.Currency,
			Description: input.Description,
			Party:       c.Name,
			Asset:       input.DestAsset,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:           domain.GroupDebtPayment,
				CustomerID:          c.ID,
				DebtID:              debt.ID,
				Debtor:              c.Name,
				CreatedReceivableID: rid,
				Contributed:         surplus,
				Currency:            c.Currency,
				IsSurplus:           true,
			},
		})
		return nil

	default:
		return fmt.Errorf("pay debt: unsupported surplus mode %q", input.Surplus.Mode)
	}
}

// PayReceivableInput pays out part of what the desk owes. The money leaves
// SourceAsset (cash or bank).
type PayReceivableInput struct {
	ReceivableID string          `json:"receivable_id"`
	Amount       decimal.Decimal `json:"amount"`
	SourceAsset  domain.Asset    `json:"source_asset"`
	Surplus      SurplusSpec     `json:"surplus,omitempty"`
	Description  string          `json:"description,omitempty"`
}

// PayReceivable settles min(amount, remaining) against the receivable. An
// overpayment with SurplusDebt becomes a debt owed back by the party.
func (s *Service) PayReceivable(input PayReceivableInput) error {
	return s.mutate(TradePayReceivable, func(b *book.Book) error {
		return s.doPayReceivable(b, input)
	})
}

func (s *Service) doPayReceivable(b *book.Book, input PayReceivableInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	r := b.Receivable(input.ReceivableID)
	if r == nil {
		return fmt.Errorf("%w: %s", domain.ErrReceivableNotFound, input.ReceivableID)
	}

	remaining := r.Remaining()
	settle := decimal.Min(input.Amount, decimal.Max(remaining, decimal.Zero))
	surplus := input.Amount.Sub(settle)

	groupID := s.groupGen.Generate()

	if settle.IsPositive() {
		r.Paid = r.Paid.Add(settle)
		if err := b.Adjust(input.SourceAsset, settle.Neg(), s.clock.Now()); err != nil {
			return err
		}
		s.appendTx(b, &domain.Transaction{
			Amount:      settle.Neg(),
			Currency:    r.Currency,
			Description: input.Description,
			Party:       r.Debtor,
			Asset:       input.SourceAsset,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:    domain.GroupReceivablePayment,
				Debtor:       r.Debtor,
				ReceivableID: r.ID,
				Paid:         settle,
			},
		})
	}

	if !surplus.IsPositive() {
		return nil
	}

	switch input.Surplus.Mode {
	case "":
		return nil

	case SurplusDebt:
		// The desk paid out more than it owed; the party owes the rest back.
		if err := b.Adjust(input.SourceAsset, surplus.Neg(), s.clock.Now()); err != nil {
			return err
		}
		now := s.clock.Now()
		cust := b.EnsureCustomer(s.idGen.Generate(), r.Debtor, r.Currency, now)
		debtID := s.idGen.Generate()
		cust.Debts = append(cust.Debts, &domain.Debt{
			ID:        debtID,
			Amount:    surplus,
			Paid:      decimal.Zero,
			CreatedAt: now,
		})
		b.ConsolidateDebts(cust, s.idGen.Generate(), now)

		s.appendTx(b, &domain.Transaction{
			Amount:      surplus.Neg(),
			Currency:    r.Currency,
			Description: input.Description,
			Party:       r.Debtor,
			Asset:       input.SourceAsset,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:     domain.GroupReceivablePayment,
				ReceivableID:  r.ID,
				CustomerID:    cust.ID,
				CreatedDebtID: debtID,
				Contributed:   surplus,
				Currency:      r.Currency,
				IsSurplus:     true,
			},
		})
		return nil

	default:
		return fmt.Errorf("pay receivable: unsupported surplus mode %q", input.Surplus.Mode)
	}
}

// SetReceivableArchived toggles a receivable's archived flag without touching
// amounts.
func (s *Service) SetReceivableArchived(id string, archived bool) error {
	return s.mutate("archive_receivable", func(b *book.Book) error {
		r := b.Receivable(id)
		if r == nil {
			return fmt.Errorf("%w: %s", domain.ErrReceivableNotFound, id)
		}
		r.IsArchived = archived
		return nil
	})
}

// MergeCustomerDebts consolidates a customer's open debts on demand.
func (s *Service) MergeCustomerDebts(customerID string) error {
	return s.mutate("merge_customer_debts", func(b *book.Book) error {
		c := b.Customer(customerID)
		if c == nil {
			return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, customerID)
		}
		b.ConsolidateDebts(c, s.idGen.Generate(), s.clock.Now())
		return nil
	})
}

// MergeDebtorReceivables consolidates a (debtor, currency) key on demand.
func (s *Service) MergeDebtorReceivables(debtor, currency string) error {
	if err := domain.ValidateCurrency(currency); err != nil {
		return err
	}
	return s.mutate("merge_debtor_receivables", func(b *book.Book) error {
		b.ConsolidateReceivables(debtor, currency, s.idGen.Generate(), s.clock.Now())
		return nil
	})
}

// ConvertDebtInput moves part of a USD debt onto a (possibly different)
// customer as a new LYD debt at a caller-chosen rate. A cross-ledger
// transfer; no balance moves.
type ConvertDebtInput struct {
	CustomerID     string          `json:"customer_id"`
	DebtID         string          `json:"debt_id"`
	AmountUSD      decimal.Decimal `json:"amount_usd"`
	Rate           decimal.Decimal `json:"rate"`
	TargetCustomer string          `json:"target_customer"`
	Description    string          `json:"description,omitempty"`
}

// ConvertSingleUsdDebtToLyd marks AmountUSD of the USD debt paid and creates
// an equivalent LYD debt on the target customer.
func (s *Service) ConvertSingleUsdDebtToLyd(input ConvertDebtInput) error {
	return s.mutate(TradeConvertDebt, func(b *book.Book) error {
		return s.doConvertDebt(b, input)
	})
}

func (s *Service) doConvertDebt(b *book.Book, input ConvertDebtInput) error {
	if err := domain.ValidateAmount(input.AmountUSD); err != nil {
		return err
	}
	if err := domain.ValidateRate(input.Rate); err != nil {
		return err
	}
	c := b.Customer(input.CustomerID)
	if c == nil {
		return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, input.CustomerID)
	}
	debt := c.Debt(input.DebtID)
	if debt == nil {
		return fmt.Errorf("%w: %s", domain.ErrDebtNotFound, input.DebtID)
	}

	now := s.clock.Now()
	debt.Paid = debt.Paid.Add(input.AmountUSD)

	amountLYD := input.AmountUSD.Mul(input.Rate)
	target := b.EnsureCustomer(s.idGen.Generate(), input.TargetCustomer, domain.CurrencyLYD, now)
	newDebtID := s.idGen.Generate()
	target.Debts = append(target.Debts, &domain.Debt{
		ID:        newDebtID,
		Amount:    amountLYD,
		Paid:      decimal.Zero,
		CreatedAt: now,
	})
	b.ConsolidateDebts(target, s.idGen.Generate(), now)

	groupID := s.groupGen.Generate()
	s.appendTx(b, &domain.Transaction{
		Amount:      input.AmountUSD.Neg(),
		Currency:    domain.CurrencyUSD,
		Description: input.Description,
		Party:       c.Name,
		Asset:       domain.AssetSettlement,
		GroupID:     groupID,
		Meta: domain.TxMeta{
			GroupType:  domain.GroupSingleDebtConversion,
			CustomerID: c.ID,
			DebtID:     debt.ID,
			Paid:       input.AmountUSD,
			Rate:       input.Rate,
		},
	})
	s.appendTx(b, &domain.Transaction{
		Amount:      amountLYD,
		Currency:    domain.CurrencyLYD,
		Description: input.Description,
		Party:       target.Name,
		Asset:       domain.AssetExternalDebt,
		GroupID:     groupID,
		Meta: domain.TxMeta{
			GroupType:     domain.GroupSingleDebtConversion,
			CustomerID:    target.ID,
			CreatedDebtID: newDebtID,
			Contributed:   amountLYD,
			Currency:      domain.CurrencyLYD,
			Rate:          input.Rate,
		},
	})

	return nil
}
