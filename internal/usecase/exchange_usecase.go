package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

// FeeMode says how an exchange fee is settled.
type FeeMode string

const (
	// FeeCash pays the fee immediately from an asset.
	FeeCash FeeMode = "cash"
	// FeeDebt records the fee as a debt the counterparty owes the desk.
	FeeDebt FeeMode = "debt"
	// FeeReceivable records the fee as a receivable the desk owes.
	FeeReceivable FeeMode = "receivable"
)

// FeeSpec configures the optional fee leg of an exchange. Zero value means no
// fee.
type FeeSpec struct {
	Mode      FeeMode         `json:"mode,omitempty"`
	Amount    decimal.Decimal `json:"amount,omitempty"`
	Asset     domain.Asset    `json:"asset,omitempty"`
	PartyName string          `json:"party_name,omitempty"`
	Currency  string          `json:"currency,omitempty"`
}

// ExchangeInput moves value between two assets of the same currency. ToAmount
// may differ from Amount; the difference is logged as profit or loss.
type ExchangeInput struct {
	FromAsset   domain.Asset    `json:"from_asset"`
	ToAsset     domain.Asset    `json:"to_asset"`
	Amount      decimal.Decimal `json:"amount"`
	ToAmount    decimal.Decimal `json:"to_amount"`
	Fee         FeeSpec         `json:"fee,omitempty"`
	Party       string          `json:"party,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ExchangeBetweenUsdAssets moves US dollars between the two USD cash pools.
func (s *Service) ExchangeBetweenUsdAssets(input ExchangeInput) error {
	return s.mutate(TradeUSDExchange, func(b *book.Book) error {
		return s.doExchange(b, domain.GroupUSDExchange, domain.CurrencyUSD, input)
	})
}

// ExchangeBetweenEurAssets moves euros between EUR-denominated assets.
func (s *Service) ExchangeBetweenEurAssets(input ExchangeInput) error {
	return s.mutate(TradeEURExchange, func(b *book.Book) error {
		return s.doExchange(b, domain.GroupEURExchange, domain.CurrencyEUR, input)
	})
}

func (s *Service) doExchange(b *book.Book, group domain.GroupType, currency string, input ExchangeInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	if err := domain.ValidateAmount(input.ToAmount); err != nil {
		return err
	}
	if input.FromAsset == input.ToAsset {
		return fmt.Errorf("exchange: identical assets %s: %w", input.FromAsset, domain.ErrInvalidAsset)
	}
	for _, a := range []domain.Asset{input.FromAsset, input.ToAsset} {
		if a.IsCash() && a.Currency() != currency {
			return fmt.Errorf("exchange: asset %s is not %s: %w", a, currency, domain.ErrInvalidAsset)
		}
	}

	now := s.clock.Now()
	groupID := s.groupGen.Generate()

	if err := b.Adjust(input.FromAsset, input.Amount.Neg(), now); err != nil {
		return err
	}
	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount.Neg(),
		Currency:    currency,
		Description: input.Description,
		Party:       input.Party,
		Asset:       input.FromAsset,
		GroupID:     groupID,
		Meta:        domain.TxMeta{GroupType: group},
	})

	if err := b.Adjust(input.ToAsset, input.ToAmount, now); err != nil {
		return err
	}
	s.appendTx(b, &domain.Transaction{
		Amount:      input.ToAmount,
		Currency:    currency,
		Description: input.Description,
		Party:       input.Party,
		Asset:       input.ToAsset,
		GroupID:     groupID,
		Meta:        domain.TxMeta{GroupType: group},
	})

	// The two sides need not match; the gap is the desk's gain or loss.
	if diff := input.ToAmount.Sub(input.Amount); !diff.IsZero() {
		s.appendTx(b, &domain.Transaction{
			Amount:      diff,
			Currency:    currency,
			Description: input.Description,
			Party:       input.Party,
			Asset:       domain.AssetExternalProfitLoss,
			GroupID:     groupID,
			Meta:        domain.TxMeta{GroupType: group, ProfitLoss: true},
		})
	}

	if input.Fee.Mode != "" && input.Fee.Amount.IsPositive() {
		return s.exchangeFee(b, group, groupID, input)
	}
	return nil
}

// exchangeFee appends the fee leg of an exchange. The fee never folds into
// the transfer amounts; it is its own transaction so a reversal can undo the
// branch taken.
func (s *Service) exchangeFee(b *book.Book, group domain.GroupType, groupID string, input ExchangeInput) error {
	fee := input.Fee
	now := s.clock.Now()
	currency := fee.Currency
	if currency == "" {
		currency = domain.CurrencyLYD
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return err
	}
	party := fee.PartyName
	if party == "" {
		party = input.Party
	}

	switch fee.Mode {
	case FeeCash:
		if err := b.Adjust(fee.Asset, fee.Amount.Neg(), now); err != nil {
			return err
		}
		s.appendTx(b, &domain.Transaction{
			Amount:      fee.Amount.Neg(),
			Currency:    currency,
			Description: input.Description,
			Party:       party,
			Asset:       fee.Asset,
			GroupID:     groupID,
			Meta:        domain.TxMeta{GroupType: group, IsSurplus: true},
		})
		return nil

	case FeeDebt:
		c := b.EnsureCustomer(s.idGen.Generate(), party, currency, now)
		debtID := s.idGen.Generate()
		c.Debts = append(c.Debts, &domain.Debt{
			ID:        debtID,
			Amount:    fee.Amount,
			Paid:      decimal.Zero,
			CreatedAt: now,
		})
		b.ConsolidateDebts(c, s.idGen.Generate(), now)

		s.appendTx(b, &domain.Transaction{
			Amount:      fee.Amount,
			Currency:    currency,
			Description: input.Description,
			Party:       c.Name,
			Asset:       domain.AssetExternalDebt,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:     group,
				CustomerID:    c.ID,
				CreatedDebtID: debtID,
				Contributed:   fee.Amount,
				Currency:      currency,
			},
		})
		return nil

	case FeeReceivable:
		rid := s.idGen.Generate()
		b.InsertReceivable(&domain.Receivable{
			ID:        rid,
			Debtor:    party,
			Amount:    fee.Amount,
			Paid:      decimal.Zero,
			Currency:  currency,
			CreatedAt: now,
		})
		b.ConsolidateReceivables(party, currency, s.idGen.Generate(), now)

		s.appendTx(b, &domain.Transaction{
			Amount:      fee.Amount.Neg(),
			Currency:    currency,
			Description: input.Description,
			Party:       party,
			Asset:       domain.AssetExternalReceivable,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:           group,
				Debtor:              party,
				CreatedReceivableID: rid,
				Contributed:         fee.Amount,
				Currency:            currency,
			},
		})
		return nil

	default:
		return fmt.Errorf("exchange: unsupported fee mode %q", fee.Mode)
	}
}

// BankTransferInput moves money between two bank accounts.
type BankTransferInput struct {
	FromBankID  string          `json:"from_bank_id"`
	ToBankID    string          `json:"to_bank_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// TransferBetweenBanks debits one bank and credits another by the same
// amount.
func (s *Service) TransferBetweenBanks(input BankTransferInput) error {
	return s.mutate(TradeBankTransfer, func(b *book.Book) error {
		return s.doBankTransfer(b, input)
	})
}

func (s *Service) doBankTransfer(b *book.Book, input BankTransferInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	if input.FromBankID == input.ToBankID {
		return fmt.Errorf("%w: %s", domain.ErrSameBank, input.FromBankID)
	}

	now := s.clock.Now()
	from := domain.BankAsset(input.FromBankID)
	to := domain.BankAsset(input.ToBankID)

	if err := b.Adjust(from, input.Amount.Neg(), now); err != nil {
		return err
	}
	if err := b.Adjust(to, input.Amount, now); err != nil {
		return err
	}

	groupID := s.groupGen.Generate()
	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount.Neg(),
		Currency:    domain.CurrencyLYD,
		Description: input.Description,
		Asset:       from,
		GroupID:     groupID,
		Meta: domain.TxMeta{
			GroupType:         domain.GroupBankTransfer,
			BankID:            input.FromBankID,
			CounterpartBankID: input.ToBankID,
		},
	})
	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount,
		Currency:    domain.CurrencyLYD,
		Description: input.Description,
		Asset:       to,
		GroupID:     groupID,
		Meta: domain.TxMeta{
			GroupType:         domain.GroupBankTransfer,
			BankID:            input.ToBankID,
			CounterpartBankID: input.FromBankID,
		},
	})
	return nil
}

// BankCashExchangeInput trades bank money (LYD) against foreign cash at a
// rate. BankAmount is the LYD side, CashAmount the foreign side.
type BankCashExchangeInput struct {
	BankID      string          `json:"bank_id"`
	CashAsset   domain.Asset    `json:"cash_asset"`
	BankAmount  decimal.Decimal `json:"bank_amount"`
	CashAmount  decimal.Decimal `json:"cash_amount"`
	Rate        decimal.Decimal `json:"rate"`
	Party       string          `json:"party,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ExchangeFromBankToCash pays LYD out of a bank and takes foreign cash in.
func (s *Service) ExchangeFromBankToCash(input BankCashExchangeInput) error {
	return s.mutate(TradeBankToCash, func(b *book.Book) error {
		return s.doBankCashExchange(b, input, true)
	})
}

// ExchangeFromCashToBank pays foreign cash out and takes LYD into a bank.
func (s *Service) ExchangeFromCashToBank(input BankCashExchangeInput) error {
	return s.mutate(TradeCashToBank, func(b *book.Book) error {
		return s.doBankCashExchange(b, input, false)
	})
}

func (s *Service) doBankCashExchange(b *book.Book, input BankCashExchangeInput, bankToCash bool) error {
	if err := domain.ValidateAmount(input.BankAmount); err != nil {
		return err
	}
	if err := domain.ValidateAmount(input.CashAmount); err != nil {
		return err
	}
	if err := domain.ValidateRate(input.Rate); err != nil {
		return err
	}

	var group domain.GroupType
	switch input.CashAsset.Currency() {
	case domain.CurrencyUSD:
		group = domain.GroupUSDExchange
	case domain.CurrencyEUR:
		group = domain.GroupEURExchange
	default:
		return fmt.Errorf("bank exchange: cash side must be USD or EUR, got %s: %w",
			input.CashAsset, domain.ErrInvalidAsset)
	}

	now := s.clock.Now()
	bankAsset := domain.BankAsset(input.BankID)
	bankDelta, cashDelta := input.BankAmount.Neg(), input.CashAmount
	if !bankToCash {
		bankDelta, cashDelta = input.BankAmount, input.CashAmount.Neg()
	}

	if err := b.Adjust(bankAsset, bankDelta, now); err != nil {
		return err
	}
	if err := b.Adjust(input.CashAsset, cashDelta, now); err != nil {
		return err
	}

	groupID := s.groupGen.Generate()
	s.appendTx(b, &domain.Transaction{
		Amount:      bankDelta,
		Currency:    domain.CurrencyLYD,
		Description: input.Description,
		Party:       input.Party,
		Asset:       bankAsset,
		GroupID:     groupID,
		Meta: domain.TxMeta{
			GroupType: group,
			BankID:    input.BankID,
			Rate:      input.Rate,
		},
	})
	s.appendTx(b, &domain.Transaction{
		Amount:      cashDelta,
		Currency:    input.CashAsset.Currency(),
		Description: input.Description,
		Party:       input.Party,
		Asset:       input.CashAsset,
		GroupID:     groupID,
		Meta: domain.TxMeta{
			GroupType: group,
			BankID:    input.BankID,
			Rate:      input.Rate,
		},
	})
	return nil
}
