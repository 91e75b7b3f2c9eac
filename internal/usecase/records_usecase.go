package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

// AdjustBalanceInput deposits into or withdraws from one asset. Delta may be
// negative.
type AdjustBalanceInput struct {
	Asset       domain.Asset    `json:"asset"`
	Delta       decimal.Decimal `json:"delta"`
	IsProfit    bool            `json:"is_profit,omitempty"`
	Party       string          `json:"party,omitempty"`
	Description string          `json:"description,omitempty"`
}

// AdjustAssetBalance applies an unconditional balance delta.
func (s *Service) AdjustAssetBalance(input AdjustBalanceInput) error {
	return s.mutate(TradeAdjustBalance, func(b *book.Book) error {
		return s.doAdjustBalance(b, input)
	})
}

func (s *Service) doAdjustBalance(b *book.Book, input AdjustBalanceInput) error {
	if input.Delta.IsZero() {
		return fmt.Errorf("adjust: zero delta: %w", domain.ErrInvalidAmount)
	}
	if err := b.Adjust(input.Asset, input.Delta, s.clock.Now()); err != nil {
		return err
	}
	s.appendTx(b, &domain.Transaction{
		Amount:      input.Delta,
		Description: input.Description,
		Party:       input.Party,
		Asset:       input.Asset,
		GroupID:     s.groupGen.Generate(),
		Meta: domain.TxMeta{
			GroupType: domain.GroupAdjustBalance,
			IsProfit:  input.IsProfit,
		},
	})
	return nil
}

// PosSettlementInput credits a card payment received on a POS terminal's
// bank account.
type PosSettlementInput struct {
	BankID      string          `json:"bank_id"`
	Amount      decimal.Decimal `json:"amount"`
	Party       string          `json:"party,omitempty"`
	Description string          `json:"description,omitempty"`
}

// PosSettlement records a POS payment and keeps the detail row the reversal
// engine removes when the group is deleted.
func (s *Service) PosSettlement(input PosSettlementInput) (string, error) {
	var posID string
	err := s.mutate(TradePosSettlement, func(b *book.Book) error {
		id, err := s.doPosSettlement(b, input)
		posID = id
		return err
	})
	return posID, err
}

func (s *Service) doPosSettlement(b *book.Book, input PosSettlementInput) (string, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return "", err
	}
	bank := b.Bank(input.BankID)
	if bank == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrBankNotFound, input.BankID)
	}
	if !bank.IsPOS {
		return "", fmt.Errorf("%w: %s", domain.ErrBankNotPOS, input.BankID)
	}

	now := s.clock.Now()
	if err := b.Adjust(domain.BankAsset(input.BankID), input.Amount, now); err != nil {
		return "", err
	}

	posID := s.idGen.Generate()
	b.PosTransactions = append(b.PosTransactions, &domain.PosTransaction{
		ID:        posID,
		BankID:    input.BankID,
		Amount:    input.Amount,
		Party:     input.Party,
		CreatedAt: now,
	})

	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount,
		Currency:    domain.CurrencyLYD,
		Description: input.Description,
		Party:       input.Party,
		Asset:       domain.BankAsset(input.BankID),
		GroupID:     s.groupGen.Generate(),
		Meta: domain.TxMeta{
			GroupType: domain.GroupPOSTransaction,
			BankID:    input.BankID,
			PosID:     posID,
		},
	})
	return posID, nil
}

// OpenDollarCard registers a dollar-card purchase to be paid off in LYD
// installments. No balance moves until payments arrive.
func (s *Service) OpenDollarCard(holder string, amountUSD decimal.Decimal) (string, error) {
	if err := domain.ValidateAmount(amountUSD); err != nil {
		return "", err
	}
	id := s.idGen.Generate()
	err := s.mutate("open_dollar_card", func(b *book.Book) error {
		b.DollarCards = append(b.DollarCards, &domain.DollarCard{
			ID:        id,
			Holder:    holder,
			AmountUSD: amountUSD,
			PaidLYD:   decimal.Zero,
			CreatedAt: s.clock.Now(),
		})
		return nil
	})
	return id, err
}

// DollarCardPaymentInput pays an LYD installment toward a dollar card.
type DollarCardPaymentInput struct {
	CardID      string          `json:"card_id"`
	Amount      decimal.Decimal `json:"amount"`
	DestAsset   domain.Asset    `json:"dest_asset"`
	Description string          `json:"description,omitempty"`
}

// DollarCardPayment collects an installment into DestAsset and advances the
// card's paid total.
func (s *Service) DollarCardPayment(input DollarCardPaymentInput) error {
	return s.mutate(TradeDollarCardPayment, func(b *book.Book) error {
		return s.doDollarCardPayment(b, input)
	})
}

func (s *Service) doDollarCardPayment(b *book.Book, input DollarCardPaymentInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	card := b.DollarCard(input.CardID)
	if card == nil {
		return fmt.Errorf("%w: %s", domain.ErrDollarCardNotFound, input.CardID)
	}
	if card.Completed {
		return fmt.Errorf("%w: %s", domain.ErrCardCompleted, input.CardID)
	}

	now := s.clock.Now()
	if err := b.Adjust(input.DestAsset, input.Amount, now); err != nil {
		return err
	}
	card.PaidLYD = card.PaidLYD.Add(input.Amount)

	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount,
		Currency:    domain.CurrencyLYD,
		Description: input.Description,
		Party:       card.Holder,
		Asset:       input.DestAsset,
		GroupID:     s.groupGen.Generate(),
		Meta: domain.TxMeta{
			GroupType: domain.GroupDollarCardPayment,
			CardID:    card.ID,
			Paid:      input.Amount,
		},
	})
	return nil
}

// DollarCardCompleteInput closes a dollar card and hands the dollars out of a
// USD asset.
type DollarCardCompleteInput struct {
	CardID      string       `json:"card_id"`
	SourceAsset domain.Asset `json:"source_asset"`
	Description string       `json:"description,omitempty"`
}

// DollarCardComplete marks the card done and debits its USD amount.
func (s *Service) DollarCardComplete(input DollarCardCompleteInput) error {
	return s.mutate(TradeDollarCardComplete, func(b *book.Book) error {
		return s.doDollarCardComplete(b, input)
	})
}

func (s *Service) doDollarCardComplete(b *book.Book, input DollarCardCompleteInput) error {
	card := b.DollarCard(input.CardID)
	if card == nil {
		return fmt.Errorf("%w: %s", domain.ErrDollarCardNotFound, input.CardID)
	}
	if card.Completed {
		return fmt.Errorf("%w: %s", domain.ErrCardCompleted, input.CardID)
	}
	if err := domain.ValidateCashAssetCurrency(input.SourceAsset, domain.CurrencyUSD); err != nil {
		return err
	}

	now := s.clock.Now()
	if err := b.Adjust(input.SourceAsset, card.AmountUSD.Neg(), now); err != nil {
		return err
	}
	card.Completed = true

	s.appendTx(b, &domain.Transaction{
		Amount:      card.AmountUSD.Neg(),
		Currency:    domain.CurrencyUSD,
		Description: input.Description,
		Party:       card.Holder,
		Asset:       input.SourceAsset,
		GroupID:     s.groupGen.Generate(),
		Meta: domain.TxMeta{
			GroupType: domain.GroupDollarCardComplete,
			CardID:    card.ID,
		},
	})
	return nil
}

// OperatingCostInput records a running expense paid from an asset.
type OperatingCostInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Asset       domain.Asset    `json:"asset"`
}

// AddOperatingCost debits the asset and keeps a cost row for reporting.
func (s *Service) AddOperatingCost(input OperatingCostInput) (string, error) {
	var costID string
	err := s.mutate(TradeOperatingCost, func(b *book.Book) error {
		id, err := s.doOperatingCost(b, input)
		costID = id
		return err
	})
	return costID, err
}

func (s *Service) doOperatingCost(b *book.Book, input OperatingCostInput) (string, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return "", err
	}

	now := s.clock.Now()
	if err := b.Adjust(input.Asset, input.Amount.Neg(), now); err != nil {
		return "", err
	}

	costID := s.idGen.Generate()
	b.OperatingCosts = append(b.OperatingCosts, &domain.OperatingCost{
		ID:          costID,
		Description: input.Description,
		Amount:      input.Amount,
		Asset:       input.Asset,
		CreatedAt:   now,
	})

	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount.Neg(),
		Description: input.Description,
		Asset:       input.Asset,
		GroupID:     s.groupGen.Generate(),
		Meta: domain.TxMeta{
			GroupType: domain.GroupOperatingCost,
			CostID:    costID,
		},
	})
	return costID, nil
}
