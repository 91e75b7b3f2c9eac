package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

// PaymentMode says how the desk pays the counter value of a buy.
type PaymentMode string

const (
	// PaymentDirect pays immediately from a cash or bank asset.
	PaymentDirect PaymentMode = "direct"
	// PaymentReceivable defers the payment as a receivable owed to the seller.
	PaymentReceivable PaymentMode = "receivable"
	// PaymentSettleDebt offsets the payment against an existing debt the
	// seller owes the desk.
	PaymentSettleDebt PaymentMode = "settle_debt"
)

// PaymentSpec configures the counter-value leg of a buy.
type PaymentSpec struct {
	Mode PaymentMode `json:"mode"`
	// Asset pays the direct part. Required for PaymentDirect; for
	// PaymentSettleDebt it covers whatever the debt cannot absorb.
	Asset      domain.Asset `json:"asset,omitempty"`
	CustomerID string       `json:"customer_id,omitempty"`
	DebtID     string       `json:"debt_id,omitempty"`
}

// ProceedsMode says how the buyer pays the desk in a sell.
type ProceedsMode string

const (
	// ProceedsDirect collects immediately into a cash or bank asset.
	ProceedsDirect ProceedsMode = "direct"
	// ProceedsDebt defers the collection as a debt owed by the buyer.
	ProceedsDebt ProceedsMode = "debt"
	// ProceedsSettleReceivable offsets the proceeds against a receivable the
	// desk owes the buyer.
	ProceedsSettleReceivable ProceedsMode = "settle_receivable"
)

// ExcessMode routes the part of sell proceeds a receivable cannot absorb.
type ExcessMode string

const (
	ExcessDeposit ExcessMode = "deposit"
	ExcessProfit  ExcessMode = "profit"
	ExcessDebt    ExcessMode = "debt"
)

// ExcessSpec configures the overflow of a settle_receivable sell.
type ExcessSpec struct {
	Mode         ExcessMode   `json:"mode,omitempty"`
	Asset        domain.Asset `json:"asset,omitempty"`
	CustomerName string       `json:"customer_name,omitempty"`
}

// ProceedsSpec configures the counter-value leg of a sell.
type ProceedsSpec struct {
	Mode         ProceedsMode `json:"mode"`
	Asset        domain.Asset `json:"asset,omitempty"`
	CustomerName string       `json:"customer_name,omitempty"`
	ReceivableID string       `json:"receivable_id,omitempty"`
	Excess       ExcessSpec   `json:"excess,omitempty"`
}

// BuyInput acquires foreign currency against LYD.
type BuyInput struct {
	Amount   decimal.Decimal `json:"amount"`
	Rate     decimal.Decimal `json:"rate"`
	Currency string          `json:"currency"`
	// Total overrides Amount * Rate when the parties agreed on a rounded
	// figure. Zero means derive from the rate.
	Total       decimal.Decimal `json:"total,omitempty"`
	DestAsset   domain.Asset    `json:"dest_asset,omitempty"`
	Party       string          `json:"party,omitempty"`
	Description string          `json:"description,omitempty"`
	Payment     PaymentSpec     `json:"payment"`
}

// SellInput disposes foreign currency against LYD.
type SellInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Rate        decimal.Decimal `json:"rate"`
	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total,omitempty"`
	SourceAsset domain.Asset    `json:"source_asset"`
	Party       string          `json:"party,omitempty"`
	Description string          `json:"description,omitempty"`
	Proceeds    ProceedsSpec    `json:"proceeds"`
}

// BuyUSD buys US dollars into a USD cash asset.
func (s *Service) BuyUSD(input BuyInput) error {
	input.Currency = domain.CurrencyUSD
	return s.mutate(TradeBuyUSD, func(b *book.Book) error {
		return s.doBuy(b, domain.GroupBuyUSD, input)
	})
}

// SellUSD sells US dollars out of a USD cash asset.
func (s *Service) SellUSD(input SellInput) error {
	input.Currency = domain.CurrencyUSD
	return s.mutate(TradeSellUSD, func(b *book.Book) error {
		return s.doSell(b, domain.GroupSellUSD, input)
	})
}

// BuyForeignCurrency buys a non-USD currency. Currencies without a dedicated
// cash asset record the foreign leg without a balance effect.
func (s *Service) BuyForeignCurrency(input BuyInput) error {
	return s.mutate(TradeBuyOther, func(b *book.Book) error {
		return s.doBuy(b, domain.GroupBuyOther, input)
	})
}

// SellForeignCurrency sells a non-USD currency.
func (s *Service) SellForeignCurrency(input SellInput) error {
	return s.mutate(TradeSellOther, func(b *book.Book) error {
		return s.doSell(b, domain.GroupSellOther, input)
	})
}

// tradeTotal resolves the LYD counter value and the rate pair to record.
// When an explicit total overrides the arithmetic one, both rates are kept so
// reports can show the agreed figure next to the quoted one.
func tradeTotal(amount, rate, explicit decimal.Decimal) (total, effRate, origRate decimal.Decimal) {
	derived := amount.Mul(rate)
	if explicit.IsPositive() && !explicit.Equal(derived) {
		return explicit, explicit.Div(amount), rate
	}
	return derived, rate, decimal.Decimal{}
}

func (s *Service) doBuy(b *book.Book, group domain.GroupType, input BuyInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	if err := domain.ValidateRate(input.Rate); err != nil {
		return err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return err
	}

	total, effRate, origRate := tradeTotal(input.Amount, input.Rate, input.Total)
	groupID := s.groupGen.Generate()

	// Foreign leg. Currencies with no cash asset are tracked off-balance.
	destAsset := input.DestAsset
	if destAsset == "" {
		destAsset = domain.AssetSettlement
	} else {
		if err := domain.ValidateCashAssetCurrency(destAsset, input.Currency); err != nil {
			return err
		}
		if err := b.Adjust(destAsset, input.Amount, s.clock.Now()); err != nil {
			return err
		}
	}
	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount,
		Currency:    input.Currency,
		Description: input.Description,
		Party:       input.Party,
		Asset:       destAsset,
		GroupID:     groupID,
		Meta: domain.TxMeta{
			GroupType:    group,
			Rate:         effRate,
			OriginalRate: origRate,
		},
	})

	// Counter-value leg.
	switch input.Payment.Mode {
	case PaymentDirect:
		if err := b.Adjust(input.Payment.Asset, total.Neg(), s.clock.Now()); err != nil {
			return err
		}
		s.appendTx(b, &domain.Transaction{
			Amount:      total.Neg(),
			Currency:    domain.CurrencyLYD,
			Description: input.Description,
			Party:       input.Party,
			Asset:       input.Payment.Asset,
			GroupID:     groupID,
			Meta:        domain.TxMeta{GroupType: group, Rate: effRate},
		})
		return nil

	case PaymentReceivable:
		now := s.clock.Now()
		rid := s.idGen.Generate()
		b.InsertReceivable(&domain.Receivable{
			ID:        rid,
			Debtor:    input.Party,
			Amount:    total,
			Paid:      decimal.Zero,
			Currency:  domain.CurrencyLYD,
			CreatedAt: now,
		})
		b.ConsolidateReceivables(input.Party, domain.CurrencyLYD, s.idGen.Generate(), now)

		s.appendTx(b, &domain.Transaction{
			Amount:      total.Neg(),
			Currency:    domain.CurrencyLYD,
			Description: input.Description,
			Party:       input.Party,
			Asset:       domain.AssetExternalReceivable,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:           group,
				Debtor:              input.Party,
				CreatedReceivableID: rid,
				Contributed:         total,
				Currency:            domain.CurrencyLYD,
				Rate:                effRate,
			},
		})
		return nil

	case PaymentSettleDebt:
		c := b.Customer(input.Payment.CustomerID)
		if c == nil {
			return fmt.Errorf("%w: %s", domain.ErrCustomerNotFound, input.Payment.CustomerID)
		}
		debt := c.Debt(input.Payment.DebtID)
		if debt == nil {
			return fmt.Errorf("%w: %s", domain.ErrDebtNotFound, input.Payment.DebtID)
		}

		settle := decimal.Min(total, decimal.Max(debt.Remaining(), decimal.Zero))
		rest := total.Sub(settle)

		if settle.IsPositive() {
			debt.Paid = debt.Paid.Add(settle)
			s.appendTx(b, &domain.Transaction{
				Amount:      settle.Neg(),
				Currency:    domain.CurrencyLYD,
				Description: input.Description,
				Party:       c.Name,
				Asset:       domain.AssetSettlement,
				GroupID:     groupID,
				Meta: domain.TxMeta{
					GroupType:  group,
					CustomerID: c.ID,
					DebtID:     debt.ID,
					Paid:       settle,
					Rate:       effRate,
				},
			})
		}
		if rest.IsPositive() {
			if input.Payment.Asset == "" {
				return fmt.Errorf("buy: debt covers only %s of %s and no payment asset given: %w",
					settle, total, domain.ErrInvalidAmount)
			}
			if err := b.Adjust(input.Payment.Asset, rest.Neg(), s.clock.Now()); err != nil {
				return err
			}
			s.appendTx(b, &domain.Transaction{
				Amount:      rest.Neg(),
				Currency:    domain.CurrencyLYD,
				Description: input.Description,
				Party:       c.Name,
				Asset:       input.Payment.Asset,
				GroupID:     groupID,
				Meta:        domain.TxMeta{GroupType: group, Rate: effRate},
			})
		}
		return nil

	default:
		return fmt.Errorf("buy: unsupported payment mode %q", input.Payment.Mode)
	}
}

func (s *Service) doSell(b *book.Book, group domain.GroupType, input SellInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	if err := domain.ValidateRate(input.Rate); err != nil {
		return err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return err
	}

	total, effRate, origRate := tradeTotal(input.Amount, input.Rate, input.Total)
	groupID := s.groupGen.Generate()

	// Foreign leg.
	sourceAsset := input.SourceAsset
	if sourceAsset == "" {
		sourceAsset = domain.AssetSettlement
	} else {
		if err := domain.ValidateCashAssetCurrency(sourceAsset, input.Currency); err != nil {
			return err
		}
		if err := b.Adjust(sourceAsset, input.Amount.Neg(), s.clock.Now()); err != nil {
			return err
		}
	}
	s.appendTx(b, &domain.Transaction{
		Amount:      input.Amount.Neg(),
		Currency:    input.Currency,
		Description: input.Description,
		Party:       input.Party,
		Asset:       sourceAsset,
		GroupID:     groupID,
		Meta: domain.TxMeta{
			GroupType:    group,
			Rate:         effRate,
			OriginalRate: origRate,
		},
	})

	// Counter-value leg.
	switch input.Proceeds.Mode {
	case ProceedsDirect:
		if err := b.Adjust(input.Proceeds.Asset, total, s.clock.Now()); err != nil {
			return err
		}
		s.appendTx(b, &domain.Transaction{
			Amount:      total,
			Currency:    domain.CurrencyLYD,
			Description: input.Description,
			Party:       input.Party,
			Asset:       input.Proceeds.Asset,
			GroupID:     groupID,
			Meta:        domain.TxMeta{GroupType: group, Rate: effRate},
		})
		return nil

	case ProceedsDebt:
		now := s.clock.Now()
		name := input.Proceeds.CustomerName
		if name == "" {
			name = input.Party
		}
		c := b.EnsureCustomer(s.idGen.Generate(), name, domain.CurrencyLYD, now)
		debtID := s.idGen.Generate()
		c.Debts = append(c.Debts, &domain.Debt{
			ID:        debtID,
			Amount:    total,
			Paid:      decimal.Zero,
			CreatedAt: now,
		})
		b.ConsolidateDebts(c, s.idGen.Generate(), now)

		s.appendTx(b, &domain.Transaction{
			Amount:      total,
			Currency:    domain.CurrencyLYD,
			Description: input.Description,
			Party:       c.Name,
			Asset:       domain.AssetExternalDebt,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:     group,
				CustomerID:    c.ID,
				CreatedDebtID: debtID,
				Contributed:   total,
				Currency:      domain.CurrencyLYD,
				Rate:          effRate,
			},
		})
		return nil

	case ProceedsSettleReceivable:
		r := b.Receivable(input.Proceeds.ReceivableID)
		if r == nil {
			return fmt.Errorf("%w: %s", domain.ErrReceivableNotFound, input.Proceeds.ReceivableID)
		}

		settle := decimal.Min(total, decimal.Max(r.Remaining(), decimal.Zero))
		excess := total.Sub(settle)

		if settle.IsPositive() {
			r.Paid = r.Paid.Add(settle)
			s.appendTx(b, &domain.Transaction{
				Amount:      settle,
				Currency:    r.Currency,
				Description: input.Description,
				Party:       r.Debtor,
				Asset:       domain.AssetSettlement,
				GroupID:     groupID,
				Meta: domain.TxMeta{
					GroupType:    group,
					Debtor:       r.Debtor,
					ReceivableID: r.ID,
					Paid:         settle,
					Rate:         effRate,
				},
			})
		}
		if excess.IsPositive() {
			if err := s.sellExcess(b, group, groupID, input, effRate, excess); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("sell: unsupported proceeds mode %q", input.Proceeds.Mode)
	}
}

// sellExcess routes the part of sell proceeds the target receivable could not
// absorb. An unrouted excess aborts the operation rather than vanish.
func (s *Service) sellExcess(b *book.Book, group domain.GroupType, groupID string, input SellInput, effRate, excess decimal.Decimal) error {
	spec := input.Proceeds.Excess
	switch spec.Mode {
	case ExcessDeposit, ExcessProfit:
		if err := b.Adjust(spec.Asset, excess, s.clock.Now()); err != nil {
			return err
		}
		s.appendTx(b, &domain.Transaction{
			Amount:      excess,
			Currency:    domain.CurrencyLYD,
			Description: input.Description,
			Party:       input.Party,
			Asset:       spec.Asset,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType: group,
				Rate:      effRate,
				IsSurplus: true,
				IsProfit:  spec.Mode == ExcessProfit,
			},
		})
		return nil

	case ExcessDebt:
		now := s.clock.Now()
		name := spec.CustomerName
		if name == "" {
			name = input.Party
		}
		c := b.EnsureCustomer(s.idGen.Generate(), name, domain.CurrencyLYD, now)
		debtID := s.idGen.Generate()
		c.Debts = append(c.Debts, &domain.Debt{
			ID:        debtID,
			Amount:    excess,
			Paid:      decimal.Zero,
			CreatedAt: now,
		})
		b.ConsolidateDebts(c, s.idGen.Generate(), now)

		s.appendTx(b, &domain.Transaction{
			Amount:      excess,
			Currency:    domain.CurrencyLYD,
			Description: input.Description,
			Party:       c.Name,
			Asset:       domain.AssetExternalDebt,
			GroupID:     groupID,
			Meta: domain.TxMeta{
				GroupType:     group,
				CustomerID:    c.ID,
				CreatedDebtID: debtID,
				Contributed:   excess,
				Currency:      domain.CurrencyLYD,
				Rate:          effRate,
				IsSurplus:     true,
			},
		})
		return nil

	default:
		return fmt.Errorf("sell: proceeds exceed the receivable by %s and no excess route given: %w",
			excess, domain.ErrInvalidAmount)
	}
}
