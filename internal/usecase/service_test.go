package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type seqGen struct {
	prefix string
	n      int
}

func (g *seqGen) Generate() string {
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService() *Service {
	return NewService(
		book.New(),
		&seqGen{prefix: "id-"},
		&seqGen{prefix: "g-"},
		zerolog.Nop(),
		WithClock(fixedClock{t: testTime}),
	)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// lastGroupID returns the group of the most recently appended transaction.
func lastGroupID(t *testing.T, s *Service) string {
	t.Helper()
	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.NotEmpty(t, snap.Transactions)
	return snap.Transactions[len(snap.Transactions)-1].GroupID
}

func TestBuyUSDDirect(t *testing.T) {
	s := newTestService()

	err := s.BuyUSD(BuyInput{
		Amount:    dec(1000),
		Rate:      dec(5),
		DestAsset: domain.AssetCashUSDLibya,
		Party:     "Omar",
		Payment:   PaymentSpec{Mode: PaymentDirect, Asset: domain.AssetCashLYD},
	})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.AssetCashUSDLibya).Equal(dec(1000)))
	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(-5000)))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, snap.Transactions[0].GroupID, snap.Transactions[1].GroupID)
	assert.Equal(t, domain.GroupBuyUSD, snap.Transactions[0].Meta.GroupType)
}

func TestBuyUSDExplicitTotalKeepsBothRates(t *testing.T) {
	s := newTestService()

	err := s.BuyUSD(BuyInput{
		Amount:    dec(1000),
		Rate:      dec(5),
		Total:     dec(4900),
		DestAsset: domain.AssetCashUSDLibya,
		Payment:   PaymentSpec{Mode: PaymentDirect, Asset: domain.AssetCashLYD},
	})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(-4900)))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	meta := snap.Transactions[0].Meta
	assert.True(t, meta.Rate.Equal(decimal.NewFromFloat(4.9)))
	assert.True(t, meta.OriginalRate.Equal(dec(5)))
}

func TestBuyUSDOnCredit(t *testing.T) {
	s := newTestService()

	err := s.BuyUSD(BuyInput{
		Amount:    dec(200),
		Rate:      dec(5),
		DestAsset: domain.AssetCashUSDLibya,
		Party:     "Salem",
		Payment:   PaymentSpec{Mode: PaymentReceivable},
	})
	require.NoError(t, err)

	// LYD never left; the desk owes the seller instead.
	assert.True(t, s.Balance(domain.AssetCashLYD).IsZero())
	assert.True(t, s.TotalReceivables(domain.CurrencyLYD).Equal(dec(1000)))
}

func TestSellUSDProceedsAsDebt(t *testing.T) {
	s := newTestService()
	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.AssetCashUSDLibya, Delta: dec(500),
	}))

	err := s.SellUSD(SellInput{
		Amount:      dec(500),
		Rate:        dec(5),
		SourceAsset: domain.AssetCashUSDLibya,
		Party:       "Ali",
		Proceeds:    ProceedsSpec{Mode: ProceedsDebt, CustomerName: "Ali"},
	})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.AssetCashUSDLibya).IsZero())
	assert.True(t, s.TotalDebts(domain.CurrencyLYD).Equal(dec(2500)))
}

func TestSellUSDSettleReceivableWithProfitExcess(t *testing.T) {
	s := newTestService()
	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.AssetCashUSDLibya, Delta: dec(1000),
	}))
	rid, err := s.AddReceivable(AddReceivableInput{
		Debtor: "Omar", Amount: dec(2000), Currency: domain.CurrencyLYD,
	})
	require.NoError(t, err)

	err = s.SellUSD(SellInput{
		Amount:      dec(500),
		Rate:        dec(5),
		SourceAsset: domain.AssetCashUSDLibya,
		Party:       "Omar",
		Proceeds: ProceedsSpec{
			Mode:         ProceedsSettleReceivable,
			ReceivableID: rid,
			Excess:       ExcessSpec{Mode: ExcessProfit, Asset: domain.AssetCashLYD},
		},
	})
	require.NoError(t, err)

	// 2000 settles the receivable, 500 lands as profit.
	assert.True(t, s.TotalReceivables(domain.CurrencyLYD).IsZero())
	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(500)))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	last := snap.Transactions[len(snap.Transactions)-1]
	assert.True(t, last.Meta.IsProfit)
	assert.True(t, last.Meta.IsSurplus)
}

func TestSellUSDUnroutedExcessAborts(t *testing.T) {
	s := newTestService()
	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.AssetCashUSDLibya, Delta: dec(1000),
	}))
	rid, err := s.AddReceivable(AddReceivableInput{
		Debtor: "Omar", Amount: dec(100), Currency: domain.CurrencyLYD,
	})
	require.NoError(t, err)

	before := s.Balance(domain.AssetCashUSDLibya)
	err = s.SellUSD(SellInput{
		Amount:      dec(500),
		Rate:        dec(5),
		SourceAsset: domain.AssetCashUSDLibya,
		Proceeds:    ProceedsSpec{Mode: ProceedsSettleReceivable, ReceivableID: rid},
	})
	require.Error(t, err)

	// The failed leg aborted the whole operation.
	assert.True(t, s.Balance(domain.AssetCashUSDLibya).Equal(before))
	assert.True(t, s.TotalReceivables(domain.CurrencyLYD).Equal(dec(100)))
}

func TestAddDebtConsolidates(t *testing.T) {
	s := newTestService()
	cid, err := s.AddCustomer("Ali", domain.CurrencyUSD)
	require.NoError(t, err)

	first, err := s.AddDebt(AddDebtInput{CustomerID: cid, Amount: dec(100)})
	require.NoError(t, err)
	second, err := s.AddDebt(AddDebtInput{CustomerID: cid, Amount: dec(50)})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, s.TotalDebts(domain.CurrencyUSD).Equal(dec(150)))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	c := snap.Customer(cid)
	require.NotNil(t, c)

	active := 0
	for _, d := range c.Debts {
		if !d.IsArchived {
			active++
			assert.True(t, d.Amount.Equal(dec(150)))
		}
	}
	assert.Equal(t, 1, active)
}

func TestPayDebtClampsWithoutSurplusRoute(t *testing.T) {
	s := newTestService()
	cid, err := s.AddCustomer("Ali", domain.CurrencyLYD)
	require.NoError(t, err)
	debtID, err := s.AddDebt(AddDebtInput{CustomerID: cid, Amount: dec(100)})
	require.NoError(t, err)

	err = s.PayDebt(PayDebtInput{
		CustomerID: cid,
		DebtID:     debtID,
		Amount:     dec(130),
		DestAsset:  domain.AssetCashLYD,
	})
	require.NoError(t, err)

	// Only the remaining 100 was taken.
	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(100)))
	assert.True(t, s.TotalDebts(domain.CurrencyLYD).IsZero())
}

func TestPayDebtSurplusBecomesReceivable(t *testing.T) {
	s := newTestService()
	cid, err := s.AddCustomer("Ali", domain.CurrencyLYD)
	require.NoError(t, err)
	debtID, err := s.AddDebt(AddDebtInput{CustomerID: cid, Amount: dec(100)})
	require.NoError(t, err)

	err = s.PayDebt(PayDebtInput{
		CustomerID: cid,
		DebtID:     debtID,
		Amount:     dec(130),
		DestAsset:  domain.AssetCashLYD,
		Surplus:    SurplusSpec{Mode: SurplusReceivable},
	})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(130)))
	assert.True(t, s.TotalDebts(domain.CurrencyLYD).IsZero())
	assert.True(t, s.TotalReceivables(domain.CurrencyLYD).Equal(dec(30)))
}

func TestPayReceivableSurplusBecomesDebt(t *testing.T) {
	s := newTestService()
	rid, err := s.AddReceivable(AddReceivableInput{
		Debtor: "Omar", Amount: dec(100), Currency: domain.CurrencyLYD,
	})
	require.NoError(t, err)

	err = s.PayReceivable(PayReceivableInput{
		ReceivableID: rid,
		Amount:       dec(150),
		SourceAsset:  domain.AssetCashLYD,
		Surplus:      SurplusSpec{Mode: SurplusDebt},
	})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(-150)))
	assert.True(t, s.TotalReceivables(domain.CurrencyLYD).IsZero())
	assert.True(t, s.TotalDebts(domain.CurrencyLYD).Equal(dec(50)))
}

func TestExchangeBetweenUsdAssetsLogsLoss(t *testing.T) {
	s := newTestService()
	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.AssetCashUSDAbroad, Delta: dec(1000),
	}))

	err := s.ExchangeBetweenUsdAssets(ExchangeInput{
		FromAsset: domain.AssetCashUSDAbroad,
		ToAsset:   domain.AssetCashUSDLibya,
		Amount:    dec(1000),
		ToAmount:  dec(980),
	})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.AssetCashUSDAbroad).IsZero())
	assert.True(t, s.Balance(domain.AssetCashUSDLibya).Equal(dec(980)))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	last := snap.Transactions[len(snap.Transactions)-1]
	assert.Equal(t, domain.AssetExternalProfitLoss, last.Asset)
	assert.True(t, last.Amount.Equal(dec(-20)))
	assert.True(t, last.Meta.ProfitLoss)
}

func TestExchangeFeeAsDebt(t *testing.T) {
	s := newTestService()
	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.AssetCashUSDAbroad, Delta: dec(1000),
	}))

	err := s.ExchangeBetweenUsdAssets(ExchangeInput{
		FromAsset: domain.AssetCashUSDAbroad,
		ToAsset:   domain.AssetCashUSDLibya,
		Amount:    dec(1000),
		ToAmount:  dec(1000),
		Party:     "courier",
		Fee: FeeSpec{
			Mode:     FeeDebt,
			Amount:   dec(25),
			Currency: domain.CurrencyUSD,
		},
	})
	require.NoError(t, err)

	assert.True(t, s.TotalDebts(domain.CurrencyUSD).Equal(dec(25)))
}

func TestTransferBetweenBanks(t *testing.T) {
	s := newTestService()
	from, err := s.AddBank("Jumhouria", false)
	require.NoError(t, err)
	to, err := s.AddBank("Wahda", false)
	require.NoError(t, err)
	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.BankAsset(from), Delta: dec(1000),
	}))

	require.NoError(t, s.TransferBetweenBanks(BankTransferInput{
		FromBankID: from, ToBankID: to, Amount: dec(400),
	}))

	assert.True(t, s.Balance(domain.BankAsset(from)).Equal(dec(600)))
	assert.True(t, s.Balance(domain.BankAsset(to)).Equal(dec(400)))
	assert.True(t, s.Balance(domain.AssetBankTotal).Equal(dec(1000)))

	err = s.TransferBetweenBanks(BankTransferInput{
		FromBankID: from, ToBankID: from, Amount: dec(1),
	})
	assert.ErrorIs(t, err, domain.ErrSameBank)
}

func TestExchangeFromBankToCash(t *testing.T) {
	s := newTestService()
	bankID, err := s.AddBank("Jumhouria", false)
	require.NoError(t, err)
	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.BankAsset(bankID), Delta: dec(10000),
	}))

	err = s.ExchangeFromBankToCash(BankCashExchangeInput{
		BankID:     bankID,
		CashAsset:  domain.AssetCashUSDLibya,
		BankAmount: dec(5000),
		CashAmount: dec(1000),
		Rate:       dec(5),
	})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.BankAsset(bankID)).Equal(dec(5000)))
	assert.True(t, s.Balance(domain.AssetCashUSDLibya).Equal(dec(1000)))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	last := snap.Transactions[len(snap.Transactions)-1]
	assert.Equal(t, domain.GroupUSDExchange, last.Meta.GroupType)
}

func TestPosSettlementRequiresPOSBank(t *testing.T) {
	s := newTestService()
	plain, err := s.AddBank("Jumhouria", false)
	require.NoError(t, err)
	pos, err := s.AddBank("POS terminal", true)
	require.NoError(t, err)

	_, err = s.PosSettlement(PosSettlementInput{BankID: plain, Amount: dec(100)})
	assert.ErrorIs(t, err, domain.ErrBankNotPOS)

	posID, err := s.PosSettlement(PosSettlementInput{BankID: pos, Amount: dec(100), Party: "Ali"})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.BankAsset(pos)).Equal(dec(100)))
	// POS banks stay out of the aggregate.
	assert.True(t, s.Balance(domain.AssetBankTotal).IsZero())

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.NotNil(t, snap.PosTransaction(posID))
}

func TestDollarCardLifecycle(t *testing.T) {
	s := newTestService()
	require.NoError(t, s.AdjustAssetBalance(AdjustBalanceInput{
		Asset: domain.AssetCashUSDAbroad, Delta: dec(500),
	}))

	cardID, err := s.OpenDollarCard("Ali", dec(500))
	require.NoError(t, err)

	require.NoError(t, s.DollarCardPayment(DollarCardPaymentInput{
		CardID: cardID, Amount: dec(1200), DestAsset: domain.AssetCashLYD,
	}))
	require.NoError(t, s.DollarCardPayment(DollarCardPaymentInput{
		CardID: cardID, Amount: dec(1300), DestAsset: domain.AssetCashLYD,
	}))

	require.NoError(t, s.DollarCardComplete(DollarCardCompleteInput{
		CardID: cardID, SourceAsset: domain.AssetCashUSDAbroad,
	}))

	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(2500)))
	assert.True(t, s.Balance(domain.AssetCashUSDAbroad).IsZero())

	snap, err := s.Snapshot()
	require.NoError(t, err)
	card := snap.DollarCard(cardID)
	require.NotNil(t, card)
	assert.True(t, card.Completed)
	assert.True(t, card.PaidLYD.Equal(dec(2500)))

	// Completed cards accept no further activity.
	err = s.DollarCardPayment(DollarCardPaymentInput{
		CardID: cardID, Amount: dec(1), DestAsset: domain.AssetCashLYD,
	})
	assert.ErrorIs(t, err, domain.ErrCardCompleted)
}

func TestOperatingCost(t *testing.T) {
	s := newTestService()

	costID, err := s.AddOperatingCost(OperatingCostInput{
		Description: "office rent",
		Amount:      dec(750),
		Asset:       domain.AssetCashLYD,
	})
	require.NoError(t, err)

	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(-750)))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.NotNil(t, snap.OperatingCost(costID))
}

func TestConvertSingleUsdDebtToLyd(t *testing.T) {
	s := newTestService()
	cid, err := s.AddCustomer("Ali", domain.CurrencyUSD)
	require.NoError(t, err)
	debtID, err := s.AddDebt(AddDebtInput{CustomerID: cid, Amount: dec(1000)})
	require.NoError(t, err)

	err = s.ConvertSingleUsdDebtToLyd(ConvertDebtInput{
		CustomerID:     cid,
		DebtID:         debtID,
		AmountUSD:      dec(400),
		Rate:           dec(5),
		TargetCustomer: "Ali",
	})
	require.NoError(t, err)

	assert.True(t, s.TotalDebts(domain.CurrencyUSD).Equal(dec(600)))
	assert.True(t, s.TotalDebts(domain.CurrencyLYD).Equal(dec(2000)))
	// The conversion is a ledger transfer; no money moved.
	assert.True(t, s.Balance(domain.AssetCashLYD).IsZero())
	assert.True(t, s.Balance(domain.AssetCashUSDLibya).IsZero())
}
