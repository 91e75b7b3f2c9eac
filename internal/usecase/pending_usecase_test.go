package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarraf/treasury/internal/domain"
)

func TestStagePendingTradeRejectsUnknownKind(t *testing.T) {
	s := newTestService()

	_, err := s.StagePendingTrade("teleport_money", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, domain.ErrUnknownTradeKind)

	_, err = s.StagePendingTrade(TradeBuyUSD, json.RawMessage(`{not json`))
	assert.Error(t, err)
}

func TestConfirmPendingTradeExecutesAndRemoves(t *testing.T) {
	s := newTestService()

	payload, err := json.Marshal(BuyInput{
		Amount:    dec(1000),
		Rate:      dec(5),
		DestAsset: domain.AssetCashUSDLibya,
		Payment:   PaymentSpec{Mode: PaymentDirect, Asset: domain.AssetCashLYD},
	})
	require.NoError(t, err)

	id, err := s.StagePendingTrade(TradeBuyUSD, payload)
	require.NoError(t, err)

	// Staging alone moves nothing.
	assert.True(t, s.Balance(domain.AssetCashUSDLibya).IsZero())

	require.NoError(t, s.ConfirmPendingTrade(id))

	assert.True(t, s.Balance(domain.AssetCashUSDLibya).Equal(dec(1000)))
	assert.True(t, s.Balance(domain.AssetCashLYD).Equal(dec(-5000)))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Nil(t, snap.PendingTrade(id))

	err = s.ConfirmPendingTrade(id)
	assert.ErrorIs(t, err, domain.ErrPendingTradeNotFound)
}

func TestConfirmFailingTradeKeepsPendingRow(t *testing.T) {
	s := newTestService()

	// References a debt that does not exist; the confirm must fail whole.
	payload, err := json.Marshal(PayDebtInput{
		CustomerID: "nobody",
		DebtID:     "nothing",
		Amount:     dec(10),
		DestAsset:  domain.AssetCashLYD,
	})
	require.NoError(t, err)

	id, err := s.StagePendingTrade(TradePayDebt, payload)
	require.NoError(t, err)

	err = s.ConfirmPendingTrade(id)
	require.Error(t, err)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.NotNil(t, snap.PendingTrade(id), "failed confirm must keep the staged trade")
	assert.True(t, s.Balance(domain.AssetCashLYD).IsZero())
}

func TestDiscardPendingTrade(t *testing.T) {
	s := newTestService()

	id, err := s.StagePendingTrade(TradeAdjustBalance, json.RawMessage(`{"asset":"cash_lyd","delta":"50"}`))
	require.NoError(t, err)

	require.NoError(t, s.DiscardPendingTrade(id))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Nil(t, snap.PendingTrade(id))
	assert.True(t, s.Balance(domain.AssetCashLYD).IsZero())

	err = s.DiscardPendingTrade(id)
	assert.ErrorIs(t, err, domain.ErrPendingTradeNotFound)
}
