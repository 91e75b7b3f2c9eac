package domain

import "testing"

func TestBankAssetRoundTrip(t *testing.T) {
	asset := BankAsset("01ABC")
	id, ok := asset.BankID()
	if !ok {
		t.Fatal("expected bank asset")
	}
	if id != "01ABC" {
		t.Errorf("expected bank id 01ABC, got %s", id)
	}

	if _, ok := AssetCashLYD.BankID(); ok {
		t.Error("cash asset should not parse as bank")
	}
}

func TestAssetIsSentinel(t *testing.T) {
	tests := []struct {
		asset Asset
		want  bool
	}{
		{AssetSettlement, true},
		{AssetExternalDebt, true},
		{AssetExternalReceivable, true},
		{AssetExternalProfitLoss, true},
		{AssetCashLYD, false},
		{AssetCashUSDLibya, false},
		{BankAsset("x"), false},
		{AssetBankTotal, false},
	}

	for _, tt := range tests {
		if got := tt.asset.IsSentinel(); got != tt.want {
			t.Errorf("IsSentinel(%s) = %v, want %v", tt.asset, got, tt.want)
		}
	}
}

func TestAssetCurrency(t *testing.T) {
	tests := []struct {
		asset Asset
		want  string
	}{
		{AssetCashLYD, CurrencyLYD},
		{AssetCashUSDLibya, CurrencyUSD},
		{AssetCashUSDAbroad, CurrencyUSD},
		{AssetCashEUR, CurrencyEUR},
		{AssetSettlement, ""},
	}

	for _, tt := range tests {
		if got := tt.asset.Currency(); got != tt.want {
			t.Errorf("Currency(%s) = %q, want %q", tt.asset, got, tt.want)
		}
	}
}
