package domain

import "strings"

// Asset identifies a balance bucket: a fixed cash asset, a bank account,
// the synthetic bank aggregate, or a sentinel for entries that carry no
// balance movement.
type Asset string

const (
	AssetCashLYD       Asset = "cash_lyd"
	AssetCashUSDLibya  Asset = "cash_usd_libya"
	AssetCashUSDAbroad Asset = "cash_usd_abroad"
	AssetCashEUR       Asset = "cash_eur"

	// AssetBankTotal is a derived view: the sum of all non-POS bank balances.
	// It is never adjusted directly.
	AssetBankTotal Asset = "bank_total"

	// Sentinels. Transactions on these assets record an amount for the audit
	// trail but move no balance.
	AssetSettlement         Asset = "settlement"
	AssetExternalDebt       Asset = "external_debt"
	AssetExternalReceivable Asset = "external_receivable"
	AssetExternalProfitLoss Asset = "external_profit_loss"
)

const bankAssetPrefix = "bank:"

// CashAssets is the fixed set of tracked cash assets.
var CashAssets = []Asset{
	AssetCashLYD,
	AssetCashUSDLibya,
	AssetCashUSDAbroad,
	AssetCashEUR,
}

var cashAssetCurrency = map[Asset]string{
	AssetCashLYD:       CurrencyLYD,
	AssetCashUSDLibya:  CurrencyUSD,
	AssetCashUSDAbroad: CurrencyUSD,
	AssetCashEUR:       CurrencyEUR,
}

// BankAsset returns the asset identifier for a bank account.
func BankAsset(bankID string) Asset {
	return Asset(bankAssetPrefix + bankID)
}

// BankID extracts the bank id from a bank asset. Returns false for
// non-bank assets.
func (a Asset) BankID() (string, bool) {
	s := string(a)
	if !strings.HasPrefix(s, bankAssetPrefix) {
		return "", false
	}
	return s[len(bankAssetPrefix):], true
}

// IsCash reports whether the asset is one of the fixed cash assets.
func (a Asset) IsCash() bool {
	_, ok := cashAssetCurrency[a]
	return ok
}

// IsSentinel reports whether the asset carries no balance movement.
func (a Asset) IsSentinel() bool {
	switch a {
	case AssetSettlement, AssetExternalDebt, AssetExternalReceivable, AssetExternalProfitLoss:
		return true
	}
	return strings.HasPrefix(string(a), "external_")
}

// Currency returns the currency of a cash asset, or "" if unknown.
func (a Asset) Currency() string {
	return cashAssetCurrency[a]
}
