package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies handled by the desk.
const (
	CurrencyLYD = "LYD"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyTRY = "TRY"
	CurrencyGBP = "GBP"
)

var validCurrencies = map[string]bool{
	CurrencyLYD: true,
	CurrencyUSD: true,
	CurrencyEUR: true,
	CurrencyTRY: true,
	CurrencyGBP: true,
}

// ValidateCurrency validates a currency code against the desk's set.
func ValidateCurrency(currency string) error {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if !validCurrencies[c] {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, currency)
	}
	return nil
}

// ValidateAmount rejects non-positive amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateRate rejects non-positive rates.
func ValidateRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidRate
	}
	return nil
}

// ValidateCashAsset checks that the asset is a tracked cash asset.
func ValidateCashAsset(asset Asset) error {
	if !asset.IsCash() {
		return fmt.Errorf("%w: %s", ErrInvalidAsset, asset)
	}
	return nil
}

// ValidateCashAssetCurrency checks the asset is cash and denominated in the
// given currency.
func ValidateCashAssetCurrency(asset Asset, currency string) error {
	if err := ValidateCashAsset(asset); err != nil {
		return err
	}
	if asset.Currency() != currency {
		return fmt.Errorf("%w: %s is not a %s asset", ErrInvalidAsset, asset, currency)
	}
	return nil
}
