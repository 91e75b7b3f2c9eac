package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/domain"
)

// Balance returns the current balance of an asset. Absent keys read as zero,
// never as an error. Bank assets read the bank's balance; the synthetic
// aggregate reads the sum of all non-POS banks.
func (b *Book) Balance(asset domain.Asset) decimal.Decimal {
	if asset == domain.AssetBankTotal {
		total := decimal.Zero
		for _, bank := range b.Banks {
			if !bank.IsPOS {
				total = total.Add(bank.Balance)
			}
		}
		return total
	}

	if id, ok := asset.BankID(); ok {
		if bank := b.Bank(id); bank != nil {
			return bank.Balance
		}
		return decimal.Zero
	}

	return b.Balances[asset]
}

// Adjust applies an unconditional signed delta to an asset. Negative resulting
// balances are permitted. Sentinel assets are a no-op; the derived bank
// aggregate cannot be adjusted.
func (b *Book) Adjust(asset domain.Asset, delta decimal.Decimal, now time.Time) error {
	if asset.IsSentinel() {
		return nil
	}
	if asset == domain.AssetBankTotal {
		return domain.ErrDerivedAsset
	}

	if id, ok := asset.BankID(); ok {
		bank := b.Bank(id)
		if bank == nil {
			return fmt.Errorf("%w: %s", domain.ErrBankNotFound, id)
		}
		bank.Balance = bank.Balance.Add(delta)
		bank.UpdatedAt = now
		return nil
	}

	if !asset.IsCash() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidAsset, asset)
	}

	b.Balances[asset] = b.Balances[asset].Add(delta)
	return nil
}

// SetBank overwrites a bank's balance.
func (b *Book) SetBank(bankID string, balance decimal.Decimal, now time.Time) error {
	bank := b.Bank(bankID)
	if bank == nil {
		return fmt.Errorf("%w: %s", domain.ErrBankNotFound, bankID)
	}
	bank.Balance = balance
	bank.UpdatedAt = now
	return nil
}
