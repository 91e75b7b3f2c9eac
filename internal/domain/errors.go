package domain

import "errors"

var (
	// Referential errors
	ErrBankNotFound         = errors.New("bank not found")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrDebtNotFound         = errors.New("debt not found")
	ErrReceivableNotFound   = errors.New("receivable not found")
	ErrGroupNotFound        = errors.New("transaction group not found")
	ErrDollarCardNotFound   = errors.New("dollar card not found")
	ErrPendingTradeNotFound = errors.New("pending trade not found")

	// Validation errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidRate      = errors.New("rate must be positive")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidAsset     = errors.New("unknown asset")
	ErrDerivedAsset     = errors.New("asset balance is derived and cannot be adjusted")
	ErrBankNotPOS       = errors.New("bank is not POS-eligible")
	ErrSameBank         = errors.New("cannot transfer to the same bank")
	ErrCardCompleted    = errors.New("dollar card already completed")
	ErrUnknownTradeKind = errors.New("unknown trade kind")
	ErrUnknownGroupType = errors.New("unknown transaction group type")

	// Lineage errors
	ErrLineageCycle = errors.New("merge lineage contains a cycle")
)
