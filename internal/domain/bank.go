package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank represents a bank account owned by the desk.
type Bank struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	IsPOS     bool            `json:"is_pos"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
