package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDebtRemaining(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		paid        int64
		remaining   int64
		wantSettled bool
	}{
		{"unpaid", 100, 0, 100, false},
		{"partially paid", 100, 40, 60, false},
		{"exactly settled", 100, 100, 0, true},
		{"overpaid", 100, 120, -20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Debt{
				Amount: decimal.NewFromInt(tt.amount),
				Paid:   decimal.NewFromInt(tt.paid),
			}

			if !d.Remaining().Equal(decimal.NewFromInt(tt.remaining)) {
				t.Errorf("expected remaining %d, got %s", tt.remaining, d.Remaining())
			}
			if d.Settled() != tt.wantSettled {
				t.Errorf("expected settled %v", tt.wantSettled)
			}
		})
	}
}

func TestCustomerDebtLookup(t *testing.T) {
	c := &Customer{
		Debts: []*Debt{
			{ID: "d1"},
			{ID: "d2"},
		},
	}

	if d := c.Debt("d2"); d == nil || d.ID != "d2" {
		t.Errorf("expected debt d2, got %v", d)
	}
	if d := c.Debt("missing"); d != nil {
		t.Errorf("expected nil for missing debt, got %v", d)
	}
}

func TestReceivableRemaining(t *testing.T) {
	r := &Receivable{
		Amount: decimal.NewFromInt(500),
		Paid:   decimal.NewFromInt(500),
	}

	if !r.Settled() {
		t.Error("expected settled receivable")
	}
	if !r.Remaining().IsZero() {
		t.Errorf("expected zero remaining, got %s", r.Remaining())
	}
}
