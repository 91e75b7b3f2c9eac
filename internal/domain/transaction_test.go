package domain

import "testing"

func TestKnownGroupType(t *testing.T) {
	known := []GroupType{
		GroupNewDebt, GroupNewReceivable, GroupDebtPayment, GroupReceivablePayment,
		GroupBuyUSD, GroupSellUSD, GroupBuyOther, GroupSellOther,
		GroupAdjustBalance, GroupPOSTransaction,
		GroupDollarCardPayment, GroupDollarCardComplete,
		GroupOperatingCost, GroupUSDExchange, GroupEURExchange,
		GroupBankTransfer, GroupSingleDebtConversion,
	}

	for _, gt := range known {
		if !KnownGroupType(gt) {
			t.Errorf("expected %s to be known", gt)
		}
	}

	if KnownGroupType("BOGUS") {
		t.Error("expected BOGUS to be unknown")
	}
}

func TestTxMetaPrimaryEntityID(t *testing.T) {
	tests := []struct {
		name string
		meta TxMeta
		want string
	}{
		{"created entry wins over acted-on entry", TxMeta{DebtID: "d1", CreatedReceivableID: "r1"}, "r1"},
		{"debt acted on", TxMeta{DebtID: "d1"}, "d1"},
		{"receivable acted on", TxMeta{ReceivableID: "r1"}, "r1"},
		{"created debt", TxMeta{CreatedDebtID: "d2"}, "d2"},
		{"pos row", TxMeta{PosID: "p1"}, "p1"},
		{"balance only", TxMeta{BankID: "b1"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.PrimaryEntityID(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
