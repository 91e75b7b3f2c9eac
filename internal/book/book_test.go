package book

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarraf/treasury/internal/domain"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBalanceAbsentKeyIsZero(t *testing.T) {
	b := New()

	if !b.Balance("cash_try").IsZero() {
		t.Error("absent asset should read as zero")
	}
	if !b.Balance(domain.BankAsset("missing")).IsZero() {
		t.Error("missing bank should read as zero")
	}
}

func TestBalanceBankAggregate(t *testing.T) {
	b := New()
	b.AddBank("b1", "Jumhouria", false, testTime)
	b.AddBank("b2", "Wahda", false, testTime)
	b.AddBank("b3", "POS terminal", true, testTime)

	if err := b.SetBank("b1", decimal.NewFromInt(100), testTime); err != nil {
		t.Fatal(err)
	}
	if err := b.SetBank("b2", decimal.NewFromInt(250), testTime); err != nil {
		t.Fatal(err)
	}
	if err := b.SetBank("b3", decimal.NewFromInt(999), testTime); err != nil {
		t.Fatal(err)
	}

	// POS banks are excluded from the aggregate.
	if got := b.Balance(domain.AssetBankTotal); !got.Equal(decimal.NewFromInt(350)) {
		t.Errorf("expected aggregate 350, got %s", got)
	}
	if got := b.Balance(domain.BankAsset("b2")); !got.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected bank b2 balance 250, got %s", got)
	}
}

func TestAdjust(t *testing.T) {
	b := New()
	b.AddBank("b1", "Jumhouria", false, testTime)

	tests := []struct {
		name    string
		asset   domain.Asset
		delta   int64
		wantErr bool
	}{
		{"cash asset", domain.AssetCashLYD, -500, false},
		{"bank asset", domain.BankAsset("b1"), 100, false},
		{"missing bank", domain.BankAsset("nope"), 100, true},
		{"derived aggregate", domain.AssetBankTotal, 100, true},
		{"unknown asset", domain.Asset("cash_xyz"), 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Adjust(tt.asset, decimal.NewFromInt(tt.delta), testTime)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	// Negative balances are a permitted state.
	if got := b.Balance(domain.AssetCashLYD); !got.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("expected -500, got %s", got)
	}

	// Sentinel adjustments are a no-op, never an error.
	if err := b.Adjust(domain.AssetSettlement, decimal.NewFromInt(10), testTime); err != nil {
		t.Errorf("sentinel adjust should be a no-op, got %v", err)
	}
}

func TestEnsureCustomerIdempotent(t *testing.T) {
	b := New()

	c1 := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)
	c2 := b.EnsureCustomer("c2", " ali ", domain.CurrencyUSD, testTime)
	c3 := b.EnsureCustomer("c3", "Ali", domain.CurrencyLYD, testTime)

	if c1 != c2 {
		t.Error("expected (name, currency) lookup to return the existing customer")
	}
	if c1 == c3 {
		t.Error("expected different currency to create a new customer")
	}
	if len(b.Customers) != 2 {
		t.Errorf("expected 2 customers, got %d", len(b.Customers))
	}
}

func TestConsolidateDebts(t *testing.T) {
	b := New()
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)

	c.Debts = append(c.Debts, newDebt(100, "d1"), newDebt(50, "d2"))

	successor := b.ConsolidateDebts(c, "d3", testTime)
	if successor == nil {
		t.Fatal("expected a merged successor")
	}
	if !successor.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected merged amount 150, got %s", successor.Amount)
	}
	if len(successor.MergedFrom) != 2 {
		t.Errorf("expected 2 merged ids, got %v", successor.MergedFrom)
	}

	active := 0
	for _, d := range c.Debts {
		if !d.IsArchived {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one active debt, got %d", active)
	}

	// Originals keep their amounts; archival is non-destructive.
	if !c.Debt("d1").Amount.Equal(decimal.NewFromInt(100)) {
		t.Error("archived original must keep its amount")
	}
}

func TestConsolidateDebtsSingleEntryNoop(t *testing.T) {
	b := New()
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)
	c.Debts = append(c.Debts, newDebt(100, "d1"))

	if got := b.ConsolidateDebts(c, "d2", testTime); got != nil {
		t.Errorf("expected no-op for single entry, got %v", got)
	}
}

func TestConsolidateSkipsPaidAndArchived(t *testing.T) {
	b := New()
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)

	paid := newDebt(100, "d1")
	paid.Paid = decimal.NewFromInt(100)
	archived := newDebt(40, "d2")
	archived.IsArchived = true
	c.Debts = append(c.Debts, paid, archived, newDebt(30, "d3"), newDebt(20, "d4"))

	successor := b.ConsolidateDebts(c, "d5", testTime)
	if successor == nil {
		t.Fatal("expected a merge of the two open entries")
	}
	if !successor.Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected merged amount 50, got %s", successor.Amount)
	}
}

func TestFinalActiveDebtSuccessor(t *testing.T) {
	b := New()
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)

	// Build a two-level merge chain: d1+d2 -> m1, m1+d3 -> m2.
	c.Debts = append(c.Debts, newDebt(100, "d1"), newDebt(50, "d2"))
	b.ConsolidateDebts(c, "m1", testTime)
	c.Debts = append(c.Debts, newDebt(25, "d3"))
	m2 := b.ConsolidateDebts(c, "m2", testTime)

	got, err := b.FinalActiveDebtSuccessor(c, "d1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != m2.ID {
		t.Errorf("expected successor m2, got %v", got)
	}
	if !got.Amount.Equal(decimal.NewFromInt(175)) {
		t.Errorf("expected chained amount 175, got %s", got.Amount)
	}

	// Never-merged entries have no successor.
	c.Debts = append(c.Debts, newDebt(10, "lonely"))
	got, err = b.FinalActiveDebtSuccessor(c, "lonely")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil successor, got %v", got)
	}
}

func TestFinalActiveDebtSuccessorCycle(t *testing.T) {
	b := New()
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)

	d1 := newDebt(10, "d1")
	d1.IsArchived = true
	d1.MergedFrom = []string{"d2"}
	d2 := newDebt(10, "d2")
	d2.IsArchived = true
	d2.MergedFrom = []string{"d1"}
	c.Debts = append(c.Debts, d1, d2)

	if _, err := b.FinalActiveDebtSuccessor(c, "d1"); err == nil {
		t.Error("expected cycle error")
	}
}

func TestTotals(t *testing.T) {
	b := New()
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)
	d := newDebt(100, "d1")
	d.Paid = decimal.NewFromInt(30)
	archived := newDebt(999, "d2")
	archived.IsArchived = true
	c.Debts = append(c.Debts, d, archived)

	b.InsertReceivable(&domain.Receivable{
		ID: "r1", Debtor: "Omar", Amount: decimal.NewFromInt(80),
		Currency: domain.CurrencyUSD, CreatedAt: testTime,
	})
	b.InsertReceivable(&domain.Receivable{
		ID: "r2", Debtor: "Omar", Amount: decimal.NewFromInt(40),
		Currency: domain.CurrencyLYD, CreatedAt: testTime,
	})

	if got := b.TotalDebts(domain.CurrencyUSD); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected USD debts 70, got %s", got)
	}
	if got := b.TotalReceivables(domain.CurrencyUSD); !got.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected USD receivables 80, got %s", got)
	}
	if got := b.TotalReceivables(domain.CurrencyLYD); !got.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected LYD receivables 40, got %s", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := New()
	b.AddBank("b1", "Jumhouria", false, testTime)
	b.Adjust(domain.AssetCashLYD, decimal.NewFromInt(1000), testTime)
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)
	c.Debts = append(c.Debts, newDebt(100, "d1"))

	buckets, err := b.ExportBuckets()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range BucketNames {
		if _, ok := buckets[name]; !ok {
			t.Errorf("missing bucket %s", name)
		}
	}

	restored, err := ImportBuckets(buckets)
	if err != nil {
		t.Fatal(err)
	}
	if !restored.Balance(domain.AssetCashLYD).Equal(decimal.NewFromInt(1000)) {
		t.Error("cash balance lost in round trip")
	}
	if restored.CustomerByName("Ali", domain.CurrencyUSD) == nil {
		t.Error("customer lost in round trip")
	}
	if restored.Bank("b1") == nil {
		t.Error("bank lost in round trip")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := New()
	b.Adjust(domain.AssetCashLYD, decimal.NewFromInt(100), testTime)

	clone, err := b.Clone()
	if err != nil {
		t.Fatal(err)
	}
	clone.Adjust(domain.AssetCashLYD, decimal.NewFromInt(900), testTime)

	if !b.Balance(domain.AssetCashLYD).Equal(decimal.NewFromInt(100)) {
		t.Error("mutating the clone leaked into the original")
	}
}

func TestPurgeArchived(t *testing.T) {
	b := New()
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)
	c.Debts = append(c.Debts, newDebt(100, "d1"), newDebt(50, "d2"))
	b.ConsolidateDebts(c, "m1", testTime)

	if got := b.PurgeArchived(); got != 2 {
		t.Errorf("expected 2 purged rows, got %d", got)
	}
	if len(c.Debts) != 1 || c.Debts[0].ID != "m1" {
		t.Errorf("expected only the successor to remain, got %v", c.Debts)
	}
}

func TestExportUsesSnakeCaseKeysEverywhere(t *testing.T) {
	b := New()
	b.AddBank("b1", "Wahda", true, testTime)
	c := b.EnsureCustomer("c1", "Ali", domain.CurrencyUSD, testTime)
	c.Debts = append(c.Debts, newDebt(100, "d1"))
	b.InsertReceivable(&domain.Receivable{
		ID: "r1", Debtor: "Omar", Amount: decimal.NewFromInt(40),
		Currency: domain.CurrencyUSD, CreatedAt: testTime,
	})

	data, err := b.ExportDocument()
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	for _, key := range []string{
		`"balance"`, `"is_pos"`, `"debts"`, `"amount"`, `"paid"`,
		`"is_archived"`, `"debtor"`, `"created_at"`,
	} {
		if !strings.Contains(doc, key) {
			t.Errorf("export missing key %s", key)
		}
	}
	for _, key := range []string{`"Balance"`, `"Amount"`, `"Paid"`, `"Debtor"`, `"Debts"`} {
		if strings.Contains(doc, key) {
			t.Errorf("export has Go-cased key %s", key)
		}
	}
}

// newDebt builds a test debt with the given amount.
func newDebt(amount int64, id string) *domain.Debt {
	return &domain.Debt{
		ID:        id,
		Amount:    decimal.NewFromInt(amount),
		Paid:      decimal.Zero,
		CreatedAt: testTime,
	}
}
