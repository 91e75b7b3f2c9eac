package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	filestore "github.com/sarraf/treasury/internal/adapter/storage/file"
	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

func TestLoadBookEmptyStore(t *testing.T) {
	store := filestore.New(filepath.Join(t.TempDir(), "treasury.json"))

	b, err := loadBook(context.Background(), store, zerolog.Nop())
	if err != nil {
		t.Fatalf("loadBook: %v", err)
	}
	if len(b.Transactions) != 0 {
		t.Fatalf("expected empty book, got %d transactions", len(b.Transactions))
	}
	if !b.Balance(domain.AssetCashLYD).IsZero() {
		t.Fatalf("expected zero LYD balance")
	}
}

func TestLoadBookRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := filestore.New(filepath.Join(t.TempDir(), "treasury.json"))

	src := book.New()
	if err := src.Adjust(domain.AssetCashUSDLibya, decimal.NewFromInt(250), time.Now()); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	buckets, err := src.ExportBuckets()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := store.Save(ctx, buckets); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := loadBook(ctx, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("loadBook: %v", err)
	}
	if !loaded.Balance(domain.AssetCashUSDLibya).Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected 250 USD, got %s", loaded.Balance(domain.AssetCashUSDLibya))
	}
}

func TestFanoutSyncerReachesEveryTarget(t *testing.T) {
	var a, b recordingSyncer

	fanoutSyncer{&a, &b}.Enqueue(map[string]json.RawMessage{"assets": json.RawMessage(`{}`)})

	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected one enqueue per target, got %d and %d", a.calls, b.calls)
	}
}

type recordingSyncer struct {
	calls int
}

func (s *recordingSyncer) Enqueue(map[string]json.RawMessage) {
	s.calls++
}
