package book

import (
	"encoding/json"
	"fmt"
)

// Bucket names of the persisted-state layout. Each bucket is an independently
// keyed serializable blob; the full snapshot is one JSON document with one key
// per bucket (which is exactly the Book's own JSON form).
const (
	BucketAssets          = "assets"
	BucketBanks           = "banks"
	BucketCustomers       = "customers"
	BucketReceivables     = "receivables"
	BucketTransactions    = "transactions"
	BucketPosTransactions = "pos_transactions"
	BucketDollarCards     = "dollar_cards"
	BucketOperatingCosts  = "operating_costs"
	BucketPendingTrades   = "pending_trades"
)

// BucketNames lists all buckets in a stable order.
var BucketNames = []string{
	BucketAssets,
	BucketBanks,
	BucketCustomers,
	BucketReceivables,
	BucketTransactions,
	BucketPosTransactions,
	BucketDollarCards,
	BucketOperatingCosts,
	BucketPendingTrades,
}

// ExportDocument marshals the whole book as one JSON document, one key per
// bucket.
func (b *Book) ExportDocument() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("export book: %w", err)
	}
	return data, nil
}

// ImportDocument replaces the book's contents from a full JSON document.
func ImportDocument(data []byte) (*Book, error) {
	b := New()
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("import book: %w", err)
	}
	if b.Balances == nil {
		b.Balances = New().Balances
	}
	return b, nil
}

// ExportBuckets marshals each bucket independently, for stores that persist
// per-bucket blobs (last-write-wins at bucket granularity).
func (b *Book) ExportBuckets() (map[string]json.RawMessage, error) {
	doc, err := b.ExportDocument()
	if err != nil {
		return nil, err
	}

	var buckets map[string]json.RawMessage
	if err := json.Unmarshal(doc, &buckets); err != nil {
		return nil, fmt.Errorf("export buckets: %w", err)
	}
	return buckets, nil
}

// ImportBuckets rebuilds a book from per-bucket blobs. Missing buckets read as
// empty.
func ImportBuckets(buckets map[string]json.RawMessage) (*Book, error) {
	doc, err := json.Marshal(buckets)
	if err != nil {
		return nil, fmt.Errorf("import buckets: %w", err)
	}
	return ImportDocument(doc)
}

// PurgeArchived removes already-archived debt and receivable rows. This is the
// administrative purge; it severs merge lineage for the purged rows, so groups
// that created them can no longer be reversed.
func (b *Book) PurgeArchived() int {
	purged := 0

	for _, c := range b.Customers {
		kept := c.Debts[:0]
		for _, d := range c.Debts {
			if d.IsArchived {
				purged++
				continue
			}
			kept = append(kept, d)
		}
		c.Debts = kept
	}

	keptR := b.Receivables[:0]
	for _, r := range b.Receivables {
		if r.IsArchived {
			purged++
			continue
		}
		keptR = append(keptR, r)
	}
	b.Receivables = keptR

	return purged
}
