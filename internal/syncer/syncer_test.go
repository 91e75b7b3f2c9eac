package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type captureStore struct {
	mu    sync.Mutex
	saves []map[string]json.RawMessage
	errs  int
	saved chan struct{}
}

func newCaptureStore() *captureStore {
	return &captureStore{saved: make(chan struct{}, 16)}
}

func (c *captureStore) Save(ctx context.Context, buckets map[string]json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.errs > 0 {
		c.errs--
		return errors.New("transient failure")
	}
	c.saves = append(c.saves, buckets)
	c.saved <- struct{}{}
	return nil
}

func (c *captureStore) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	return nil, nil
}

func (c *captureStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.saves)
}

func snapshot(marker string) map[string]json.RawMessage {
	return map[string]json.RawMessage{"assets": json.RawMessage(`{"m":"` + marker + `"}`)}
}

func TestBurstCollapsesToLatestSnapshot(t *testing.T) {
	store := newCaptureStore()
	s := New(store, zerolog.Nop(), WithDebounce(30*time.Millisecond), WithTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Enqueue(snapshot("one"))
	s.Enqueue(snapshot("two"))
	s.Enqueue(snapshot("three"))

	select {
	case <-store.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sync")
	}

	if got := store.count(); got != 1 {
		t.Fatalf("expected the burst to collapse into 1 upload, got %d", got)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if string(store.saves[0]["assets"]) != `{"m":"three"}` {
		t.Fatalf("expected latest snapshot to win, got %s", store.saves[0]["assets"])
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	store := newCaptureStore()
	store.errs = 2
	s := New(store, zerolog.Nop(), WithDebounce(time.Millisecond), WithTimeout(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Enqueue(snapshot("retry"))

	select {
	case <-store.saved:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for retried sync")
	}

	if got := store.count(); got != 1 {
		t.Fatalf("expected exactly one successful upload, got %d", got)
	}
}

func TestShutdownFlushesPendingSnapshot(t *testing.T) {
	store := newCaptureStore()
	// Long debounce: the upload can only come from the shutdown flush.
	s := New(store, zerolog.Nop(), WithDebounce(time.Hour), WithTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	s.Enqueue(snapshot("last"))
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}

	if got := store.count(); got != 1 {
		t.Fatalf("expected shutdown flush, got %d uploads", got)
	}
}
