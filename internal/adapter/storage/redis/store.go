// Package redis keeps a read replica of the book, one key per bucket. It is
// the target of the background syncer; writes are last-write-wins.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "treasury:bucket:"

// Store implements usecase.BucketStore on per-bucket redis keys.
type Store struct {
	client *redis.Client
}

// New creates a new Store.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save writes every bucket in one pipeline round trip.
func (s *Store) Save(ctx context.Context, buckets map[string]json.RawMessage) error {
	pipe := s.client.Pipeline()
	for name, payload := range buckets {
		pipe.Set(ctx, keyPrefix+name, []byte(payload), 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot to redis: %w", err)
	}
	return nil
}

// Load reads all bucket keys. Missing keys are simply absent from the
// result.
func (s *Store) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	var cursor uint64
	buckets := make(map[string]json.RawMessage)

	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan snapshot keys: %w", err)
		}
		for _, key := range keys {
			payload, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				return nil, fmt.Errorf("load bucket %s: %w", key, err)
			}
			buckets[key[len(keyPrefix):]] = json.RawMessage(payload)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return buckets, nil
}
