package usecase

import (
	"context"
	"encoding/json"
	"time"
)

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time. Operations never read the wall clock
// directly so tests can pin it.
type Clock interface {
	Now() time.Time
}

// BucketStore persists the snapshot as independently keyed bucket blobs.
// Save overwrites whole buckets (last-write-wins).
type BucketStore interface {
	Save(ctx context.Context, buckets map[string]json.RawMessage) error
	Load(ctx context.Context) (map[string]json.RawMessage, error)
}

// Syncer receives the post-commit snapshot for fire-and-forget replication.
// Enqueue must not block the mutation path.
type Syncer interface {
	Enqueue(buckets map[string]json.RawMessage)
}
