package bulk

import (
	"context"
	"time"
)

// ProgressStore keeps the in-flight ImportJob of running and recently
// finished imports. Get returns shared.ErrNotFound for unknown or expired ids.
type ProgressStore interface {
	// Put replaces the job. A zero ttl keeps it until the next Put.
	Put(ctx context.Context, job *ImportJob, ttl time.Duration) error
	Get(ctx context.Context, id string) (*ImportJob, error)
	Delete(ctx context.Context, id string) error
}
