package store

import (
	"context"
	"sync"
)

// MemoryTxRunner serializes whole transactions behind one mutex. With the
// in-memory stores this gives the same observable guarantee the serializable
// Postgres runner does: concurrent registrants cannot interleave between the
// seat read and the seat write.
type MemoryTxRunner struct {
	mu sync.Mutex
}

func NewMemoryTxRunner() *MemoryTxRunner {
	return &MemoryTxRunner{}
}

func (r *MemoryTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}
