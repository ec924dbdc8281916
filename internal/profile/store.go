package profile

import "context"

// Store persists profiles keyed by the opaque user identity. Get returns
// sentinel.ErrNotFound when no profile exists; Put upserts.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Put(ctx context.Context, p *Profile) error
}
