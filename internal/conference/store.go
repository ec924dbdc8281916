package conference

import "context"

// Store persists conferences. Get returns sentinel.ErrNotFound for unknown
// IDs; GetMulti silently drops unresolvable IDs so stale reference lists do
// not fail whole reads. List methods return name-ordered results.
type Store interface {
	Get(ctx context.Context, id string) (*Conference, error)
	GetMulti(ctx context.Context, ids []string) ([]*Conference, error)
	Put(ctx context.Context, c *Conference) error
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Conference, error)
	ListByCity(ctx context.Context, city string) ([]*Conference, error)
	ListByTopic(ctx context.Context, topic string) ([]*Conference, error)
	// ListNearlySoldOut returns conferences with 0 < seatsAvailable <= threshold.
	// Sold-out conferences are excluded: they are no longer "about to sell out".
	ListNearlySoldOut(ctx context.Context, threshold int) ([]*Conference, error)
}
