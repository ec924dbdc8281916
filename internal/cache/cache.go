// Package cache defines the narrow derived-data cache contract. Entries are
// best-effort: they may vanish at any time, and absence is distinct from an
// empty value.
package cache

import "context"

// Keys for derived values. Featured-speaker entries are keyed per conference
// so concurrent session creation across conferences cannot clobber each other.
const (
	AnnouncementKey   = "announcement"
	FeaturedKeyPrefix = "featured:"
)

// FeaturedKey builds the per-conference featured speaker cache key.
func FeaturedKey(conferenceID string) string {
	return FeaturedKeyPrefix + conferenceID
}

// Cache is a process-wide key to string cache with no persistence guarantee.
type Cache interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
