package session

import "context"

// Store persists sessions. Get returns sentinel.ErrNotFound for unknown IDs;
// GetMulti silently drops unresolvable IDs. The conference-scoped listings
// are the ancestor queries of the ownership hierarchy.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	GetMulti(ctx context.Context, ids []string) ([]*Session, error)
	Put(ctx context.Context, s *Session) error
	ListByConference(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByType(ctx context.Context, conferenceID string, t Type) ([]*Session, error)
	ListBySpeaker(ctx context.Context, conferenceID, speaker string) ([]*Session, error)
}
