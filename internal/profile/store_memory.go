package profile

import (
	"context"
	"sync"

	"confhub/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in a map. Used by unit tests and local mode.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[string]Profile)}
}

func (s *InMemoryStore) Get(_ context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := p
	cp.ConferenceIDs = append([]string(nil), p.ConferenceIDs...)
	cp.WishlistIDs = append([]string(nil), p.WishlistIDs...)
	return &cp, nil
}

func (s *InMemoryStore) Put(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.ConferenceIDs = append([]string(nil), p.ConferenceIDs...)
	cp.WishlistIDs = append([]string(nil), p.WishlistIDs...)
	s.profiles[p.UserID] = cp
	return nil
}
