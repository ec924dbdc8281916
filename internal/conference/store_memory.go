package conference

import (
	"context"
	"slices"
	"strings"
	"sync"

	"confhub/pkg/platform/sentinel"
)

// InMemoryStore keeps conferences in a map. Used by unit tests and local mode.
type InMemoryStore struct {
	mu          sync.RWMutex
	conferences map[string]Conference
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conferences: make(map[string]Conference)}
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conferences[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := clone(c)
	return &cp, nil
}

func (s *InMemoryStore) GetMulti(_ context.Context, ids []string) ([]*Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Conference, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.conferences[id]; ok {
			cp := clone(c)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Put(_ context.Context, c *Conference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conferences[c.ID] = clone(*c)
	return nil
}

func (s *InMemoryStore) ListByOrganizer(_ context.Context, organizerID string) ([]*Conference, error) {
	return s.filter(func(c Conference) bool { return c.OrganizerID == organizerID })
}

func (s *InMemoryStore) ListByCity(_ context.Context, city string) ([]*Conference, error) {
	return s.filter(func(c Conference) bool { return c.City == city })
}

func (s *InMemoryStore) ListByTopic(_ context.Context, topic string) ([]*Conference, error) {
	return s.filter(func(c Conference) bool { return slices.Contains(c.Topics, topic) })
}

func (s *InMemoryStore) ListNearlySoldOut(_ context.Context, threshold int) ([]*Conference, error) {
	return s.filter(func(c Conference) bool {
		return c.SeatsAvailable > 0 && c.SeatsAvailable <= threshold
	})
}

func (s *InMemoryStore) filter(keep func(Conference) bool) ([]*Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Conference
	for _, c := range s.conferences {
		if keep(c) {
			cp := clone(c)
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *Conference) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func clone(c Conference) Conference {
	c.Topics = append([]string(nil), c.Topics...)
	return c
}
