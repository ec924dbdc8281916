package session

import (
	"context"
	"slices"
	"strings"
	"sync"

	"confhub/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a map. Used by unit tests and local mode.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]Session)}
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := clone(sess)
	return &cp, nil
}

func (s *InMemoryStore) GetMulti(_ context.Context, ids []string) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(ids))
	for _, id := range ids {
		if sess, ok := s.sessions[id]; ok {
			cp := clone(sess)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = clone(*sess)
	return nil
}

func (s *InMemoryStore) ListByConference(_ context.Context, conferenceID string) ([]*Session, error) {
	return s.filter(func(sess Session) bool { return sess.ConferenceID == conferenceID })
}

func (s *InMemoryStore) ListByType(_ context.Context, conferenceID string, t Type) ([]*Session, error) {
	return s.filter(func(sess Session) bool {
		return sess.ConferenceID == conferenceID && sess.Type == t
	})
}

func (s *InMemoryStore) ListBySpeaker(_ context.Context, conferenceID, speaker string) ([]*Session, error) {
	return s.filter(func(sess Session) bool {
		return sess.ConferenceID == conferenceID && sess.Speaker == speaker
	})
}

func (s *InMemoryStore) filter(keep func(Session) bool) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Session
	for _, sess := range s.sessions {
		if keep(sess) {
			cp := clone(sess)
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *Session) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func clone(s Session) Session {
	s.Highlights = append([]string(nil), s.Highlights...)
	return s
}
