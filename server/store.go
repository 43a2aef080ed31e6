package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liorion-nguyen/chess-master-app/practice"
)

var errSessionNotFound = errors.New("server: session not found")

type entry struct {
	id      string
	session practice.Session
	hub     *Hub
	created time.Time
}

// store keeps live sessions in memory, keyed by uuid.
type store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

func newStore() *store {
	return &store{sessions: make(map[string]*entry)}
}

// Create builds a session whose snapshots feed a fresh hub. build receives
// the observer option it must pass on.
func (s *store) Create(build func(observe practice.Option) (practice.Session, error)) (*entry, error) {
	hub := NewHub()
	sess, err := build(practice.WithObserver(hub.Publish))
	if err != nil {
		return nil, err
	}
	e := &entry{id: uuid.New().String(), session: sess, hub: hub, created: time.Now()}
	go hub.Run()

	s.mu.Lock()
	s.sessions[e.id] = e
	s.mu.Unlock()
	return e, nil
}

func (s *store) Get(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	return e, nil
}

// Delete closes the session and disconnects its clients.
func (s *store) Delete(id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return errSessionNotFound
	}
	e.session.Close()
	e.hub.Close()
	return nil
}

func (s *store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close deletes every session.
func (s *store) Close() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.Delete(id)
	}
}
