package sessionmock

import (
	"context"
	"strconv"
	"sync"
	"time"

	"subsidy-intake/internal/domain/session"
)

var _ session.Store = (*Store)(nil)

// Store is an in-memory session.Store. TTLs are recorded, not enforced.
type Store struct {
	mu       sync.Mutex
	next     int
	sessions map[string]uint64
	TTLs     map[string]time.Duration

	CreateErr error
	LookupErr error
}

func New() *Store {
	return &Store{sessions: map[string]uint64{}, TTLs: map[string]time.Duration{}}
}

func (s *Store) Create(_ context.Context, userID uint64, ttl time.Duration) (string, error) {
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	tok := "tok-" + strconv.Itoa(s.next)
	s.sessions[tok] = userID
	s.TTLs[tok] = ttl
	return tok, nil
}

func (s *Store) Lookup(_ context.Context, token string) (uint64, error) {
	if s.LookupErr != nil {
		return 0, s.LookupErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.sessions[token]
	if !ok {
		return 0, session.ErrNotFound
	}
	return uid, nil
}

func (s *Store) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
