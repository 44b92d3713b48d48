package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dimaq12/minesweeper/game"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionObserver is told when sessions come and go.
type SessionObserver interface {
	SessionOpened()
	SessionClosed()
}

type session struct {
	mu       sync.Mutex
	svc      *game.MinesweeperService
	lastSeen time.Time
}

// Sessions holds one game per browser. Each game is guarded by its own
// mutex so intents against it run one at a time.
type Sessions struct {
	mu       sync.Mutex
	items    map[string]*session
	ttl      time.Duration
	now      func() time.Time
	observer SessionObserver
}

func NewSessions(ttl time.Duration, observer SessionObserver) *Sessions {
	return &Sessions{
		items:    make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		observer: observer,
	}
}

// Create stores the game built by newGame under a new id.
func (s *Sessions) Create(newGame func(id string) *game.MinesweeperService) string {
	id := uuid.New().String()
	svc := newGame(id)

	s.mu.Lock()
	s.items[id] = &session{svc: svc, lastSeen: s.now()}
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.SessionOpened()
	}
	return id
}

// With runs fn against the session's game while holding its lock.
func (s *Sessions) With(id string, fn func(svc *game.MinesweeperService)) error {
	s.mu.Lock()
	sess, ok := s.items[id]
	if ok {
		sess.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.svc)
	return nil
}

func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	if s.observer != nil {
		s.observer.SessionClosed()
	}
	return nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops sessions idle for longer than the ttl and returns how many.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.items {
		if sess.lastSeen.Before(cutoff) {
			delete(s.items, id)
			removed++
		}
	}
	s.mu.Unlock()

	if s.observer != nil {
		for i := 0; i < removed; i++ {
			s.observer.SessionClosed()
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Sessions) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
