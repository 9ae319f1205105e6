package agent

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/internal/domain"
)

// DefaultMaxTurns bounds the history kept per trip.
const DefaultMaxTurns = 20

// Sessions holds the conversation memory of each trip in this process.
// Entries expire after a period without new turns.
type Sessions struct {
	mu       sync.Mutex
	cache    *gocache.Cache
	maxTurns int
}

// NewSessions returns a store that keeps at most maxTurns turns per trip and
// forgets a trip after ttl without activity.
func NewSessions(ttl time.Duration, maxTurns int) *Sessions {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Sessions{cache: gocache.New(ttl, ttl), maxTurns: maxTurns}
}

// history returns a copy of the stored turns for a trip; ok is false when the
// trip has no live session.
func (s *Sessions) history(tripID domain.ID) ([]domain.Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(tripID.Hex())
	if !ok {
		return nil, false
	}
	turns := v.([]domain.Turn)
	return append([]domain.Turn(nil), turns...), true
}

// Seed starts a session from client-supplied turns unless one is already live.
// It returns the history the session holds afterwards.
func (s *Sessions) Seed(tripID domain.ID, turns []domain.Turn) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(tripID.Hex()); ok {
		return append([]domain.Turn(nil), v.([]domain.Turn)...)
	}
	kept := s.window(append([]domain.Turn(nil), turns...))
	s.cache.SetDefault(tripID.Hex(), kept)
	return append([]domain.Turn(nil), kept...)
}

// Append records turns for a trip and refreshes its expiry.
func (s *Sessions) Append(tripID domain.ID, turns ...domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []domain.Turn
	if v, ok := s.cache.Get(tripID.Hex()); ok {
		current = v.([]domain.Turn)
	}
	next := make([]domain.Turn, 0, len(current)+len(turns))
	next = append(next, current...)
	next = append(next, turns...)
	s.cache.SetDefault(tripID.Hex(), s.window(next))
}

// Reset forgets a trip's session.
func (s *Sessions) Reset(tripID domain.ID) {
	s.cache.Delete(tripID.Hex())
}

func (s *Sessions) window(turns []domain.Turn) []domain.Turn {
	if len(turns) <= s.maxTurns {
		return turns
	}
	return lo.Subset(turns, -s.maxTurns, uint(s.maxTurns))
}
