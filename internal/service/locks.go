package service

import (
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
)

// tripLocks hands out per-trip FIFO turns. A ticket taken earlier is always
// served before a ticket taken later for the same trip, so work scheduled in
// order runs in order.
type tripLocks struct {
	mu    sync.Mutex
	tails map[domain.ID]chan struct{}
}

func newTripLocks() *tripLocks {
	return &tripLocks{tails: make(map[domain.ID]chan struct{})}
}

type ticket struct {
	prev    <-chan struct{}
	release func()
}

// ticket reserves the next turn for id. It never blocks.
func (l *tripLocks) ticket(id domain.ID) ticket {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.tails[id]
	done := make(chan struct{})
	l.tails[id] = done

	release := func() {
		l.mu.Lock()
		if l.tails[id] == done {
			delete(l.tails, id)
		}
		l.mu.Unlock()
		close(done)
	}
	return ticket{prev: prev, release: release}
}

// wait blocks until every earlier ticket for the same trip was released and
// returns the release func for this one.
func (t ticket) wait() func() {
	if t.prev != nil {
		<-t.prev
	}
	return t.release
}

// lock takes and waits for a turn in one call.
func (l *tripLocks) lock(id domain.ID) func() {
	return l.ticket(id).wait()
}
