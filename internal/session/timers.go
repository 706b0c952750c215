package session

import (
	"sync"
	"time"

	"github.com/offbeatgame/offbeat/internal/domain"
)

// identity keys a pending eviction: one durable participant of one group.
type identity struct {
	group domain.GroupID
	name  string
}

// evictionTimers holds at most one pending eviction per identity.
// Arming replaces any previous timer; cancel stops and forgets it. A
// cancelled timer never runs its callback with the map entry present,
// and the eviction path re-checks liveness anyway.
type evictionTimers struct {
	mu     sync.Mutex
	timers map[identity]*time.Timer
}

func newEvictionTimers() *evictionTimers {
	return &evictionTimers{timers: make(map[identity]*time.Timer)}
}

func (e *evictionTimers) arm(id identity, d time.Duration, fire func(identity)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.timers[id]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		// Only the currently-armed timer may evict; a replaced or
		// cancelled one finds a different (or no) entry and stops.
		e.mu.Lock()
		cur, armed := e.timers[id]
		if armed && cur == t {
			delete(e.timers, id)
		}
		e.mu.Unlock()
		if armed && cur == t {
			fire(id)
		}
	})
	e.timers[id] = t
}

func (e *evictionTimers) cancel(id identity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.timers[id]; ok {
		t.Stop()
		delete(e.timers, id)
	}
}

func (e *evictionTimers) pending(id identity) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.timers[id]
	return ok
}
