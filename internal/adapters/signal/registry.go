package signal

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/offbeatgame/offbeat/internal/core"
	"github.com/offbeatgame/offbeat/internal/domain"
)

// Registry tracks live connections and their group topic subscriptions.
// It implements core.Sender; all delivery is fire-and-forget through
// each connection's TrySend.
type Registry struct {
	mu     sync.RWMutex
	conns  map[domain.ConnID]core.SignalConnection
	topics map[domain.GroupID]map[domain.ConnID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[domain.ConnID]core.SignalConnection),
		topics: make(map[domain.GroupID]map[domain.ConnID]struct{}),
	}
}

func (r *Registry) Bind(id domain.ConnID, c core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = c
}

// Unbind forgets a dead connection and drops it from every topic. The
// member's session survives; eviction is the reconciler's call.
func (r *Registry) Unbind(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	for group, subs := range r.topics {
		delete(subs, id)
		if len(subs) == 0 {
			delete(r.topics, group)
		}
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("unbound connection")
}

func (r *Registry) Subscribe(id domain.ConnID, group domain.GroupID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs, ok := r.topics[group]
	if !ok {
		subs = make(map[domain.ConnID]struct{})
		r.topics[group] = subs
	}
	subs[id] = struct{}{}
}

func (r *Registry) Unsubscribe(id domain.ConnID, group domain.GroupID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subs, ok := r.topics[group]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(r.topics, group)
		}
	}
}

func (r *Registry) Unicast(id domain.ConnID, v any) {
	r.mu.RLock()
	c, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	if err := c.TrySend(v); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("unicast dropped")
	}
}

func (r *Registry) Broadcast(group domain.GroupID, v any) {
	r.mu.RLock()
	targets := make([]core.SignalConnection, 0, len(r.topics[group]))
	for id := range r.topics[group] {
		if c, ok := r.conns[id]; ok {
			targets = append(targets, c)
		}
	}
	r.mu.RUnlock()

	dropped := 0
	for _, c := range targets {
		if err := c.TrySend(v); err != nil {
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Str("module", "signal").Str("group", string(group)).Int("dropped", dropped).Msg("broadcast drops")
	}
}
