// Package store owns the authoritative in-memory set of live groups.
package store

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/offbeatgame/offbeat/internal/domain"
)

// GroupStore is a threadsafe registry of live groups. It serializes
// create/get/delete; mutations inside a Group happen under that
// group's own lock.
type GroupStore struct {
	mu     sync.RWMutex
	groups map[domain.GroupID]*domain.Group
}

func New() *GroupStore {
	return &GroupStore{groups: make(map[domain.GroupID]*domain.Group)}
}

// Create allocates a new group with the caller as host. The group id is
// a 6-digit numeric string, re-rolled until it misses every live group.
func (s *GroupStore) Create(hostConn domain.ConnID, hostName string) *domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id domain.GroupID
	for {
		id = domain.GroupID(fmt.Sprintf("%06d", 100000+rand.IntN(900000)))
		if _, taken := s.groups[id]; !taken {
			break
		}
	}
	g := domain.NewGroup(id, hostConn, hostName)
	s.groups[id] = g
	log.Info().Str("module", "store").Str("group", string(id)).Str("host", hostName).Msg("group created")
	return g
}

func (s *GroupStore) Get(id domain.GroupID) (*domain.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	return g, ok
}

// Delete removes a group; callers only do this once the group is empty.
func (s *GroupStore) Delete(id domain.GroupID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groups, id)
	log.Info().Str("module", "store").Str("group", string(id)).Msg("group deleted")
}

func (s *GroupStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups)
}

// GroupsOf lists every live group the connection is currently a member
// of. Used by the disconnect path, which only knows the connection id.
func (s *GroupStore) GroupsOf(conn domain.ConnID) []*domain.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Group
	for _, g := range s.groups {
		g.Lock()
		_, ok := g.MemberByConn(conn)
		g.Unlock()
		if ok {
			out = append(out, g)
		}
	}
	return out
}
