// Package session maps durable (group, display name) identities onto
// ephemeral connections: join, reconnect-within-grace, logout, eviction.
package session

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/offbeatgame/offbeat/internal/core"
	"github.com/offbeatgame/offbeat/internal/domain"
	"github.com/offbeatgame/offbeat/internal/protocol"
	"github.com/offbeatgame/offbeat/internal/store"
)

// DefaultGrace is the reconnect window after a transport drop: long
// enough to survive a page reload, short enough to free dead groups.
const DefaultGrace = 30 * time.Second

type Reconciler struct {
	store  *store.GroupStore
	send   core.Sender
	grace  time.Duration
	timers *evictionTimers
}

func NewReconciler(st *store.GroupStore, send core.Sender, grace time.Duration) *Reconciler {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Reconciler{
		store:  st,
		send:   send,
		grace:  grace,
		timers: newEvictionTimers(),
	}
}

// Create allocates a fresh group with the caller as host.
func (r *Reconciler) Create(conn domain.ConnID, name string) {
	g := r.store.Create(conn, name)
	g.Lock()
	members := g.MembersSnapshot()
	g.Unlock()
	r.send.Subscribe(conn, g.ID)
	r.send.Unicast(conn, protocol.NewGroupCreated(g.ID, name))
	r.send.Broadcast(g.ID, protocol.NewUpdateGroup(members))
}

// Join appends a non-host member. A display name that already has a
// session in the group is rejected; it never evicts the holder.
func (r *Reconciler) Join(conn domain.ConnID, groupID domain.GroupID, name string) {
	g, ok := r.store.Get(groupID)
	if !ok {
		r.send.Unicast(conn, protocol.NewError("Group not found."))
		return
	}

	g.Lock()
	if _, taken := g.Sessions[name]; taken {
		g.Unlock()
		r.send.Unicast(conn, protocol.NewError("Display name already taken."))
		return
	}
	g.AddMember(conn, name)
	host := g.HostName
	members := g.MembersSnapshot()
	g.Unlock()

	r.send.Subscribe(conn, groupID)
	r.send.Unicast(conn, protocol.NewGroupJoined(groupID, host))
	r.send.Broadcast(groupID, protocol.NewUpdateGroup(members))
	log.Info().Str("module", "session").Str("group", string(groupID)).Str("name", name).Msg("member joined")
}

// Reconnect swaps a session onto a new connection within the grace
// window. The host additionally gets the current round's role summary
// resent, since it is the only party that displays it.
func (r *Reconciler) Reconnect(conn domain.ConnID, groupID domain.GroupID, name string) {
	g, ok := r.store.Get(groupID)
	if !ok {
		r.send.Unicast(conn, protocol.NewReconnectFailed("Group no longer exists."))
		return
	}

	g.Lock()
	s, ok := g.Sessions[name]
	if !ok {
		g.Unlock()
		r.send.Unicast(conn, protocol.NewReconnectFailed("Session not found."))
		return
	}
	r.timers.cancel(identity{groupID, name})
	stale := s.ConnID
	g.RekeyConn(name, conn)
	s.Touch()
	isHost := s.IsHost
	host := g.HostName
	paused := g.Paused
	var roles map[domain.ConnID]domain.Role
	if isHost {
		roles = g.RolesSnapshot()
	}
	members := g.MembersSnapshot()
	g.Unlock()

	// The old socket may still be open (second-tab reconnect); stop
	// feeding it group traffic.
	if stale != conn {
		r.send.Unsubscribe(stale, groupID)
	}
	r.send.Subscribe(conn, groupID)
	r.send.Unicast(conn, protocol.NewReconnectSuccess(groupID, isHost, host, paused))
	if isHost {
		r.send.Unicast(conn, protocol.NewSongTypes(roles))
	}
	r.send.Broadcast(groupID, protocol.NewUpdateGroup(members))
	log.Info().Str("module", "session").Str("group", string(groupID)).Str("name", name).Bool("host", isHost).Msg("reconnected")
}

// Logout removes an identity for good. No-op when the group is gone.
func (r *Reconciler) Logout(conn domain.ConnID, groupID domain.GroupID, name string) {
	g, ok := r.store.Get(groupID)
	if !ok {
		return
	}

	r.timers.cancel(identity{groupID, name})

	g.Lock()
	empty := g.RemoveMember(name)
	members := g.MembersSnapshot()
	g.Unlock()

	if empty {
		r.store.Delete(groupID)
	} else {
		r.send.Broadcast(groupID, protocol.NewUpdateGroup(members))
	}
	r.send.Unsubscribe(conn, groupID)
	r.send.Unicast(conn, protocol.NewLogoutSuccess())
	log.Info().Str("module", "session").Str("group", string(groupID)).Str("name", name).Msg("logged out")
}

// Disconnect is the transport-level drop notification. The identity
// stays put; a grace timer is armed per group the connection was in.
func (r *Reconciler) Disconnect(conn domain.ConnID) {
	for _, g := range r.store.GroupsOf(conn) {
		g.Lock()
		m, ok := g.MemberByConn(conn)
		if !ok {
			g.Unlock()
			continue
		}
		if s := g.Sessions[m.DisplayName]; s != nil {
			s.Touch()
		}
		groupID := g.ID
		name := m.DisplayName
		// Arm under the group lock: a racing reconnect either runs
		// after us and cancels this timer (its cancel happens under the
		// same lock), or ran before us and already rekeyed the member
		// so the lookup above misses and no timer exists to misfire.
		r.timers.arm(identity{groupID, name}, r.grace, r.expire)
		g.Unlock()

		log.Info().Str("module", "session").Str("group", string(groupID)).Str("name", name).Dur("grace", r.grace).Msg("disconnected, grace timer armed")
	}
}

// RequestMembers re-broadcasts the current member list to the group.
func (r *Reconciler) RequestMembers(groupID domain.GroupID) {
	g, ok := r.store.Get(groupID)
	if !ok {
		return
	}
	g.Lock()
	members := g.MembersSnapshot()
	g.Unlock()
	r.send.Broadcast(groupID, protocol.NewUpdateGroup(members))
}

// expire runs when a grace timer fires. Liveness is re-checked under
// the group lock: a reconnect that raced the timer refreshed LastSeen,
// in which case the eviction is abandoned.
func (r *Reconciler) expire(id identity) {
	g, ok := r.store.Get(id.group)
	if !ok {
		return
	}

	g.Lock()
	s, ok := g.Sessions[id.name]
	if !ok || time.Since(s.LastSeen) < r.grace {
		g.Unlock()
		return
	}
	stale := s.ConnID
	empty := g.RemoveMember(id.name)
	members := g.MembersSnapshot()
	g.Unlock()

	r.send.Unsubscribe(stale, id.group)
	if empty {
		r.store.Delete(id.group)
	} else {
		r.send.Broadcast(id.group, protocol.NewUpdateGroup(members))
	}
	log.Info().Str("module", "session").Str("group", string(id.group)).Str("name", id.name).Msg("session evicted after grace period")
}
