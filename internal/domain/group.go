package domain

import (
	"sync"

	"github.com/samber/lo"
)

type (
	GroupID string
	ConnID  string
)

// Role is the per-round categorical tag given to a non-host member.
// The tag doubles as the audio category name on disk.
type Role string

const (
	RoleOrdinary Role = "ordinary"
	RoleOutlier  Role = "outlier"
)

// Member is a participant's public view: current connection plus name.
type Member struct {
	ConnID      ConnID `json:"connectionId"`
	DisplayName string `json:"displayName"`
}

// Group is a room of cooperating participants. Members is kept in
// insertion order for display stability; Sessions is keyed by display
// name, the durable identity within the group. Roles is keyed by the
// ephemeral connection id and must be re-keyed on reconnect.
//
// All mutations to a Group happen under its mutex; cross-group
// operations never share it.
type Group struct {
	mu sync.Mutex

	ID         GroupID
	HostConnID ConnID
	HostName   string
	Members    []Member
	Sessions   map[string]*Session
	Roles      map[ConnID]Role
	Paused     bool
}

func NewGroup(id GroupID, hostConn ConnID, hostName string) *Group {
	g := &Group{
		ID:         id,
		HostConnID: hostConn,
		HostName:   hostName,
		Sessions:   make(map[string]*Session),
		Roles:      make(map[ConnID]Role),
	}
	g.Members = append(g.Members, Member{ConnID: hostConn, DisplayName: hostName})
	g.Sessions[hostName] = NewSession(hostName, hostConn, true)
	return g
}

func (g *Group) Lock()   { g.mu.Lock() }
func (g *Group) Unlock() { g.mu.Unlock() }

// AddMember appends a non-host member and its session.
func (g *Group) AddMember(conn ConnID, name string) {
	g.Members = append(g.Members, Member{ConnID: conn, DisplayName: name})
	g.Sessions[name] = NewSession(name, conn, false)
}

// RemoveMember drops the member entry, session and role record for the
// given display name. Reports whether the group is now empty.
func (g *Group) RemoveMember(name string) bool {
	if s, ok := g.Sessions[name]; ok {
		delete(g.Roles, s.ConnID)
		delete(g.Sessions, name)
	}
	g.Members = lo.Filter(g.Members, func(m Member, _ int) bool {
		return m.DisplayName != name
	})
	return len(g.Members) == 0
}

// MemberByConn finds the member entry for a live connection.
func (g *Group) MemberByConn(conn ConnID) (Member, bool) {
	for _, m := range g.Members {
		if m.ConnID == conn {
			return m, true
		}
	}
	return Member{}, false
}

// RekeyConn moves a member from its stale connection id to a fresh one:
// the member entry, the host pointer if the session is the host, and
// any in-flight role record keyed by the old id.
func (g *Group) RekeyConn(name string, fresh ConnID) {
	s, ok := g.Sessions[name]
	if !ok {
		return
	}
	stale := s.ConnID
	s.ConnID = fresh
	for i := range g.Members {
		if g.Members[i].DisplayName == name {
			g.Members[i].ConnID = fresh
		}
	}
	if s.IsHost {
		g.HostConnID = fresh
	}
	if role, ok := g.Roles[stale]; ok {
		delete(g.Roles, stale)
		g.Roles[fresh] = role
	}
}

// MembersSnapshot returns a copy safe to hand to the wire layer.
func (g *Group) MembersSnapshot() []Member {
	out := make([]Member, len(g.Members))
	copy(out, g.Members)
	return out
}

// RolesSnapshot copies the current round's role map.
func (g *Group) RolesSnapshot() map[ConnID]Role {
	out := make(map[ConnID]Role, len(g.Roles))
	for k, v := range g.Roles {
		out[k] = v
	}
	return out
}
