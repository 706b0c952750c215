package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGroup_HostIsFirstMemberWithSession(t *testing.T) {
	g := NewGroup("123456", "conn-host", "alice")

	require.Len(t, g.Members, 1)
	require.Equal(t, ConnID("conn-host"), g.Members[0].ConnID)
	require.Equal(t, "alice", g.Members[0].DisplayName)

	s, ok := g.Sessions["alice"]
	require.True(t, ok)
	require.True(t, s.IsHost)
	require.Equal(t, ConnID("conn-host"), s.ConnID)
	require.Equal(t, ConnID("conn-host"), g.HostConnID)
}

func TestGroup_MembersAndSessionsStayInSync(t *testing.T) {
	g := NewGroup("123456", "c1", "alice")
	g.AddMember("c2", "bob")
	g.AddMember("c3", "carol")

	require.Len(t, g.Members, 3)
	require.Len(t, g.Sessions, 3)

	empty := g.RemoveMember("bob")
	require.False(t, empty)
	require.Len(t, g.Members, 2)
	require.Len(t, g.Sessions, 2)
	_, ok := g.Sessions["bob"]
	require.False(t, ok)

	// insertion order preserved for the remaining members
	require.Equal(t, "alice", g.Members[0].DisplayName)
	require.Equal(t, "carol", g.Members[1].DisplayName)

	require.False(t, g.RemoveMember("alice"))
	require.True(t, g.RemoveMember("carol"))
}

func TestGroup_RemoveMemberDropsRoleRecord(t *testing.T) {
	g := NewGroup("123456", "c1", "alice")
	g.AddMember("c2", "bob")
	g.Roles["c2"] = RoleOutlier

	g.RemoveMember("bob")
	require.Empty(t, g.Roles)
}

func TestGroup_RekeyConn(t *testing.T) {
	g := NewGroup("123456", "c1", "alice")
	g.AddMember("c2", "bob")
	g.Roles["c2"] = RoleOrdinary

	g.RekeyConn("bob", "c2-new")

	m, ok := g.MemberByConn("c2-new")
	require.True(t, ok)
	require.Equal(t, "bob", m.DisplayName)
	_, ok = g.MemberByConn("c2")
	require.False(t, ok)

	require.Equal(t, ConnID("c2-new"), g.Sessions["bob"].ConnID)

	// role record migrated to the fresh connection id
	require.Equal(t, RoleOrdinary, g.Roles["c2-new"])
	_, stale := g.Roles["c2"]
	require.False(t, stale)

	// host pointer does not move for a non-host rekey
	require.Equal(t, ConnID("c1"), g.HostConnID)
}

func TestGroup_RekeyConn_Host(t *testing.T) {
	g := NewGroup("123456", "c1", "alice")
	g.RekeyConn("alice", "c1-new")
	require.Equal(t, ConnID("c1-new"), g.HostConnID)
}

func TestValidateDisplayName(t *testing.T) {
	require.ErrorIs(t, ValidateDisplayName(""), ErrNameEmpty)
	require.ErrorIs(t, ValidateDisplayName(string(make([]byte, MaxDisplayNameLen+1))), ErrNameTooLong)
	require.NoError(t, ValidateDisplayName("alice"))
}
