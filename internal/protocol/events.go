// Package protocol defines the JSON events exchanged over the signal
// socket. Every frame carries a "type" discriminator.
package protocol

import "github.com/offbeatgame/offbeat/internal/domain"

// Inbound event types.
const (
	TypeCreateGroup    = "createGroup"
	TypeJoinGroup      = "joinGroup"
	TypeReconnect      = "reconnect"
	TypeLogout         = "logout"
	TypePlaySong       = "playSong"
	TypeTogglePause    = "togglePause"
	TypeRequestMembers = "requestGroupMembers"
	TypePing           = "ping"
)

// Envelope is the minimal frame read before dispatch.
type Envelope struct {
	Type string `json:"type"`
}

type CreateGroup struct {
	DisplayName string `json:"displayName"`
}

type JoinGroup struct {
	GroupID     domain.GroupID `json:"groupId"`
	DisplayName string         `json:"displayName"`
}

type Reconnect struct {
	GroupID     domain.GroupID `json:"groupId"`
	DisplayName string         `json:"displayName"`
}

type Logout struct {
	GroupID     domain.GroupID `json:"groupId"`
	DisplayName string         `json:"displayName"`
}

type GroupRef struct {
	GroupID domain.GroupID `json:"groupId"`
}

// Outbound events. Type tags are fixed strings so clients can switch on
// them; structs keep the payload shape in one place instead of ad-hoc
// maps at every call site.

type GroupCreated struct {
	Type            string         `json:"type"`
	GroupID         domain.GroupID `json:"groupId"`
	IsHost          bool           `json:"isHost"`
	HostDisplayName string         `json:"hostDisplayName"`
}

func NewGroupCreated(g domain.GroupID, host string) GroupCreated {
	return GroupCreated{Type: "groupCreated", GroupID: g, IsHost: true, HostDisplayName: host}
}

type GroupJoined struct {
	Type            string         `json:"type"`
	GroupID         domain.GroupID `json:"groupId"`
	IsHost          bool           `json:"isHost"`
	HostDisplayName string         `json:"hostDisplayName"`
}

func NewGroupJoined(g domain.GroupID, host string) GroupJoined {
	return GroupJoined{Type: "groupJoined", GroupID: g, HostDisplayName: host}
}

type ErrorMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewError(text string) ErrorMessage {
	return ErrorMessage{Type: "errorMessage", Text: text}
}

type ReconnectSuccess struct {
	Type            string         `json:"type"`
	GroupID         domain.GroupID `json:"groupId"`
	IsHost          bool           `json:"isHost"`
	HostDisplayName string         `json:"hostDisplayName"`
	Paused          bool           `json:"paused"`
}

func NewReconnectSuccess(g domain.GroupID, isHost bool, host string, paused bool) ReconnectSuccess {
	return ReconnectSuccess{Type: "reconnectSuccess", GroupID: g, IsHost: isHost, HostDisplayName: host, Paused: paused}
}

type ReconnectFailed struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewReconnectFailed(text string) ReconnectFailed {
	return ReconnectFailed{Type: "reconnectFailed", Text: text}
}

type UpdateGroup struct {
	Type    string          `json:"type"`
	Members []domain.Member `json:"members"`
}

func NewUpdateGroup(members []domain.Member) UpdateGroup {
	return UpdateGroup{Type: "updateGroup", Members: members}
}

type StartSong struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func NewStartSong(url string) StartSong {
	return StartSong{Type: "startSong", URL: url}
}

// SongTypes is the host-only summary of the current round: which
// connection got which role. Never sent to regular members.
type SongTypes struct {
	Type  string                        `json:"type"`
	Roles map[domain.ConnID]domain.Role `json:"roles"`
}

func NewSongTypes(roles map[domain.ConnID]domain.Role) SongTypes {
	return SongTypes{Type: "songTypes", Roles: roles}
}

type Directive struct {
	Type string `json:"type"`
}

func NewPauseSong() Directive     { return Directive{Type: "pauseSong"} }
func NewResumeSong() Directive    { return Directive{Type: "resumeSong"} }
func NewLogoutSuccess() Directive { return Directive{Type: "logoutSuccess"} }
func NewPong() Directive          { return Directive{Type: "pong"} }

type PausedStateChanged struct {
	Type   string `json:"type"`
	Paused bool   `json:"paused"`
}

func NewPausedStateChanged(paused bool) PausedStateChanged {
	return PausedStateChanged{Type: "pausedStateChanged", Paused: paused}
}
