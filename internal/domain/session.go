package domain

import "time"

// Session binds a display name to its current (possibly stale)
// connection. It survives transport drops; the reconciler swaps ConnID
// on reconnect and reads LastSeen when deciding eviction.
type Session struct {
	DisplayName string
	ConnID      ConnID
	IsHost      bool
	LastSeen    time.Time
}

func NewSession(name string, conn ConnID, isHost bool) *Session {
	return &Session{
		DisplayName: name,
		ConnID:      conn,
		IsHost:      isHost,
		LastSeen:    time.Now(),
	}
}

// Touch refreshes the liveness timestamp.
func (s *Session) Touch() { s.LastSeen = time.Now() }
