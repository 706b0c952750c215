package core

import "github.com/offbeatgame/offbeat/internal/domain"

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(v any) error
	Close()
}

// Sender is what the core hands outbound events to. All sends are
// fire-and-forget: a slow or gone recipient is dropped, never awaited.
type Sender interface {
	// Unicast delivers v to one live connection, if it is still live.
	Unicast(id domain.ConnID, v any)
	// Broadcast delivers v to every connection subscribed to the group topic.
	Broadcast(group domain.GroupID, v any)
	// Subscribe joins a connection to a group's broadcast topic.
	Subscribe(id domain.ConnID, group domain.GroupID)
	// Unsubscribe detaches a connection from a group's broadcast topic.
	Unsubscribe(id domain.ConnID, group domain.GroupID)
}
