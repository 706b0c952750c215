package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/offbeatgame/offbeat/internal/domain"
)

func newFakeConn(id domain.ConnID) *Conn {
	return &Conn{id: id, send: make(chan []byte, 8)}
}

func drain(c *Conn) []map[string]any {
	var out []map[string]any
	for {
		select {
		case b := <-c.send:
			var m map[string]any
			_ = json.Unmarshal(b, &m)
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestRegistry_UnicastOnlyReachesTarget(t *testing.T) {
	r := NewRegistry()
	a, b := newFakeConn("a"), newFakeConn("b")
	r.Bind(a.id, a)
	r.Bind(b.id, b)

	r.Unicast("a", map[string]string{"type": "hello"})

	require.Len(t, drain(a), 1)
	require.Empty(t, drain(b))
}

func TestRegistry_BroadcastHitsSubscribersOnly(t *testing.T) {
	r := NewRegistry()
	a, b, c := newFakeConn("a"), newFakeConn("b"), newFakeConn("c")
	for _, conn := range []*Conn{a, b, c} {
		r.Bind(conn.id, conn)
	}
	r.Subscribe("a", "123456")
	r.Subscribe("b", "123456")

	r.Broadcast("123456", map[string]string{"type": "updateGroup"})

	require.Len(t, drain(a), 1)
	require.Len(t, drain(b), 1)
	require.Empty(t, drain(c))
}

func TestRegistry_UnsubscribeStopsDelivery(t *testing.T) {
	r := NewRegistry()
	a := newFakeConn("a")
	r.Bind(a.id, a)
	r.Subscribe("a", "123456")
	r.Unsubscribe("a", "123456")

	r.Broadcast("123456", map[string]string{"type": "updateGroup"})
	require.Empty(t, drain(a))
}

func TestRegistry_UnbindDropsAllTopics(t *testing.T) {
	r := NewRegistry()
	a := newFakeConn("a")
	r.Bind(a.id, a)
	r.Subscribe("a", "111111")
	r.Subscribe("a", "222222")

	r.Unbind("a")

	r.Broadcast("111111", map[string]string{"type": "x"})
	r.Broadcast("222222", map[string]string{"type": "x"})
	require.Empty(t, drain(a))

	// unicast to an unbound connection is a silent drop
	r.Unicast("a", map[string]string{"type": "x"})
	require.Empty(t, drain(a))
}

func TestConn_TrySendBackpressure(t *testing.T) {
	c := &Conn{id: "a", send: make(chan []byte, 1)}
	require.NoError(t, c.TrySend(map[string]string{"type": "one"}))
	require.ErrorIs(t, c.TrySend(map[string]string{"type": "two"}), ErrBackpressure)
}
