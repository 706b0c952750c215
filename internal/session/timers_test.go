package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvictionTimers_CancelPreventsFire(t *testing.T) {
	e := newEvictionTimers()
	var fired atomic.Int32

	id := identity{"123456", "alice"}
	e.arm(id, 20*time.Millisecond, func(identity) { fired.Add(1) })
	e.cancel(id)

	time.Sleep(60 * time.Millisecond)
	require.Zero(t, fired.Load())
	require.False(t, e.pending(id))
}

func TestEvictionTimers_RearmReplacesWithoutEarlyFire(t *testing.T) {
	e := newEvictionTimers()
	var fired atomic.Int32

	id := identity{"123456", "alice"}
	e.arm(id, 15*time.Millisecond, func(identity) { fired.Add(1) })
	e.arm(id, 120*time.Millisecond, func(identity) { fired.Add(1) })

	// the replaced timer's deadline passes; only the new one may fire
	time.Sleep(60 * time.Millisecond)
	require.Zero(t, fired.Load())
	require.True(t, e.pending(id))

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.False(t, e.pending(id))
}

func TestEvictionTimers_OneTimerPerIdentity(t *testing.T) {
	e := newEvictionTimers()
	a := identity{"123456", "alice"}
	b := identity{"123456", "bob"}

	e.arm(a, time.Minute, func(identity) {})
	e.arm(a, time.Minute, func(identity) {})
	e.arm(b, time.Minute, func(identity) {})

	require.True(t, e.pending(a))
	require.True(t, e.pending(b))

	e.cancel(a)
	require.False(t, e.pending(a))
	require.True(t, e.pending(b))
}
