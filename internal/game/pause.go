package game

import (
	"github.com/rs/zerolog/log"

	"github.com/offbeatgame/offbeat/internal/domain"
	"github.com/offbeatgame/offbeat/internal/protocol"
)

// TogglePause flips the group's playback state, host-only. Non-host
// members get the directive; the host drives its own UI off the ack.
func (e *Engine) TogglePause(caller domain.ConnID, groupID domain.GroupID) {
	g, ok := e.store.Get(groupID)
	if !ok {
		return
	}

	g.Lock()
	if caller != g.HostConnID {
		g.Unlock()
		return
	}
	g.Paused = !g.Paused
	paused := g.Paused
	members := g.MembersSnapshot()
	host := g.HostConnID
	g.Unlock()

	directive := protocol.NewResumeSong()
	if paused {
		directive = protocol.NewPauseSong()
	}
	for _, m := range members {
		if m.ConnID != host {
			e.send.Unicast(m.ConnID, directive)
		}
	}
	e.send.Unicast(caller, protocol.NewPausedStateChanged(paused))
	log.Info().Str("module", "game").Str("group", string(groupID)).Bool("paused", paused).Msg("pause toggled")
}
