package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/offbeatgame/offbeat/internal/protocol"
)

// Host authority for play/pause is checked inside the engine against
// the group's current host connection; these handlers only decode.

func (ctl *Controller) handlePlay(c *Conn, data []byte) {
	var p protocol.GroupRef
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad playSong payload")
		return
	}
	ctl.Engine.StartRound(c.id, p.GroupID)
}

func (ctl *Controller) handleTogglePause(c *Conn, data []byte) {
	var p protocol.GroupRef
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad togglePause payload")
		return
	}
	ctl.Engine.TogglePause(c.id, p.GroupID)
}

func (ctl *Controller) handleRequestMembers(c *Conn, data []byte) {
	var p protocol.GroupRef
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad requestGroupMembers payload")
		return
	}
	ctl.Sessions.RequestMembers(p.GroupID)
}
