package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/offbeatgame/offbeat/internal/domain"
	"github.com/offbeatgame/offbeat/internal/protocol"
)

func (ctl *Controller) handleCreate(c *Conn, data []byte) {
	var p protocol.CreateGroup
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad createGroup payload")
		_ = c.TrySend(protocol.NewError("bad payload"))
		return
	}
	if err := domain.ValidateDisplayName(p.DisplayName); err != nil {
		_ = c.TrySend(protocol.NewError(err.Error()))
		return
	}
	ctl.Sessions.Create(c.id, p.DisplayName)
}

func (ctl *Controller) handleJoin(c *Conn, data []byte) {
	var p protocol.JoinGroup
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad joinGroup payload")
		_ = c.TrySend(protocol.NewError("bad payload"))
		return
	}
	if err := domain.ValidateDisplayName(p.DisplayName); err != nil {
		_ = c.TrySend(protocol.NewError(err.Error()))
		return
	}
	ctl.Sessions.Join(c.id, p.GroupID, p.DisplayName)
}

func (ctl *Controller) handleReconnect(c *Conn, data []byte) {
	var p protocol.Reconnect
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad reconnect payload")
		_ = c.TrySend(protocol.NewReconnectFailed("bad payload"))
		return
	}
	ctl.Sessions.Reconnect(c.id, p.GroupID, p.DisplayName)
}

func (ctl *Controller) handleLogout(c *Conn, data []byte) {
	var p protocol.Logout
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad logout payload")
		return
	}
	ctl.Sessions.Logout(c.id, p.GroupID, p.DisplayName)
}
