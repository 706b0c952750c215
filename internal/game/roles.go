// Package game holds the host-driven round logic: randomized role
// assignment and the pause toggle.
package game

import (
	"errors"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/offbeatgame/offbeat/internal/assets"
	"github.com/offbeatgame/offbeat/internal/core"
	"github.com/offbeatgame/offbeat/internal/domain"
	"github.com/offbeatgame/offbeat/internal/protocol"
	"github.com/offbeatgame/offbeat/internal/store"
)

// MinEligibleForOutlier is the smallest eligible set in which hiding an
// outlier is viable; smaller rounds fall back to all-ordinary so the
// odd one out is not trivially exposed.
const MinEligibleForOutlier = 3

// ErrEmptyCategory aborts a round when a category has no tracks.
var ErrEmptyCategory = errors.New("no tracks in category")

// Engine partitions non-host members into roles and fans the result
// out. Only the group's current host may trigger it; anyone else is a
// silent no-op so group state leaks nothing to outsiders.
type Engine struct {
	store *store.GroupStore
	send  core.Sender
	lib   assets.Library

	// pick returns a uniform int in [0, n); swapped out in tests.
	pick func(n int) int
}

func NewEngine(st *store.GroupStore, send core.Sender, lib assets.Library) *Engine {
	return &Engine{store: st, send: send, lib: lib, pick: rand.IntN}
}

// StartRound runs one role broadcast for the group, host-only.
func (e *Engine) StartRound(caller domain.ConnID, groupID domain.GroupID) {
	g, ok := e.store.Get(groupID)
	if !ok {
		return
	}

	g.Lock()
	isHost := caller == g.HostConnID
	g.Unlock()
	if !isHost {
		return
	}

	// Disk I/O stays outside the lock so a slow listing never stalls
	// the group's event stream. Picking before mutating also means an
	// empty category aborts with the previous round's mapping intact.
	ordinary, ordErr := e.pickFile(string(domain.RoleOrdinary))
	outlier, outErr := e.pickFile(string(domain.RoleOutlier))

	g.Lock()
	// Re-check: the host connection may have been rekeyed meanwhile.
	if caller != g.HostConnID {
		g.Unlock()
		return
	}
	if ordErr != nil {
		g.Unlock()
		log.Warn().Err(ordErr).Str("module", "game").Str("group", string(groupID)).Msg("round aborted")
		e.send.Unicast(caller, protocol.NewError("No ordinary tracks available."))
		return
	}
	if outErr != nil {
		g.Unlock()
		log.Warn().Err(outErr).Str("module", "game").Str("group", string(groupID)).Msg("round aborted")
		e.send.Unicast(caller, protocol.NewError("No outlier tracks available."))
		return
	}

	g.Roles = make(map[domain.ConnID]domain.Role)
	eligible := lo.Filter(g.Members, func(m domain.Member, _ int) bool {
		return m.ConnID != g.HostConnID
	})

	outlierIdx := -1
	if len(eligible) >= MinEligibleForOutlier {
		outlierIdx = e.pick(len(eligible))
	}

	type cue struct {
		conn domain.ConnID
		url  string
	}
	cues := make([]cue, 0, len(eligible))
	for i, m := range eligible {
		role, file := domain.RoleOrdinary, ordinary
		if i == outlierIdx {
			role, file = domain.RoleOutlier, outlier
		}
		g.Roles[m.ConnID] = role
		cues = append(cues, cue{conn: m.ConnID, url: e.lib.URL(string(role), file)})
	}
	roles := g.RolesSnapshot()
	members := g.MembersSnapshot()
	g.Unlock()

	// Each member learns only its own playback target, never a role
	// label; the full mapping goes to the host alone.
	for _, c := range cues {
		e.send.Unicast(c.conn, protocol.NewStartSong(c.url))
	}
	e.send.Unicast(caller, protocol.NewSongTypes(roles))
	e.send.Broadcast(groupID, protocol.NewUpdateGroup(members))
	log.Info().Str("module", "game").Str("group", string(groupID)).Int("eligible", len(cues)).Bool("outlier", outlierIdx >= 0).Msg("round started")
}

func (e *Engine) pickFile(category string) (string, error) {
	files, err := e.lib.List(category)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrEmptyCategory
	}
	return files[e.pick(len(files))], nil
}
