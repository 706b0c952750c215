package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/offbeatgame/offbeat/internal/domain"
	"github.com/offbeatgame/offbeat/internal/game"
	"github.com/offbeatgame/offbeat/internal/session"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the websocket side of the system: it upgrades
// connections, pumps frames, and routes decoded events into the
// reconciler and the round engine.
type Controller struct {
	Registry   *Registry
	Sessions   *session.Reconciler
	Engine     *game.Engine
	ReadLimit  int64
	SendBuf    int
	PingPeriod time.Duration
}

func NewController(reg *Registry, sess *session.Reconciler, eng *game.Engine, readLimit int64, sendBuf int, pingPeriod time.Duration) *Controller {
	if sendBuf <= 0 {
		sendBuf = 32
	}
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	return &Controller{
		Registry:   reg,
		Sessions:   sess,
		Engine:     eng,
		ReadLimit:  readLimit,
		SendBuf:    sendBuf,
		PingPeriod: pingPeriod,
	}
}

// Conn wraps one websocket with a buffered outbound queue. Sends never
// block: a full queue means the peer is too slow and the frame is
// dropped.
type Conn struct {
	id   domain.ConnID
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *Conn) TrySend(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection until the
// peer goes away. Every socket gets a fresh ephemeral connection id;
// durable identity lives in the reconciler's sessions, not here.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &Conn{
		id:   domain.ConnID(uuid.NewString()),
		conn: ws,
		send: make(chan []byte, ctl.SendBuf),
	}
	ctl.Registry.Bind(conn.id, conn)
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, conn)
		ctl.Registry.Unbind(conn.id)
		ctl.Sessions.Disconnect(conn.id)
	}()
}
