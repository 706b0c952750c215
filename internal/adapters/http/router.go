package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/offbeatgame/offbeat/internal/adapters/signal"
	"github.com/offbeatgame/offbeat/internal/config"
	"github.com/offbeatgame/offbeat/internal/domain"
	"github.com/offbeatgame/offbeat/internal/store"
)

// profile is what the cookie session remembers between page loads, so
// a reloaded client can offer to reconnect into its last group.
type profile struct {
	DisplayName string `json:"displayName"`
	GroupID     string `json:"groupId"`
}

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.Controller, groups *store.GroupStore) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	cookieStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("OffbeatSessions", cookieStore))

	r.Static("/static", cfg.StaticPath)
	r.Static("/audio", cfg.AssetsPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Str("audio", cfg.AssetsPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	// Existence probe: lets a client validate a remembered group id
	// before attempting a reconnect over the socket.
	api.GET("/groups/:id", func(c *gin.Context) {
		if _, ok := groups.Get(domain.GroupID(c.Param("id"))); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"groupId": c.Param("id")})
	})

	api.GET("/profile", func(c *gin.Context) {
		s := sessions.Default(c)
		name, _ := s.Get("displayName").(string)
		group, _ := s.Get("groupId").(string)
		c.JSON(http.StatusOK, profile{DisplayName: name, GroupID: group})
	})

	api.POST("/profile", func(c *gin.Context) {
		var p profile
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
			return
		}
		s := sessions.Default(c)
		s.Set("displayName", p.DisplayName)
		s.Set("groupId", p.GroupID)
		if err := s.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("profile save")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	return r
}
