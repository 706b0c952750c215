package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/offbeatgame/offbeat/internal/adapters/http"
	wsignal "github.com/offbeatgame/offbeat/internal/adapters/signal"
	"github.com/offbeatgame/offbeat/internal/assets"
	"github.com/offbeatgame/offbeat/internal/config"
	"github.com/offbeatgame/offbeat/internal/game"
	"github.com/offbeatgame/offbeat/internal/session"
	"github.com/offbeatgame/offbeat/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	groups := store.New()
	registry := wsignal.NewRegistry()
	reconciler := session.NewReconciler(groups, registry, cfg.GracePeriod)
	engine := game.NewEngine(groups, registry, assets.NewDirLibrary(cfg.AssetsPath))
	controller := wsignal.NewController(registry, reconciler, engine, cfg.ReadLimit, cfg.SendBuffer, cfg.PingPeriod)

	r := router.SetupRouter(ctx, cfg, controller, groups)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Offbeat server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
