// Command server runs the health assistant HTTP API.
//
// @title       Health Assistant API
// @version     1.0
// @description Daily patient check-ins: generated questions, one-at-a-time chat, follow-ups and reports.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-health-assistant/internal/config"
	httpapi "github.com/tbourn/go-health-assistant/internal/http"
	"github.com/tbourn/go-health-assistant/internal/observability"
	"github.com/tbourn/go-health-assistant/internal/scheduler"
	"github.com/tbourn/go-health-assistant/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	deps, closeDeps, err := httpapi.OpenDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDeps()

	app := httpapi.NewApp(deps, cfg)

	if cfg.PregenerateCron != "" {
		c, err := scheduler.StartPregenerate(cfg.PregenerateCron, &scheduler.Pregenerator{
			DB:          app.DB,
			Sessions:    app.Sessions,
			Description: cfg.DefaultDescription,
			Now:         app.Now,
			Timeout:     30 * time.Minute,
		})
		if err != nil {
			return err
		}
		defer func() { <-c.Stop().Done() }()
		log.Info().Str("schedule", cfg.PregenerateCron).Msg("pre-generation scheduled")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, app, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", appVersion).Str("lock", cfg.Lock.Backend).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
