// Command seed creates test data and performs maintenance on the health
// assistant database. It reads the same environment as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/tbourn/go-health-assistant/internal/cli"
	"github.com/tbourn/go-health-assistant/internal/config"
	httpapi "github.com/tbourn/go-health-assistant/internal/http"
	"github.com/tbourn/go-health-assistant/internal/sysutil"
)

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
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps, closeDeps, err := httpapi.OpenDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDeps()

	app := httpapi.NewApp(deps, cfg)
	root := cli.NewRootCmd(&cli.App{
		Admin:       app.Admin,
		Now:         app.Now,
	})
	return root.ExecuteContext(ctx)
}
