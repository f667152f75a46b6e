// Command heritagehall runs the Weyland Heritage Hall curator: a voice agent
// that guides visitors through the exhibit collection, drives the hall's
// display and background audio, and guards the restricted wing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/marloweav/heritagehall/internal/app"
	"github.com/marloweav/heritagehall/internal/config"
	"github.com/marloweav/heritagehall/internal/dialogue/roomsession"
	"github.com/marloweav/heritagehall/internal/observe"
	"github.com/marloweav/heritagehall/pkg/media/roomws"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Local development secrets; absence is not an error.
	if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "heritagehall: load .env.local: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "heritagehall: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "heritagehall: %v\n", err)
		}
		return 1
	}

	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("heritagehall starting",
		"version", version,
		"config", *configPath,
		"room", cfg.Room.URL,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownObserve, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		obsCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownObserve(obsCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// One gateway serves both channels: media on /media, the dialogue
	// session on /session.
	room, err := roomws.Dial(ctx, cfg.Room.URL+"/media", cfg.Room.Token)
	if err != nil {
		slog.Error("failed to connect to room gateway", "err", err)
		return 1
	}
	defer func() {
		if err := room.Close(); err != nil {
			slog.Warn("room close error", "err", err)
		}
	}()

	ports := &app.Ports{
		Video:    room,
		Audio:    room,
		Dialogue: roomsession.NewEngine(cfg.Room.URL+"/session", cfg.Room.Token),
	}

	application, err := app.New(ctx, cfg, ports)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}

	slog.Info("hall ready — press Ctrl+C to shut down")

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("shutdown signal received, stopping…")

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
