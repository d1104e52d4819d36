// Package main is the entry point for the hyprsupremed daemon.
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

	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/daemon"
)

// Build-time variables (set via ldflags)
var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to daemon config (default: ~/.config/hyprsupreme/daemon.toml)")
	noAutoTheme := flag.Bool("no-autotheme", false, "Disable scheduled theme switching")
	noTrack := flag.Bool("no-track", false, "Disable workspace window tracking")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("hyprsupremed version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.EnsureDirs(); err != nil {
		slog.Error("failed to create state directories", "error", err)
		os.Exit(1)
	}

	d, err := daemon.New(daemon.Options{
		ConfigPath:       *configPath,
		DisableAutoTheme: *noAutoTheme,
		DisableTracking:  *noTrack,
	})
	if err != nil {
		slog.Error("daemon startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("daemon exited with error", "error", err)
		os.Exit(1)
	}
}
