// Package daemon orchestrates hyprsupremed: the compositor event
// tracker, the scheduled theme switcher, the theme directory watcher,
// and desktop notifications. Components are optional; whatever cannot
// start (no compositor, no session bus) is skipped with a warning so
// the rest keeps running. When daemon.toml changes on disk the
// components are restarted with the new configuration.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hyprsupreme/hyprsupreme/internal/autotheme"
	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/hypr"
	"github.com/hyprsupreme/hyprsupreme/internal/notify"
	"github.com/hyprsupreme/hyprsupreme/internal/theme"
	"github.com/hyprsupreme/hyprsupreme/internal/workspace"
)

// Options configures a Daemon.
type Options struct {
	// ConfigPath overrides the daemon.toml location. Empty uses the
	// default under the XDG config dir.
	ConfigPath string
	// ThemeDirs overrides the theme search path. Empty uses the
	// defaults.
	ThemeDirs []string
	// DisableAutoTheme and DisableTracking force-skip components
	// regardless of the configuration (--no-autotheme, --no-track).
	DisableAutoTheme bool
	DisableTracking  bool
}

// Daemon is the long-running hyprsupremed process.
type Daemon struct {
	opts   Options
	cfg    *config.DaemonConfig
	themes *theme.Manager

	// notifier is rebuilt by startComponents so a config reload can
	// toggle notifications without a restart.
	notifier    notify.Notifier
	newNotifier func() (notify.Notifier, error)
}

// New loads the daemon configuration and prepares shared components.
func New(opts Options) (*Daemon, error) {
	cfg, err := config.LoadDaemonConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("daemon config: %w", err)
	}

	dirs := opts.ThemeDirs
	if len(dirs) == 0 {
		dirs = []string{config.ThemesDir()}
	}
	themes := theme.NewManager(theme.NewLoader(dirs...), config.ActiveThemePath())

	return &Daemon{
		opts:        opts,
		cfg:         cfg,
		themes:      themes,
		notifier:    notify.NopNotifier{},
		newNotifier: notify.New,
	}, nil
}

// Run starts all enabled components and blocks until ctx is cancelled.
// A change to the daemon configuration file restarts the components.
func (d *Daemon) Run(ctx context.Context) error {
	slog.Info("hyprsupremed starting")

	reload := make(chan struct{}, 1)
	configPath := d.opts.ConfigPath
	if configPath == "" {
		configPath = config.DaemonConfigPath()
	}
	cw, err := newConfigWatcher(configPath, 500*time.Millisecond, func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	})
	if err != nil {
		slog.Warn("config watching disabled", "error", err)
	} else {
		defer cw.Stop()
	}

	for {
		runCtx, cancel := context.WithCancel(ctx)
		stop := d.startComponents(runCtx)

		select {
		case <-ctx.Done():
			slog.Info("hyprsupremed shutting down")
			cancel()
			stop()
			return nil

		case <-reload:
			slog.Info("daemon config changed, restarting components")
			cancel()
			stop()
			cfg, err := config.LoadDaemonConfig(d.opts.ConfigPath)
			if err != nil {
				slog.Error("config reload failed, keeping previous config", "error", err)
				continue
			}
			d.cfg = cfg
		}
	}
}

// startComponents brings up every enabled component and returns a stop
// function that tears them down in reverse order.
func (d *Daemon) startComponents(ctx context.Context) func() {
	var wg sync.WaitGroup

	d.notifier = notify.NopNotifier{}
	if d.cfg.Notifications.Enabled {
		n, err := d.newNotifier()
		if err != nil {
			slog.Warn("notifications unavailable", "error", err)
		}
		d.notifier = n
	}

	if d.cfg.Workspace.Track && !d.opts.DisableTracking {
		if err := d.startTracker(ctx, &wg); err != nil {
			slog.Warn("workspace tracking disabled", "error", err)
		}
	}

	var scheduler *autotheme.Scheduler
	if d.cfg.AutoTheme.Enabled && !d.opts.DisableAutoTheme {
		var err error
		scheduler, err = d.startAutoTheme(ctx)
		if err != nil {
			slog.Warn("autotheme disabled", "error", err)
		}
	}

	watcher, err := d.startThemeWatcher()
	if err != nil {
		slog.Warn("theme watching disabled", "error", err)
	}

	return func() {
		if watcher != nil {
			watcher.Stop()
		}
		if scheduler != nil {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("scheduler shutdown failed", "error", err)
			}
		}
		wg.Wait()
		if err := d.notifier.Close(); err != nil {
			slog.Debug("notifier close failed", "error", err)
		}
	}
}

// startTracker connects the compositor event stream to a persistent
// workspace store.
func (d *Daemon) startTracker(ctx context.Context, wg *sync.WaitGroup) error {
	stream, err := hypr.NewEventStream()
	if err != nil {
		return err
	}
	querier, err := hypr.NewConn()
	if err != nil {
		return err
	}

	statePath := d.cfg.Workspace.StateFile
	if statePath == "" {
		statePath = config.WorkspaceStatePath()
	}
	store := workspace.NewStore(statePath)
	if err := store.Hydrate(); err != nil {
		slog.Warn("workspace state not restored", "error", err)
	}

	tracker := workspace.NewTracker(store, querier)
	if err := tracker.Resync(); err != nil {
		slog.Warn("initial workspace resync failed", "error", err)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := stream.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("event stream stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		defer store.Close()
		tracker.Run(ctx, stream.Events())
	}()

	slog.Info("workspace tracking started", "state", statePath)
	return nil
}

// startAutoTheme builds the phase source and starts the scheduler.
func (d *Daemon) startAutoTheme(ctx context.Context) (*autotheme.Scheduler, error) {
	at := d.cfg.AutoTheme
	if at.LightTheme == "" || at.DarkTheme == "" {
		return nil, fmt.Errorf("autotheme needs both light_theme and dark_theme")
	}

	var source autotheme.Source
	if at.UseLocation {
		source = autotheme.NewSunSource(at.Latitude, at.Longitude)
	} else {
		var err error
		source, err = autotheme.NewBoundarySource(at.DayStarts, at.NightStarts)
		if err != nil {
			return nil, err
		}
	}

	switcher := autotheme.NewSwitcher(d.themes, source, at.LightTheme, at.DarkTheme)
	switcher.OnSwitch = func(phase autotheme.Phase, themeName string) {
		err := d.notifier.Send(notify.Notification{
			Summary: "Theme switched",
			Body:    fmt.Sprintf("Now using %s (%s)", themeName, phase),
			Icon:    "preferences-desktop-theme",
		})
		if err != nil {
			slog.Debug("switch notification failed", "error", err)
		}
	}

	scheduler, err := autotheme.NewScheduler(switcher, at.Interval.Duration())
	if err != nil {
		return nil, err
	}
	if err := scheduler.Start(ctx); err != nil {
		return nil, err
	}
	return scheduler, nil
}

// startThemeWatcher invalidates the theme cache when theme files change
// on disk.
func (d *Daemon) startThemeWatcher() (*theme.Watcher, error) {
	debounce := d.cfg.Workspace.Debounce.Duration()
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := theme.NewWatcher(d.themes, debounce)
	if err != nil {
		return nil, err
	}
	watcher.SetChangeCallback(func(name string) {
		slog.Info("theme changed on disk", "theme", name)
	})
	if err := watcher.Start(); err != nil {
		return nil, err
	}
	return watcher, nil
}
