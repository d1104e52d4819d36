// Package main provides the CLI entrypoint for hyprsupreme.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/effects"
	"github.com/hyprsupreme/hyprsupreme/internal/history"
	"github.com/hyprsupreme/hyprsupreme/internal/plugin"
	"github.com/hyprsupreme/hyprsupreme/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var globalOpts struct {
	verbose    bool
	configPath string
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hyprsupreme",
	Short: "Hyprland configuration manager",
	Long: `hyprsupreme manages a Hyprland desktop configuration: themes,
plugins, visual-effect presets, workspace layouts, and scheduled
light/dark switching, compiled into Hyprland config fragments.

Running hyprsupreme without a subcommand launches the theme picker.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		if err := config.EnsureDirs(); err != nil {
			return fmt.Errorf("failed to create state directories: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runThemePicker()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to project config (default: ~/.config/hyprsupreme/hyprsupreme.toml)")
}

// setupLogger configures the global slog logger.
// Logs go to stderr so stdout stays clean for command output.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// projectConfigPath resolves the --config flag against the default.
func projectConfigPath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ProjectConfigPath()
}

// loadProjectConfig loads the project configuration.
func loadProjectConfig() (*config.Config, error) {
	cfg, err := config.Load(projectConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// themeManager builds the theme manager over the default search path.
// The config dir shadows the data dir so user edits win over installed
// theme packs.
func themeManager() *theme.Manager {
	loader := theme.NewLoader(config.ThemesDir(), filepath.Join(config.DataDir(), "themes"))
	return theme.NewManager(loader, config.ActiveThemePath())
}

// pluginManager builds and populates the plugin manager.
func pluginManager() (*plugin.Manager, error) {
	m := plugin.NewManager(config.PluginsDir(), config.PluginStatePath())
	if err := m.Discover(); err != nil {
		return nil, fmt.Errorf("failed to discover plugins: %w", err)
	}
	return m, nil
}

// effectsRegistry loads builtin and user presets.
func effectsRegistry() (*effects.Registry, error) {
	r := effects.NewRegistry()
	if err := r.LoadUserPresets(config.EffectsPath()); err != nil {
		return nil, fmt.Errorf("failed to load effect presets: %w", err)
	}
	return r, nil
}

// openHistory opens the history database.
func openHistory() (*history.Store, error) {
	s, err := history.Open(config.HistoryDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return s, nil
}
