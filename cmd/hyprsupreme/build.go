package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/compiler"
	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/history"
	"github.com/hyprsupreme/hyprsupreme/internal/hypr"
	"github.com/hyprsupreme/hyprsupreme/internal/theme"
)

var buildOpts struct {
	output  string
	profile string
	preset  string
	reload  bool
	dryRun  bool
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the configuration into Hyprland fragments",
	Long: `Compile the project configuration, the active theme, and the
selected effects preset into .conf fragments under the output
directory. The generated hyprsupreme.conf sources all fragments and is
meant to be sourced from your hyprland.conf.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}

		input := compiler.Input{Config: cfg, Profile: buildOpts.profile, DryRun: buildOpts.dryRun}

		themes := themeManager()
		active, err := themes.Active()
		switch {
		case err == nil:
			input.Theme = active
		case errors.Is(err, theme.ErrNotFound):
			slog.Debug("no active theme, building without colors")
		default:
			return fmt.Errorf("failed to load active theme: %w", err)
		}

		if buildOpts.preset != "" {
			registry, err := effectsRegistry()
			if err != nil {
				return err
			}
			preset, err := registry.Get(buildOpts.preset)
			if err != nil {
				return err
			}
			input.Preset = &preset
		}

		outDir := buildOpts.output
		if outDir == "" {
			outDir = config.BuildDir()
		}

		result, err := compiler.Build(input, outDir)
		if err != nil {
			return err
		}

		if buildOpts.dryRun {
			fmt.Print("Dry run: built profile ")
		} else {
			fmt.Print("Built profile ")
		}
		fmt.Printf("%q", result.Profile)
		if result.Theme != "" {
			fmt.Printf(" with theme %q", result.Theme)
		}
		fmt.Printf(" in %s\n", result.Took.Round(time.Millisecond))
		for _, f := range result.Files {
			fmt.Printf("  %-18s %s\n", f.Name, humanize.Bytes(uint64(f.Bytes)))
		}

		if buildOpts.dryRun {
			return nil
		}

		recordHistory(history.KindBuild, result.Profile, map[string]string{
			"output": outDir,
			"theme":  result.Theme,
		})

		if buildOpts.reload {
			conn, err := hypr.NewConn()
			if err != nil {
				return fmt.Errorf("cannot reload Hyprland: %w", err)
			}
			if err := conn.Reload(); err != nil {
				return fmt.Errorf("hyprland reload failed: %w", err)
			}
			fmt.Println("Reloaded Hyprland.")
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOpts.output, "output", "o", "", "Output directory (default: config dir/generated)")
	buildCmd.Flags().StringVarP(&buildOpts.profile, "profile", "p", "", "Profile to build (default: default_profile)")
	buildCmd.Flags().StringVar(&buildOpts.preset, "effects", "", "Effects preset to include")
	buildCmd.Flags().BoolVar(&buildOpts.reload, "reload", false, "Reload Hyprland after building")
	buildCmd.Flags().BoolVar(&buildOpts.dryRun, "dry-run", false, "Render fragments without writing them")
	rootCmd.AddCommand(buildCmd)
}

// recordHistory appends a history entry, logging failures instead of
// failing the command.
func recordHistory(kind, subject string, details map[string]string) {
	store, err := openHistory()
	if err != nil {
		slog.Debug("history unavailable", "error", err)
		return
	}
	defer store.Close()
	if _, err := store.Record(context.Background(), kind, subject, details); err != nil {
		slog.Debug("history record failed", "error", err)
	}
}
