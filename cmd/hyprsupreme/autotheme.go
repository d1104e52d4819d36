package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/autotheme"
	"github.com/hyprsupreme/hyprsupreme/internal/config"
)

var autothemeApplyOpts struct {
	at string
}

var autothemeCmd = &cobra.Command{
	Use:   "autotheme",
	Short: "Scheduled light/dark theme switching",
}

// autothemeSource builds the configured phase source.
func autothemeSource(cfg *config.AutoThemeConfig) (autotheme.Source, error) {
	if cfg.UseLocation {
		return autotheme.NewSunSource(cfg.Latitude, cfg.Longitude), nil
	}
	return autotheme.NewBoundarySource(cfg.DayStarts, cfg.NightStarts)
}

var autothemeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the autotheme configuration and current phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		dcfg, err := config.LoadDaemonConfig("")
		if err != nil {
			return err
		}
		at := dcfg.AutoTheme

		fmt.Printf("Enabled:     %v\n", at.Enabled)
		fmt.Printf("Light theme: %s\n", at.LightTheme)
		fmt.Printf("Dark theme:  %s\n", at.DarkTheme)
		if at.UseLocation {
			fmt.Printf("Boundaries:  sunrise/sunset at %.4f,%.4f\n", at.Latitude, at.Longitude)
		} else {
			fmt.Printf("Boundaries:  day %s, night %s\n", at.DayStarts, at.NightStarts)
		}

		source, err := autothemeSource(&at)
		if err != nil {
			return err
		}
		now := time.Now()
		sunrise, sunset, err := source.Boundaries(cmd.Context(), now)
		if err != nil {
			return err
		}
		phase := autotheme.Classify(now, sunrise, sunset)
		fmt.Printf("Phase now:   %s (day %s to %s)\n", phase,
			sunrise.Format("15:04"), sunset.Format("15:04"))
		return nil
	},
}

var autothemeApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Evaluate the classifier and apply the matching theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		dcfg, err := config.LoadDaemonConfig("")
		if err != nil {
			return err
		}
		at := dcfg.AutoTheme
		if at.LightTheme == "" || at.DarkTheme == "" {
			return fmt.Errorf("set light_theme and dark_theme in %s first", config.DaemonConfigPath())
		}

		now := time.Now()
		if autothemeApplyOpts.at != "" {
			parsed, err := time.ParseInLocation("15:04", autothemeApplyOpts.at, now.Location())
			if err != nil {
				return fmt.Errorf("invalid --at time %q, want HH:MM", autothemeApplyOpts.at)
			}
			now = time.Date(now.Year(), now.Month(), now.Day(),
				parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
		}

		source, err := autothemeSource(&at)
		if err != nil {
			return err
		}

		switcher := autotheme.NewSwitcher(themeManager(), source, at.LightTheme, at.DarkTheme)
		name, switched, err := switcher.Evaluate(cmd.Context(), now)
		if err != nil {
			return err
		}
		if switched {
			fmt.Printf("Applied %s.\n", name)
		} else {
			fmt.Printf("%s already active.\n", name)
		}
		return nil
	},
}

func init() {
	autothemeApplyCmd.Flags().StringVar(&autothemeApplyOpts.at, "at", "",
		"Evaluate as if the time were HH:MM (for testing boundaries)")

	autothemeCmd.AddCommand(autothemeStatusCmd)
	autothemeCmd.AddCommand(autothemeApplyCmd)
	rootCmd.AddCommand(autothemeCmd)
}
