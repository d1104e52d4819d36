package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/compiler"
	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/theme"
)

var updateOpts struct {
	component string
	output    string
	profile   string
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh generated fragments",
	Long: fmt.Sprintf(`Regenerate the Hyprland fragments for one component or all of them.

Valid components: %s.`, strings.Join(compiler.Components(), ", ")),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}

		input := compiler.Input{Config: cfg, Profile: updateOpts.profile}
		if updateOpts.component != "" {
			input.Only = []string{updateOpts.component}
		}

		active, err := themeManager().Active()
		switch {
		case err == nil:
			input.Theme = active
		case errors.Is(err, theme.ErrNotFound):
			slog.Debug("no active theme")
		default:
			return fmt.Errorf("failed to load active theme: %w", err)
		}

		outDir := updateOpts.output
		if outDir == "" {
			outDir = config.BuildDir()
		}

		result, err := compiler.Build(input, outDir)
		if err != nil {
			return err
		}

		for _, f := range result.Files {
			fmt.Printf("updated %s\n", f.Path)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateOpts.component, "component", "c", "", "Component to refresh (default: all)")
	updateCmd.Flags().StringVarP(&updateOpts.output, "output", "o", "", "Output directory (default: config dir/generated)")
	updateCmd.Flags().StringVarP(&updateOpts.profile, "profile", "p", "", "Profile to build")
	rootCmd.AddCommand(updateCmd)
}
