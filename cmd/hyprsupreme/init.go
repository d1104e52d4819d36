package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/config"
)

var initOpts struct {
	dir      string
	template string
	force    bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration",
	Long: `Write a starter hyprsupreme.toml with a default profile, example
keybindings, and a tokyonight color scheme.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := initOpts.dir
		if dir == "" {
			dir = config.ConfigDir()
		}
		path := filepath.Join(dir, config.DefaultConfigName)

		if _, err := os.Stat(path); err == nil && !initOpts.force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		var cfg *config.Config
		switch initOpts.template {
		case "default":
			cfg = config.DefaultConfig()
		case "minimal":
			cfg = config.MinimalConfig()
		default:
			return fmt.Errorf("unknown template %q (want default or minimal)", initOpts.template)
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("Wrote %s\n", path)
		fmt.Println("Edit it, then run `hyprsupreme build` to generate Hyprland fragments.")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initOpts.dir, "dir", "", "Target directory (default: config dir)")
	initCmd.Flags().StringVarP(&initOpts.template, "template", "t", "default", "Starter template (default, minimal)")
	initCmd.Flags().BoolVar(&initOpts.force, "force", false, "Overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}
