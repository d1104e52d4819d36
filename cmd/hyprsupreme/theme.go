package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/history"
	"github.com/hyprsupreme/hyprsupreme/internal/palette"
	"github.com/hyprsupreme/hyprsupreme/internal/theme"
	"github.com/hyprsupreme/hyprsupreme/internal/tui"
)

var themeCreateOpts struct {
	format string
	seed   string
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage themes",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := themeManager()
		active, _ := manager.ActiveName()

		names := manager.List()
		if len(names) == 0 {
			fmt.Println("No themes installed. Drop .toml or .json themes into the themes directory.")
			return nil
		}
		for _, name := range names {
			marker := " "
			if name == active {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}
		return nil
	},
}

var themeShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a theme's resolved colors and variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := themeManager().Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:        %s\n", t.Name)
		if t.Author != "" {
			fmt.Printf("Author:      %s\n", t.Author)
		}
		if t.Description != "" {
			fmt.Printf("Description: %s\n", t.Description)
		}
		if t.Extends != "" {
			fmt.Printf("Extends:     %s\n", t.Extends)
		}

		printSorted := func(title string, m map[string]string) {
			if len(m) == 0 {
				return
			}
			fmt.Printf("\n%s:\n", title)
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %-24s %s\n", k, m[k])
			}
		}
		printSorted("Colors", t.Colors)
		printSorted("Variables", t.Variables)
		return nil
	},
}

var themeApplyCmd = &cobra.Command{
	Use:   "apply NAME",
	Short: "Apply a theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := themeManager().Apply(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Applied %s. Run `hyprsupreme build --reload` to regenerate fragments.\n", t.Name)
		recordHistory(history.KindThemeApply, t.Name, nil)
		return nil
	},
}

var themeCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print the active theme name",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := themeManager().ActiveName()
		if err != nil {
			return err
		}
		fmt.Println(name)
		return nil
	},
}

var themeCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new theme skeleton",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := theme.Format(themeCreateOpts.format)
		if format != theme.FormatTOML && format != theme.FormatJSON {
			return fmt.Errorf("unknown format %q (want toml or json)", themeCreateOpts.format)
		}

		t := theme.New(args[0])
		if themeCreateOpts.seed != "" {
			colors, err := palette.Generate(themeCreateOpts.seed)
			if err != nil {
				return fmt.Errorf("invalid --from color: %w", err)
			}
			t.Colors = colors
		} else {
			t.Colors = map[string]string{
				"background": "#1a1b26",
				"foreground": "#c0caf5",
				"accent":     "#7aa2f7",
			}
		}

		path, err := themeManager().Save(t, format)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s\n", path)
		return nil
	},
}

var themeBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse themes interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runThemePicker()
	},
}

// runThemePicker starts the TUI; also the root command default.
func runThemePicker() error {
	return tui.Run(themeManager())
}

func init() {
	themeCreateCmd.Flags().StringVar(&themeCreateOpts.format, "format", "toml", "Theme file format (toml or json)")
	themeCreateCmd.Flags().StringVar(&themeCreateOpts.seed, "from", "", "Derive a full palette from a seed accent color (#rrggbb)")

	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeApplyCmd)
	themeCmd.AddCommand(themeCurrentCmd)
	themeCmd.AddCommand(themeCreateCmd)
	themeCmd.AddCommand(themeBrowseCmd)
	rootCmd.AddCommand(themeCmd)
}
