package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/history"
	"github.com/hyprsupreme/hyprsupreme/internal/hypr"
)

var effectsApplyOpts struct {
	dryRun bool
}

var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "Manage visual effect presets",
	Long: `Manage visual effect presets: blur, shadows, rounding, animations,
and opacity bundled under a name. Builtin presets can be shadowed by
user presets in effects.yaml.`,
}

var effectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := effectsRegistry()
		if err != nil {
			return err
		}
		for _, name := range registry.Names() {
			p, err := registry.Get(name)
			if err != nil {
				continue
			}
			fmt.Printf("%-14s %s\n", name, p.Description)
		}
		return nil
	},
}

var effectsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the Hyprland config a preset generates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := effectsRegistry()
		if err != nil {
			return err
		}
		p, err := registry.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Print(p.Render())
		return nil
	},
}

var effectsApplyCmd = &cobra.Command{
	Use:   "apply NAME",
	Short: "Apply a preset to the running compositor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := effectsRegistry()
		if err != nil {
			return err
		}
		p, err := registry.Get(args[0])
		if err != nil {
			return err
		}

		var dispatcher hypr.Dispatcher
		if !effectsApplyOpts.dryRun {
			conn, err := hypr.NewConn()
			if err != nil {
				return err
			}
			dispatcher = conn
		}

		keywords, err := p.Apply(dispatcher, effectsApplyOpts.dryRun)
		if err != nil {
			return err
		}

		if effectsApplyOpts.dryRun {
			fmt.Println("Would set:")
			for _, kw := range keywords {
				fmt.Printf("  keyword %s %s\n", kw.Name, kw.Value)
			}
			return nil
		}

		fmt.Printf("Applied %s (%d keywords).\n", p.Name, len(keywords))
		recordHistory(history.KindEffectsApply, p.Name, nil)
		return nil
	},
}

func init() {
	effectsApplyCmd.Flags().BoolVar(&effectsApplyOpts.dryRun, "dry-run", false,
		"Print the keyword batch without applying it")

	effectsCmd.AddCommand(effectsListCmd)
	effectsCmd.AddCommand(effectsShowCmd)
	effectsCmd.AddCommand(effectsApplyCmd)
	rootCmd.AddCommand(effectsCmd)
}
