package main

import (
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive theme picker",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runThemePicker()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
