package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/hypr"
	"github.com/hyprsupreme/hyprsupreme/internal/workspace"
)

var workspaceRestoreOpts struct {
	dryRun bool
}

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Snapshot and restore workspace window layout",
}

var workspaceSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record which windows live on which workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := hypr.NewConn()
		if err != nil {
			return err
		}

		store := workspace.NewStore(config.WorkspaceStatePath())
		defer store.Close()

		tracker := workspace.NewTracker(store, conn)
		if err := tracker.Resync(); err != nil {
			return err
		}
		fmt.Printf("Snapshot saved: %d windows tracked.\n", store.Count())
		return nil
	},
}

var workspaceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the recorded layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := workspace.NewStore(config.WorkspaceStatePath())
		defer store.Close()
		if err := store.Hydrate(); err != nil {
			return err
		}

		if store.Count() == 0 {
			fmt.Println("No snapshot recorded. Run `hyprsupreme workspace snapshot` first.")
			return nil
		}

		grouped := store.ByWorkspace()
		names := make([]string, 0, len(grouped))
		for ws := range grouped {
			names = append(names, ws)
		}
		sort.Strings(names)

		for _, ws := range names {
			fmt.Printf("workspace %s:\n", ws)
			for _, w := range grouped[ws] {
				fmt.Printf("  %-20s %s\n", w.Class, w.Title)
			}
		}
		return nil
	},
}

var workspaceRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Move windows back to their recorded workspaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := hypr.NewConn()
		if err != nil {
			return err
		}

		store := workspace.NewStore(config.WorkspaceStatePath())
		defer store.Close()
		if err := store.Hydrate(); err != nil {
			return err
		}

		tracker := workspace.NewTracker(store, conn)
		moves, err := tracker.Restore(conn, workspaceRestoreOpts.dryRun)
		if err != nil {
			return err
		}

		if len(moves) == 0 {
			fmt.Println("All windows already in place.")
			return nil
		}
		for _, m := range moves {
			verb := "moved"
			if workspaceRestoreOpts.dryRun {
				verb = "would move"
			}
			fmt.Printf("%s 0x%s: %s -> %s\n", verb, m.Address, m.From, m.To)
		}
		return nil
	},
}

func init() {
	workspaceRestoreCmd.Flags().BoolVar(&workspaceRestoreOpts.dryRun, "dry-run", false,
		"Print planned moves without dispatching them")

	workspaceCmd.AddCommand(workspaceSnapshotCmd)
	workspaceCmd.AddCommand(workspaceShowCmd)
	workspaceCmd.AddCommand(workspaceRestoreCmd)
	rootCmd.AddCommand(workspaceCmd)
}
