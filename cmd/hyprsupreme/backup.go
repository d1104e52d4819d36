package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hyprsupreme/hyprsupreme/internal/backup"
	"github.com/hyprsupreme/hyprsupreme/internal/config"
	"github.com/hyprsupreme/hyprsupreme/internal/history"
)

var backupCreateOpts struct {
	note string
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up and restore the configuration directory",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Archive the configuration directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := backup.NewManager(config.BackupsDir())
		info, err := manager.Create(config.ConfigDir(), backupCreateOpts.note)
		if err != nil {
			return err
		}
		fmt.Printf("Created backup %s (%s).\n", info.ID, info.HumanSize())
		recordHistory(history.KindBackup, info.ID, map[string]string{"label": info.Label})
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := backup.NewManager(config.BackupsDir())
		infos, err := manager.List()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No backups stored.")
			return nil
		}
		for _, info := range infos {
			label := info.Label
			if label == "" {
				label = "-"
			}
			fmt.Printf("%s  %-20s %8s  %s\n", info.ID, label,
				info.HumanSize(), humanize.Time(info.CreatedAt))
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Restore a backup over the configuration directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := backup.NewManager(config.BackupsDir())
		if err := manager.Restore(args[0], config.ConfigDir()); err != nil {
			return err
		}
		fmt.Println("Restored. Run `hyprsupreme build --reload` to apply.")
		recordHistory(history.KindRestore, args[0], nil)
		return nil
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := backup.NewManager(config.BackupsDir())
		if err := manager.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

func init() {
	backupCreateCmd.Flags().StringVar(&backupCreateOpts.note, "note", "", "Label embedded in the archive name")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)
	rootCmd.AddCommand(backupCmd)
}
