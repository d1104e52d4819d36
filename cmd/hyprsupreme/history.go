package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyOpts struct {
	limit int
	kind  string
	stats bool
	prune string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent configuration activity",
	Long: `Show recent builds, theme switches, plugin changes, and backups
recorded in the local history database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		if historyOpts.prune != "" {
			age, err := time.ParseDuration(historyOpts.prune)
			if err != nil {
				return fmt.Errorf("invalid --prune duration %q: %w", historyOpts.prune, err)
			}
			removed, err := store.Prune(cmd.Context(), time.Now().Add(-age))
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d entries older than %s.\n", removed, age)
			return nil
		}

		if historyOpts.stats {
			counts, err := store.CountByKind(cmd.Context())
			if err != nil {
				return err
			}
			kinds := make([]string, 0, len(counts))
			for kind := range counts {
				kinds = append(kinds, kind)
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				fmt.Printf("%-16s %d\n", kind, counts[kind])
			}
			return nil
		}

		entries, err := store.Recent(cmd.Context(), historyOpts.kind, historyOpts.limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No history yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-14s %-16s %-24s %s\n",
				humanize.Time(e.Timestamp), e.Kind, e.Subject, formatDetails(e.Details))
		}
		return nil
	},
}

// formatDetails renders the details map as stable key=value pairs.
func formatDetails(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if details[k] == "" {
			continue
		}
		if i > 0 && out != "" {
			out += " "
		}
		out += k + "=" + details[k]
	}
	return out
}

func init() {
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 20, "Maximum entries to show")
	historyCmd.Flags().StringVar(&historyOpts.kind, "kind", "", "Filter by event kind")
	historyCmd.Flags().BoolVar(&historyOpts.stats, "stats", false, "Show per-kind counts instead of entries")
	historyCmd.Flags().StringVar(&historyOpts.prune, "prune", "", "Delete entries older than a duration (e.g. 720h)")
	rootCmd.AddCommand(historyCmd)
}
