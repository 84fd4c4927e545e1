package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-convert/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs, or the items of one run",
	Long: `History reads the run ledger named by [ledger] path. Without arguments it
lists the most recent runs, newest first. With a run ID it lists every item
outcome recorded for that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Ledger.Path == "" {
		return errors.New("no ledger configured: set [ledger] path")
	}

	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		items, err := store.Items(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("no items recorded for run %s", args[0])
		}
		for _, it := range items {
			line := fmt.Sprintf("%-24s %s", it.Outcome, it.RelPath)
			if it.Error != "" {
				line += "  (" + it.Error + ")"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  processed=%d skipped=%d failed=%d  %.2fs\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Processed, r.Skipped, r.Failed, r.Elapsed.Seconds())
	}
	return nil
}
