package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/browser-conf/internal/app"
)

var (
	historyLimit int
	historyJSONL bool
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previous apply runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSONL, "jsonl", false, "Output runs as JSON lines")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	history := app.Default.History()

	if historyClear {
		if err := history.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		logSuccess("History cleared")
		return nil
	}

	records, err := history.Records(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(records) == 0 {
		logInfo("No apply runs recorded in %s", history.Path())
		return nil
	}

	out := cmd.OutOrStdout()
	for _, r := range records {
		if historyJSONL {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to marshal record: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}

		ts := r.Timestamp.Local().Format("2006-01-02 15:04:05")
		changed := 0
		for _, f := range r.Files {
			if f.Changed {
				changed++
			}
		}
		line := fmt.Sprintf("[%s] %-9s %s", ts, r.Outcome, r.Config)
		if r.Profile != "" {
			line += fmt.Sprintf(" (profile %s)", r.Profile)
		}
		switch {
		case r.Error != "":
			line += ": " + r.Error
		case len(r.Files) > 0:
			line += fmt.Sprintf(": %d/%d files changed", changed, len(r.Files))
		}
		if len(r.Warnings) > 0 {
			line += fmt.Sprintf(", %d warning(s)", len(r.Warnings))
		}
		fmt.Fprintln(out, line)
	}

	return nil
}
