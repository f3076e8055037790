package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmath/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		records, err := env.svc.History.All(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		printStats(cmd.OutOrStdout(), records)
		return nil
	},
}

func printStats(w io.Writer, records []stats.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No sessions yet.")
		return
	}

	o := stats.CalculateOverall(records)
	fmt.Fprintln(w, "Overall Statistics")
	fmt.Fprintf(w, "  Total sessions:     %d\n", o.TotalSessions)
	fmt.Fprintf(w, "  Questions answered: %d\n", o.TotalAttempted)
	fmt.Fprintf(w, "  Correct:            %d\n", o.TotalCorrect)
	fmt.Fprintf(w, "  Incorrect:          %d\n", o.TotalIncorrect)
	fmt.Fprintf(w, "  Overall accuracy:   %d%%\n", o.OverallAccuracy)
	fmt.Fprintf(w, "  Average accuracy:   %d%%\n\n", o.AverageAccuracy)

	fmt.Fprintf(w, "%-17s  %9s  %9s  %9s  %8s\n", "Date", "Attempted", "Correct", "Incorrect", "Accuracy")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		fmt.Fprintf(w, "%-17s  %9d  %9d  %9d  %7d%%\n",
			r.Time().Format("2006-01-02 15:04"), r.Attempted, r.Correct, r.Incorrect, r.Accuracy)
	}
}
