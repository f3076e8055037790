package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear stored data (everything when no flag is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetBool("history")
		wrong, _ := cmd.Flags().GetBool("wrong")
		current, _ := cmd.Flags().GetBool("session")
		if !history && !wrong && !current {
			history, wrong, current = true, true, true
		}

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if history {
			if err := env.svc.History.Clear(ctx); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintln(out, "Session history cleared.")
		}
		if wrong {
			if err := env.svc.Ledger.Clear(ctx); err != nil {
				return fmt.Errorf("clear wrong questions: %w", err)
			}
			fmt.Fprintln(out, "Wrong questions cleared.")
		}
		if current {
			if err := env.svc.Machine.Abandon(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Unfinished session discarded.")
		}
		env.log.WithFields(logrus.Fields{
			"history": history,
			"wrong":   wrong,
			"session": current,
		}).Info("reset")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("history", false, "Clear session history")
	resetCmd.Flags().Bool("wrong", false, "Clear the wrong-question list")
	resetCmd.Flags().Bool("session", false, "Discard the unfinished session")
}
