package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start or resume a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Practice the questions you got wrong",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}
