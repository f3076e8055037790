package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "flashmath",
	Short:         "Arithmetic flashcards for kids",
	Long:          "FlashMath is a terminal flashcard game that helps children aged 7-12 practise arithmetic.",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FLASHMATH_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to the log file (overrides FLASHMATH_LOG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(sheetCmd)
	rootCmd.AddCommand(versionCmd)
}
