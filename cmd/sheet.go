package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashmath/internal/config"
	"github.com/abhisek/flashmath/internal/logging"
	"github.com/abhisek/flashmath/internal/problemgen"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Print a practice sheet with answers at the bottom",
	RunE: func(cmd *cobra.Command, args []string) error {
		levelFlag, _ := cmd.Flags().GetString("level")
		opsFlag, _ := cmd.Flags().GetStringSlice("ops")
		seed, _ := cmd.Flags().GetUint64("seed")

		level, err := problemgen.ParseLevel(levelFlag)
		if err != nil {
			return err
		}
		ops, err := parseOperations(opsFlag)
		if err != nil {
			return err
		}

		cfg, err := config.Load(config.Options{Flags: cmd.Flags()})
		if err != nil {
			return err
		}
		rng := problemgen.NewRand()
		if cmd.Flags().Changed("seed") {
			rng = problemgen.NewSeededRand(seed)
		}
		gen := problemgen.New(rng, cfg.GeneratorConfig())

		questions, err := gen.GenerateSessionQuestions(level, ops)
		if err != nil && !errors.Is(err, problemgen.ErrGenerationExhausted) {
			return fmt.Errorf("generate sheet: %w", err)
		}
		printSheet(cmd.OutOrStdout(), level, ops, questions)
		if err != nil {
			return warnShortSheet(cmd.ErrOrStderr(), cfg.Logging(), len(questions), err)
		}
		return nil
	},
}

func warnShortSheet(w io.Writer, cfg logging.Config, n int, cause error) error {
	log, err := logging.NewWriter(w, cfg)
	if err != nil {
		return err
	}
	log.WithError(cause).WithField("questions", n).Warn("sheet is short")
	return nil
}

func parseOperations(names []string) ([]problemgen.Operation, error) {
	var ops []problemgen.Operation
	seen := make(map[problemgen.Operation]bool)
	for _, n := range names {
		op, err := problemgen.ParseOperation(n)
		if err != nil {
			return nil, err
		}
		if !seen[op] {
			seen[op] = true
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("at least one operation is required")
	}
	return ops, nil
}

func printSheet(w io.Writer, level problemgen.Level, ops []problemgen.Operation, questions []problemgen.Question) {
	symbols := make([]string, len(ops))
	for i, op := range ops {
		symbols[i] = op.Symbol()
	}
	fmt.Fprintf(w, "FlashMath practice sheet  (ages %s, %s)\n", level, strings.Join(symbols, " "))
	fmt.Fprintln(w, strings.Repeat("─", 44))
	for i, q := range questions {
		fmt.Fprintf(w, "%2d.  %s\n\n", i+1, strings.Replace(q.Prompt(), "?", "______", 1))
	}

	fmt.Fprintln(w, strings.Repeat("─", 44))
	fmt.Fprintln(w, "Answers")
	for i, q := range questions {
		fmt.Fprintf(w, "%2d. %d\n", i+1, q.CorrectAnswer)
	}
}

func init() {
	sheetCmd.Flags().String("level", "7-8", "Age band (7-8, 9-10, 11-12) or level number")
	sheetCmd.Flags().StringSlice("ops", []string{"add", "subtract", "multiply", "divide"}, "Operations to include")
	sheetCmd.Flags().Uint64("seed", 0, "Seed for a reproducible sheet")
}
