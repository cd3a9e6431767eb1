package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/heapsim/internal/observability"
)

var strategyCmd = &cobra.Command{
	Use:   "strategy BUG_ID",
	Short: "Generate an exploitation strategy for a simulated bug",
	Long: `Generate a rule-based exploitation strategy for a bug created by the
--script session. With --template, render the full exploit pseudo-code
template instead of the phase listing.`,
	Args: cobra.ExactArgs(1),
	RunE: runStrategy,
}

var (
	strategyScript   string
	strategyTemplate bool
)

func init() {
	strategyCmd.Flags().StringVar(&strategyScript, "script", "", "Session script to replay first")
	strategyCmd.Flags().BoolVar(&strategyTemplate, "template", false, "Render the exploit pseudo-code template")
}

func runStrategy(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bug id %q: %w", args[0], err)
	}

	s, err := sessionFromScript(cmd.Context(), strategyScript)
	if err != nil {
		return err
	}

	_, span := observability.StartSpan(cmd.Context(), "strategy.generate", s.ID.String())
	defer span.End()

	out := cmd.OutOrStdout()

	if strategyTemplate {
		tmpl, err := s.Strategy.GenerateExploitTemplate(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tmpl)
		return nil
	}

	plan, err := s.Strategy.GenerateStrategyForBug(id)
	if err != nil {
		return err
	}

	if done, err := renderStructured(out, cfg.Output.Format, plan); done {
		return err
	}
	printPlan(out, plan)
	return nil
}
