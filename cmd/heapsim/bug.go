package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/observability"
	"github.com/zero-day-ai/heapsim/internal/session"
)

var bugCmd = &cobra.Command{
	Use:   "bug",
	Short: "Simulate memory-safety bugs against a scripted heap",
	Long: `Simulate a heap overflow, use-after-free, or type confusion against
a session built from --script, then report severity, exploitability, and
mitigations for the resulting bug.`,
}

var bugOverflowCmd = &cobra.Command{
	Use:   "overflow SOURCE_ID BYTES",
	Short: "Simulate a heap buffer overflow",
	Args:  cobra.ExactArgs(2),
	RunE:  runBugOverflow,
}

var bugUafCmd = &cobra.Command{
	Use:     "uaf FREED_ID",
	Aliases: []string{"use-after-free"},
	Short:   "Simulate a use-after-free",
	Args:    cobra.ExactArgs(1),
	RunE:    runBugUaf,
}

var bugConfusionCmd = &cobra.Command{
	Use:     "confusion SOURCE_ID WRONG_TYPE",
	Aliases: []string{"type-confusion"},
	Short:   "Simulate a type confusion",
	Args:    cobra.ExactArgs(2),
	RunE:    runBugConfusion,
}

var bugScript string

func init() {
	bugCmd.PersistentFlags().StringVar(&bugScript, "script", "", "Session script to replay first")
	bugCmd.AddCommand(bugOverflowCmd)
	bugCmd.AddCommand(bugUafCmd)
	bugCmd.AddCommand(bugConfusionCmd)
}

func runBugOverflow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid source id %q: %w", args[0], err)
	}
	size, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid overflow size %q: %w", args[1], err)
	}

	s, err := sessionFromScript(cmd.Context(), bugScript)
	if err != nil {
		return err
	}

	_, span := observability.StartSpan(cmd.Context(), "bug.overflow", s.ID.String())
	defer span.End()

	rec, err := s.Bugs.SimulateOverflow(id, size)
	if err != nil {
		return err
	}
	return reportBug(cmd, s, rec)
}

func runBugUaf(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid freed id %q: %w", args[0], err)
	}

	s, err := sessionFromScript(cmd.Context(), bugScript)
	if err != nil {
		return err
	}

	_, span := observability.StartSpan(cmd.Context(), "bug.use_after_free", s.ID.String())
	defer span.End()

	rec, err := s.Bugs.SimulateUseAfterFree(id)
	if err != nil {
		return err
	}
	return reportBug(cmd, s, rec)
}

func runBugConfusion(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid source id %q: %w", args[0], err)
	}

	s, err := sessionFromScript(cmd.Context(), bugScript)
	if err != nil {
		return err
	}

	_, span := observability.StartSpan(cmd.Context(), "bug.type_confusion", s.ID.String())
	defer span.End()

	rec, err := s.Bugs.SimulateTypeConfusion(id, args[1])
	if err != nil {
		return err
	}
	return reportBug(cmd, s, rec)
}

// reportBug prints the bug record plus the derived exploitability score and
// mitigation list, honoring the structured output formats.
func reportBug(cmd *cobra.Command, s *session.Session, rec *bug.Record) error {
	assessment, err := s.Bugs.AssessExploitability(rec.ID)
	if err != nil {
		return err
	}
	mitigations, err := s.Bugs.GenerateMitigations(rec.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report := struct {
		Bug            *bug.Record         `json:"bug" yaml:"bug"`
		Exploitability *bug.Exploitability `json:"exploitability" yaml:"exploitability"`
		Mitigations    []bug.Mitigation    `json:"mitigations" yaml:"mitigations"`
	}{rec, assessment, mitigations}

	if done, err := renderStructured(out, cfg.Output.Format, report); done {
		return err
	}

	printBugRecord(out, rec)
	fmt.Fprintln(out)
	printExploitability(out, assessment)
	fmt.Fprintln(out)
	printMitigations(out, mitigations)
	return nil
}
