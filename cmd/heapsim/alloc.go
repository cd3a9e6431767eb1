package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var allocCmd = &cobra.Command{
	Use:   "alloc SIZE TYPE",
	Short: "Classify an allocation into its bucket",
	Long: `Record one or more allocations in a fresh session (or one preloaded
from --script) and show the resulting bucket assignment.`,
	Args: cobra.ExactArgs(2),
	RunE: runAlloc,
}

var freeCmd = &cobra.Command{
	Use:   "free ID",
	Short: "Free an allocation in a scripted session",
	Long: `Replay a session script, free the given allocation, and show the
resulting heap. Freed slots keep their position in the bucket.`,
	Args: cobra.ExactArgs(1),
	RunE: runFree,
}

var (
	allocCount  int
	allocScript string
	freeScript  string
)

func init() {
	allocCmd.Flags().IntVar(&allocCount, "count", 1, "Number of identical allocations to record")
	allocCmd.Flags().StringVar(&allocScript, "script", "", "Session script to replay first")
	freeCmd.Flags().StringVar(&freeScript, "script", "", "Session script to replay first")
}

func runAlloc(cmd *cobra.Command, args []string) error {
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[0], err)
	}
	typeName := args[1]
	if allocCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	s, err := sessionFromScript(cmd.Context(), allocScript)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := 0; i < allocCount; i++ {
		id := s.Tracker.RecordAllocation(size, typeName, nil)
		rec, _ := s.Tracker.GetAllocation(id)
		fmt.Fprintf(out, "allocated id=%d type=%s size=%d bucket=%d\n", id, typeName, size, rec.Bucket)
	}
	return nil
}

func runFree(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}

	s, err := sessionFromScript(cmd.Context(), freeScript)
	if err != nil {
		return err
	}
	if err := s.Tracker.RecordDeallocation(id); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "freed id=%d\n\n", id)
	printHeap(out, s)
	return nil
}
