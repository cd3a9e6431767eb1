package main

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bucket and type statistics for a scripted session",
	RunE:  runStats,
}

var (
	statsScript   string
	statsTimeline bool
	statsHeap     bool
)

func init() {
	statsCmd.Flags().StringVar(&statsScript, "script", "", "Session script to replay first")
	statsCmd.Flags().BoolVar(&statsTimeline, "timeline", false, "Show the event timeline instead of statistics")
	statsCmd.Flags().BoolVar(&statsHeap, "heap", false, "Show the per-bucket heap layout instead of statistics")
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := sessionFromScript(cmd.Context(), statsScript)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if statsTimeline {
		printTimeline(out, s)
		return nil
	}
	if statsHeap {
		printHeap(out, s)
		return nil
	}

	snap := s.Snapshot()
	if done, err := renderStructured(out, cfg.Output.Format, snap); done {
		return err
	}
	printStats(out, s)
	return nil
}
