package main

import (
	"github.com/spf13/cobra"

	"github.com/zero-day-ai/heapsim/internal/observability"
	"github.com/zero-day-ai/heapsim/internal/spray"
)

var sprayCmd = &cobra.Command{
	Use:   "spray",
	Short: "Bulk-allocate to groom the simulated heap",
	Long: `Run a heap spray against a fresh or scripted session. Count, size,
type, and pattern default to the spray section of the config file.`,
	RunE: runSpray,
}

var (
	sprayScript  string
	sprayCount   int
	spraySize    int
	sprayType    string
	sprayPattern string
	sprayTag     string
)

func init() {
	sprayCmd.Flags().StringVar(&sprayScript, "script", "", "Session script to replay first")
	sprayCmd.Flags().IntVar(&sprayCount, "count", 0, "Number of allocations (default from config)")
	sprayCmd.Flags().IntVar(&spraySize, "size", 0, "Base allocation size in bytes (default from config)")
	sprayCmd.Flags().StringVar(&sprayType, "type", "", "Allocation type name (default from config)")
	sprayCmd.Flags().StringVar(&sprayPattern, "pattern", "", "Size pattern: uniform, ramp, alternating (default from config)")
	sprayCmd.Flags().StringVar(&sprayTag, "tag", "", "Metadata tag stamped on each sprayed allocation")
}

func runSpray(cmd *cobra.Command, args []string) error {
	s, err := sessionFromScript(cmd.Context(), sprayScript)
	if err != nil {
		return err
	}

	scfg := spray.Config{
		Count:   cfg.Spray.Count,
		Size:    cfg.Spray.Size,
		Type:    cfg.Spray.Type,
		Pattern: spray.Pattern(cfg.Spray.Pattern),
		Tag:     sprayTag,
	}
	if sprayCount > 0 {
		scfg.Count = sprayCount
	}
	if spraySize > 0 {
		scfg.Size = spraySize
	}
	if sprayType != "" {
		scfg.Type = sprayType
	}
	if sprayPattern != "" {
		scfg.Pattern = spray.Pattern(sprayPattern)
	}

	_, span := observability.StartSpan(cmd.Context(), "spray.run", s.ID.String())
	defer span.End()

	result, err := spray.New(s.Tracker).Run(scfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := renderStructured(out, cfg.Output.Format, result); done {
		return err
	}
	printSprayResult(out, result)
	return nil
}
