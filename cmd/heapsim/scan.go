package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/heapsim/internal/scan"
	"github.com/zero-day-ai/heapsim/internal/session"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a simulated memory buffer for allocation markers",
	Long: `Lay the session's live allocations out into one contiguous buffer,
stamp each slot with its marker, and scan the buffer back for matches.
With --raw, scan an arbitrary binary file against the session's
allocations instead.`,
	RunE: runScan,
}

var (
	scanScript string
	scanRaw    string
)

func init() {
	scanCmd.Flags().StringVar(&scanScript, "script", "", "Session script to replay first")
	scanCmd.Flags().StringVar(&scanRaw, "raw", "", "Binary file to scan instead of the simulated buffer")
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := sessionFromScript(cmd.Context(), scanScript)
	if err != nil {
		return err
	}

	targets := scanTargets(s)
	scanner := scan.New()

	var buf []byte
	if scanRaw != "" {
		buf, err = os.ReadFile(scanRaw)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", scanRaw, err)
		}
	} else {
		buf, err = buildSimulatedBuffer(scanner, targets)
		if err != nil {
			return err
		}
	}

	matches, err := scanner.Scan(buf, targets)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := renderStructured(out, cfg.Output.Format, matches); done {
		return err
	}

	fmt.Fprintf(out, "scanned %d bytes against %d live allocations: %d markers\n", len(buf), len(targets), len(matches))
	for _, m := range matches {
		tag := "known"
		if !m.Known {
			tag = "unknown"
		}
		fmt.Fprintf(out, "  offset %6d  id=%d size=%d type=%s (%s)\n", m.Offset, m.ID, m.Size, m.Type, tag)
	}
	return nil
}

// scanTargets converts the session's live allocations into scan targets.
func scanTargets(s *session.Session) []scan.Target {
	live := s.Tracker.GetActiveAllocations()
	targets := make([]scan.Target, 0, len(live))
	for _, rec := range live {
		targets = append(targets, scan.Target{ID: rec.ID, Type: rec.Type, Size: rec.Size})
	}
	return targets
}

// buildSimulatedBuffer lays every target out back to back, each slot
// marker-stamped and padded to its allocation size.
func buildSimulatedBuffer(scanner *scan.Scanner, targets []scan.Target) ([]byte, error) {
	var buf []byte
	for _, t := range targets {
		size := t.Size
		if size < len(scan.Marker(t)) {
			// Tiny slots still need room for a full marker.
			size = len(scan.Marker(t))
		}
		slot := make([]byte, size)
		if err := scanner.Fill(slot, t); err != nil {
			return nil, err
		}
		buf = append(buf, slot...)
	}
	return buf, nil
}
