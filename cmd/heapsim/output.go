package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/session"
	"github.com/zero-day-ai/heapsim/internal/spray"
	"github.com/zero-day-ai/heapsim/internal/strategy"
	"github.com/zero-day-ai/heapsim/internal/tracker"
)

// severityColor maps a severity name to its display color.
func severityColor(severity string) *color.Color {
	switch severity {
	case "critical":
		return color.New(color.FgRed, color.Bold)
	case "high":
		return color.New(color.FgRed)
	case "medium":
		return color.New(color.FgYellow)
	case "low":
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

// renderStructured marshals v as JSON or YAML per the output format.
// It returns false when the format is table so callers fall through to
// their table renderer.
func renderStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return true, enc.Encode(v)
	default:
		return false, nil
	}
}

func printHeap(w io.Writer, s *session.Session) {
	c := s.Tracker.Counters()
	fmt.Fprintf(w, "allocations: %d  deallocations: %d  live: %d  peak: %d\n",
		c.TotalAllocations, c.TotalDeallocations, c.Live, c.PeakLive)

	buckets := s.Tracker.GetActiveBuckets()
	if len(buckets) == 0 {
		fmt.Fprintln(w, "heap is empty")
		return
	}

	for _, size := range buckets {
		members := s.Tracker.GetAllocationsInBucket(size)
		fmt.Fprintf(w, "\nbucket %d (%d slots):\n", size, len(members))
		for _, rec := range members {
			status := color.GreenString("allocated")
			if rec.IsFreed() {
				status = color.HiBlackString("freed")
			}
			fmt.Fprintf(w, "  %4d  %-20s %5d bytes  %s\n", rec.ID, rec.Type, rec.Size, status)
		}
	}
}

func printStats(w io.Writer, s *session.Session) {
	bucketStats := s.Tracker.GenerateBucketStats()
	typeStats := s.Tracker.GenerateTypeStats()

	if len(bucketStats) == 0 {
		fmt.Fprintln(w, "no buckets in use")
		return
	}

	sizes := make([]int, 0, len(bucketStats))
	for size := range bucketStats {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BUCKET\tTOTAL\tACTIVE\tFREED\tUTILIZATION")
	for _, size := range sizes {
		st := bucketStats[size]
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.0f%%\n", size, st.Total, st.Active, st.Freed, st.Utilization*100)
	}
	tw.Flush()

	names := make([]string, 0, len(typeStats))
	for name := range typeStats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCOUNT\tBYTES\tACTIVE\tFREED")
	for _, name := range names {
		st := typeStats[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", name, st.Count, st.TotalSize, st.Active, st.Freed)
	}
	tw.Flush()
}

func printBugList(w io.Writer, s *session.Session) {
	bugs := s.Bugs.GetActiveBugs()
	if len(bugs) == 0 {
		fmt.Fprintln(w, "no bugs simulated")
		return
	}
	for _, rec := range bugs {
		sev := severityColor(rec.Impact.Severity.String()).Sprint(strings.ToUpper(rec.Impact.Severity.String()))
		fmt.Fprintf(w, "%s  bug %d  %s  source=%d  %s\n", sev, rec.ID, rec.Kind, rec.SourceID, rec.Impact.Notes)
	}
}

func printTimeline(w io.Writer, s *session.Session) {
	events := s.Tracker.Timeline()
	if len(events) == 0 {
		fmt.Fprintln(w, "timeline is empty")
		return
	}
	for _, ev := range events {
		ts := ev.Timestamp.Format("15:04:05.000")
		switch ev.Kind {
		case tracker.EventAllocation:
			fmt.Fprintf(w, "%s  alloc  id=%d type=%s size=%d bucket=%d\n", ts, ev.AllocationID, ev.Type, ev.Size, ev.Bucket)
		case tracker.EventDeallocation:
			fmt.Fprintf(w, "%s  free   id=%d type=%s bucket=%d\n", ts, ev.AllocationID, ev.Type, ev.Bucket)
		case tracker.EventBug:
			fmt.Fprintf(w, "%s  bug    source=%d %s: %s\n", ts, ev.AllocationID, ev.BugType, ev.Details)
		}
	}
}

func printBugRecord(w io.Writer, rec *bug.Record) {
	sev := severityColor(rec.Impact.Severity.String()).Sprint(strings.ToUpper(rec.Impact.Severity.String()))
	fmt.Fprintf(w, "bug %d: %s (source allocation %d)\n", rec.ID, rec.Kind, rec.SourceID)
	fmt.Fprintf(w, "  severity: %s\n", sev)
	fmt.Fprintf(w, "  impact:   %s\n", rec.Impact.Notes)
	if rec.Impact.CorruptedID != nil {
		fmt.Fprintf(w, "  corrupts: allocation %d\n", *rec.Impact.CorruptedID)
	}
	if rec.Impact.ReuserID != nil {
		fmt.Fprintf(w, "  reuser:   allocation %d\n", *rec.Impact.ReuserID)
	}
	if rec.Impact.ExampleID != nil {
		fmt.Fprintf(w, "  example:  allocation %d\n", *rec.Impact.ExampleID)
	}
}

func printPlan(w io.Writer, plan *strategy.Plan) {
	fmt.Fprintf(w, "%s (%s)\n", color.New(color.Bold).Sprint(plan.Name), plan.Approach)
	fmt.Fprintf(w, "%s\n", plan.Description)
	if plan.TargetBucket > 0 {
		fmt.Fprintf(w, "target bucket: %d\n", plan.TargetBucket)
	}
	if len(plan.TargetTypes) > 0 {
		fmt.Fprintf(w, "target types:  %s\n", strings.Join(plan.TargetTypes, ", "))
	}
	for i, phase := range plan.Phases {
		fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, phase.Kind, phase.Description)
	}
}

func printSprayResult(w io.Writer, result *spray.Result) {
	fmt.Fprintf(w, "sprayed %d allocations (ids %d..%d)\n", result.Count, result.FirstID, result.LastID)
	sizes := make([]int, 0, len(result.Buckets))
	for size := range result.Buckets {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		fmt.Fprintf(w, "  bucket %d: %d\n", size, result.Buckets[size])
	}
}

func printExploitability(w io.Writer, assessment *bug.Exploitability) {
	tier := severityColor(string(assessment.Overall)).Sprint(strings.ToUpper(string(assessment.Overall)))
	fmt.Fprintf(w, "exploitability: %s (score %d)\n", tier, assessment.Score)
	for _, f := range assessment.Factors {
		fmt.Fprintf(w, "  + %s\n", f)
	}
	for _, d := range assessment.Difficulties {
		fmt.Fprintf(w, "  - %s\n", d)
	}
}

func printMitigations(w io.Writer, mitigations []bug.Mitigation) {
	for i, m := range mitigations {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, m.Title, m.Description)
	}
}
