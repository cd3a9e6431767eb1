package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zero-day-ai/heapsim/internal/tracker"
)

func (m Model) renderHeap() string {
	var sb strings.Builder

	c := m.snap.Counters
	fmt.Fprintf(&sb, "allocations: %d   deallocations: %d   live: %d   peak: %d\n\n",
		c.TotalAllocations, c.TotalDeallocations, c.Live, c.PeakLive)

	if len(m.snap.ActiveBuckets) == 0 {
		sb.WriteString("heap is empty\n")
		return sb.String()
	}

	for _, size := range m.snap.ActiveBuckets {
		members := m.session.Tracker.GetAllocationsInBucket(size)
		fmt.Fprintf(&sb, "%s\n", m.theme.TitleStyle.Render(fmt.Sprintf("bucket %d (%d slots)", size, len(members))))
		for _, rec := range members {
			style := m.theme.StatusAllocated
			marker := "#"
			if rec.IsFreed() {
				style = m.theme.StatusFreed
				marker = "."
			}
			fmt.Fprintf(&sb, "  %s %4d  %-20s %d bytes\n",
				style.Render(marker), rec.ID, rec.Type, rec.Size)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderBuckets() string {
	var sb strings.Builder

	if len(m.snap.BucketStats) == 0 {
		return "no buckets in use\n"
	}

	sizes := make([]int, 0, len(m.snap.BucketStats))
	for size := range m.snap.BucketStats {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	fmt.Fprintf(&sb, "%8s %7s %7s %7s %12s\n", "bucket", "total", "active", "freed", "utilization")
	for _, size := range sizes {
		s := m.snap.BucketStats[size]
		fmt.Fprintf(&sb, "%8d %7d %7d %7d %11.0f%%\n",
			size, s.Total, s.Active, s.Freed, s.Utilization*100)
	}

	sb.WriteString("\n")
	types := make([]string, 0, len(m.snap.TypeStats))
	for name := range m.snap.TypeStats {
		types = append(types, name)
	}
	sort.Strings(types)

	fmt.Fprintf(&sb, "%-20s %7s %10s %7s %7s\n", "type", "count", "bytes", "active", "freed")
	for _, name := range types {
		s := m.snap.TypeStats[name]
		fmt.Fprintf(&sb, "%-20s %7d %10d %7d %7d\n", name, s.Count, s.TotalSize, s.Active, s.Freed)
	}
	return sb.String()
}

func (m Model) renderBugs() string {
	if len(m.snap.Bugs) == 0 {
		return "no bugs simulated\n"
	}

	var sb strings.Builder
	for _, rec := range m.snap.Bugs {
		severity := m.theme.ForSeverity(rec.Impact.Severity.String()).Render(strings.ToUpper(rec.Impact.Severity.String()))
		fmt.Fprintf(&sb, "%s  bug %d  %s  source %d\n", severity, rec.ID, rec.Kind, rec.SourceID)
		fmt.Fprintf(&sb, "    %s\n\n", rec.Impact.Notes)
	}
	return sb.String()
}

func (m Model) renderStrategy() string {
	if len(m.snap.Bugs) == 0 {
		return "no bugs to strategize against\n"
	}

	var sb strings.Builder
	for _, rec := range m.snap.Bugs {
		plan, err := m.session.Strategy.GenerateStrategyForBug(rec.ID)
		if err != nil {
			fmt.Fprintf(&sb, "bug %d: %v\n\n", rec.ID, err)
			continue
		}

		fmt.Fprintf(&sb, "%s\n", m.theme.TitleStyle.Render(fmt.Sprintf("bug %d: %s (%s)", rec.ID, plan.Name, plan.Approach)))
		fmt.Fprintf(&sb, "%s\n", plan.Description)
		for i, phase := range plan.Phases {
			fmt.Fprintf(&sb, "  %d. [%s] %s\n", i+1, phase.Kind, phase.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderTimeline() string {
	if len(m.snap.Timeline) == 0 {
		return "timeline is empty\n"
	}

	var sb strings.Builder
	for _, event := range m.snap.Timeline {
		ts := event.Timestamp.Format("15:04:05.000")
		switch event.Kind {
		case tracker.EventAllocation:
			fmt.Fprintf(&sb, "%s  alloc  %4d  %-20s %d bytes -> bucket %d\n",
				ts, event.AllocationID, event.Type, event.Size, event.Bucket)
		case tracker.EventDeallocation:
			fmt.Fprintf(&sb, "%s  free   %4d  %-20s bucket %d\n",
				ts, event.AllocationID, event.Type, event.Bucket)
		case tracker.EventBug:
			fmt.Fprintf(&sb, "%s  bug    %4d  %s: %s\n",
				ts, event.AllocationID, event.BugType, event.Details)
		}
	}
	return sb.String()
}
