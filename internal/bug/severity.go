package bug

import (
	"github.com/zero-day-ai/heapsim/internal/bucket"
	"github.com/zero-day-ai/heapsim/internal/tracker"
)

// Overflow magnitude thresholds. The constants are a fixed heuristic
// contract; their exact values are load-bearing for reproducible output.
const (
	overflowLargeBytes = 100
	overflowSmallBytes = 16
)

// assessOverflowSeverity rates an overflow that corrupts target. Type
// category of the corrupted object dominates; overflow magnitude only
// matters for uninteresting targets.
func assessOverflowSeverity(target *tracker.AllocationRecord, overflowSize int) Severity {
	switch bucket.CategorizeType(target.Type) {
	case bucket.CategoryCritical:
		return SeverityCritical
	case bucket.CategorySensitive:
		return SeverityHigh
	}

	switch {
	case overflowSize > overflowLargeBytes:
		return SeverityHigh
	case overflowSize > overflowSmallBytes:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// assessUafSeverity rates a use-after-free whose freed slot is predicted to
// be reused by reuser. A critical reuser type is the worst case; a
// sensitive reuser, or a freed object that was itself critical, still rates
// high.
func assessUafSeverity(freed, reuser *tracker.AllocationRecord) Severity {
	switch bucket.CategorizeType(reuser.Type) {
	case bucket.CategoryCritical:
		return SeverityCritical
	case bucket.CategorySensitive:
		return SeverityHigh
	}

	if bucket.CategorizeType(freed.Type) == bucket.CategoryCritical {
		return SeverityHigh
	}
	return SeverityMedium
}
