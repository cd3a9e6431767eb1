package bug

import "time"

// Kind tags a simulated bug variant.
type Kind string

const (
	KindOverflow      Kind = "overflow"
	KindUseAfterFree  Kind = "use_after_free"
	KindTypeConfusion Kind = "type_confusion"
)

// String returns the string representation of the bug kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the kind is a known value.
func (k Kind) IsValid() bool {
	switch k {
	case KindOverflow, KindUseAfterFree, KindTypeConfusion:
		return true
	default:
		return false
	}
}

// Severity is the ordinal heuristic label describing simulated impact.
// It is produced only by the assessment heuristics, never asserted by
// callers, and does not claim to measure real-world risk.
type Severity string

const (
	SeverityUnknown  Severity = "unknown"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Rank returns the ordering rank of the severity, unknown lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s ranks at or above other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// Impact describes the heuristically assessed consequence of a simulated
// bug. The optional references point at allocations involved in the
// scenario: the neighbor an overflow corrupted, the allocation predicted to
// reuse a freed slot, or an example allocation of a confused type.
type Impact struct {
	Severity Severity `json:"severity"`
	Notes    string   `json:"notes"`

	CorruptedID *int64 `json:"corrupted_id,omitempty"`
	ReuserID    *int64 `json:"reuser_id,omitempty"`
	ExampleID   *int64 `json:"example_id,omitempty"`
}

// Record is one simulated bug. Bug IDs increase monotonically and are
// independent from allocation IDs. A record never mutates the allocation it
// references; SourceID is guaranteed to have existed at simulation time but
// may since have been freed.
type Record struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	SourceID  int64     `json:"source_id"`
	CreatedAt time.Time `json:"created_at"`
	Impact    Impact    `json:"impact"`

	// Overflow bugs
	OverflowSize int `json:"overflow_size,omitempty"`

	// Type confusion bugs
	WrongType string `json:"wrong_type,omitempty"`
	SizeDiff  int    `json:"size_diff,omitempty"`
}
