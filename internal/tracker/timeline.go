package tracker

import "time"

// EventKind tags a timeline event variant.
type EventKind string

const (
	EventAllocation   EventKind = "allocation"
	EventDeallocation EventKind = "deallocation"
	EventBug          EventKind = "bug"
)

// TimelineEvent is one entry in the append-only session timeline. The
// timeline is ordered by insertion, not by wall clock; two events may share
// a timestamp. It is an audit log for observational views only, never a
// source of truth the tracker re-derives state from.
type TimelineEvent struct {
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	// Allocation and deallocation events
	AllocationID int64  `json:"allocation_id,omitempty"`
	Size         int    `json:"size,omitempty"`
	Type         string `json:"type,omitempty"`
	Bucket       int    `json:"bucket,omitempty"`

	// Bug events
	BugType string `json:"bug_type,omitempty"`
	Details string `json:"details,omitempty"`
}
