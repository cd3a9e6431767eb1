package tracker

import "time"

// AllocationStatus represents the lifecycle status of an allocation record.
type AllocationStatus string

const (
	// StatusAllocated indicates the allocation is live.
	StatusAllocated AllocationStatus = "allocated"

	// StatusFreed indicates the allocation has been deallocated. Freed
	// records stay in their bucket sequence to preserve positional
	// adjacency semantics.
	StatusFreed AllocationStatus = "freed"
)

// String returns the string representation of the allocation status.
func (s AllocationStatus) String() string {
	return string(s)
}

// AllocationRecord is the bookkeeping entry for one simulated allocation.
// IDs increase monotonically within a session and are never reused.
type AllocationRecord struct {
	ID        int64            `json:"id"`
	Size      int              `json:"size"`
	Type      string           `json:"type"`
	Bucket    int              `json:"bucket"`
	Status    AllocationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	FreedAt   *time.Time       `json:"freed_at,omitempty"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
}

// IsAllocated reports whether the record is still live.
func (r *AllocationRecord) IsAllocated() bool {
	return r.Status == StatusAllocated
}

// IsFreed reports whether the record has been deallocated.
func (r *AllocationRecord) IsFreed() bool {
	return r.Status == StatusFreed
}

// Adjacency holds the structural neighbors of an allocation within its
// bucket's insertion-ordered sequence. Either side may be nil at a
// sequence boundary. Neighbors are reported regardless of their status.
type Adjacency struct {
	Prev *AllocationRecord `json:"prev,omitempty"`
	Next *AllocationRecord `json:"next,omitempty"`
}
