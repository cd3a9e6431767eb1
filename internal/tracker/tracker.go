// Package tracker owns the allocation table, per-bucket ordered membership
// lists, and the append-only session timeline. It is the single mutable
// source of truth the bug simulator and strategy generator read from.
package tracker

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/zero-day-ai/heapsim/internal/bucket"
	"github.com/zero-day-ai/heapsim/internal/types"
)

// Tracker records simulated allocations and deallocations, grouping records
// into size-class buckets. Bucket membership is insertion-ordered and
// append-only: freed records are never removed, so structural adjacency
// survives deallocation.
//
// A single mutex guards the aggregate. The simulation model is a single
// logical actor, but host environments that parallelize callers get the
// required mutual-exclusion boundary for free.
type Tracker struct {
	mu sync.Mutex

	nextID      int64
	allocations map[int64]*AllocationRecord
	buckets     map[int][]*AllocationRecord
	timeline    []TimelineEvent

	totalAllocations   int64
	totalDeallocations int64
	liveCount          int64
	peakLive           int64

	logger *slog.Logger
}

// New creates an empty Tracker. The first allocation it records gets ID 1.
func New() *Tracker {
	return &Tracker{
		nextID:      1,
		allocations: make(map[int64]*AllocationRecord),
		buckets:     make(map[int][]*AllocationRecord),
		logger:      slog.Default().With(slog.String("component", "tracker")),
	}
}

// SetLogger replaces the tracker's logger. Intended for hosts that route
// component logs through their own handler.
func (t *Tracker) SetLogger(logger *slog.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = logger.With(slog.String("component", "tracker"))
}

// RecordAllocation registers a new simulated allocation and returns its ID.
// It always succeeds: non-positive sizes land in the degenerate bucket 0.
func (t *Tracker) RecordAllocation(size int, typeName string, metadata map[string]any) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++

	now := time.Now()
	rec := &AllocationRecord{
		ID:        id,
		Size:      size,
		Type:      typeName,
		Bucket:    bucket.Classify(size),
		Status:    StatusAllocated,
		CreatedAt: now,
		Metadata:  metadata,
	}

	t.allocations[id] = rec
	t.buckets[rec.Bucket] = append(t.buckets[rec.Bucket], rec)
	t.timeline = append(t.timeline, TimelineEvent{
		Kind:         EventAllocation,
		Timestamp:    now,
		AllocationID: id,
		Size:         size,
		Type:         typeName,
		Bucket:       rec.Bucket,
	})

	t.totalAllocations++
	t.liveCount++
	if t.liveCount > t.peakLive {
		t.peakLive = t.liveCount
	}

	t.logger.Debug("allocation recorded",
		slog.Int64("id", id),
		slog.Int("size", size),
		slog.String("type", typeName),
		slog.Int("bucket", rec.Bucket))

	return id
}

// RecordDeallocation marks an allocation as freed and appends a
// deallocation event to the timeline.
//
// Double-deallocation is deliberately unguarded: freeing an already-freed
// ID succeeds again, re-stamps FreedAt, and double-counts the deallocation
// counter. Callers use this to demonstrate double-free bug scenarios.
func (t *Tracker) RecordDeallocation(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.allocations[id]
	if !ok {
		return types.NewErrorf(types.ALLOCATION_NOT_FOUND, "no allocation with ID %d", id)
	}

	now := time.Now()
	alreadyFreed := rec.Status == StatusFreed
	rec.Status = StatusFreed
	rec.FreedAt = &now

	t.timeline = append(t.timeline, TimelineEvent{
		Kind:         EventDeallocation,
		Timestamp:    now,
		AllocationID: id,
		Size:         rec.Size,
		Type:         rec.Type,
		Bucket:       rec.Bucket,
	})

	t.totalDeallocations++
	if !alreadyFreed {
		t.liveCount--
	}

	t.logger.Debug("deallocation recorded",
		slog.Int64("id", id),
		slog.Bool("double_free", alreadyFreed))

	return nil
}

// RecordBug appends a bug event to the timeline. This is an audit-log hook
// only; the bug simulator owns the bug table itself.
func (t *Tracker) RecordBug(sourceID int64, bugType, details string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.allocations[sourceID]; !ok {
		return types.NewErrorf(types.ALLOCATION_NOT_FOUND, "no allocation with ID %d", sourceID)
	}

	t.timeline = append(t.timeline, TimelineEvent{
		Kind:         EventBug,
		Timestamp:    time.Now(),
		AllocationID: sourceID,
		BugType:      bugType,
		Details:      details,
	})

	t.logger.Info("bug event recorded",
		slog.Int64("source_id", sourceID),
		slog.String("bug_type", bugType))

	return nil
}

// FindBucketForSize exposes the size classifier.
func (t *Tracker) FindBucketForSize(size int) int {
	return bucket.Classify(size)
}

// GetAllocation returns the record for the given ID, or false if unknown.
func (t *Tracker) GetAllocation(id int64) (*AllocationRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.allocations[id]
	return rec, ok
}

// GetAllocationsInBucket returns the bucket's insertion-ordered members,
// freed records included. Returns an empty slice for an absent bucket.
func (t *Tracker) GetAllocationsInBucket(bucketSize int) []*AllocationRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	members := t.buckets[bucketSize]
	out := make([]*AllocationRecord, len(members))
	copy(out, members)
	return out
}

// GetActiveBuckets returns the ascending sizes of every bucket that has at
// least one member, allocated or freed.
func (t *Tracker) GetActiveBuckets() []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	sizes := make([]int, 0, len(t.buckets))
	for size, members := range t.buckets {
		if len(members) > 0 {
			sizes = append(sizes, size)
		}
	}
	sort.Ints(sizes)
	return sizes
}

// GetActiveAllocations returns every record with status allocated, in no
// particular order.
func (t *Tracker) GetActiveAllocations() []*AllocationRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*AllocationRecord, 0, t.liveCount)
	for _, rec := range t.allocations {
		if rec.Status == StatusAllocated {
			out = append(out, rec)
		}
	}
	return out
}

// FindAdjacentAllocations locates the record's position in its bucket's
// insertion-ordered sequence and returns the structurally previous and next
// records, regardless of their status. Position is found by identity, so a
// freed record still has (and still is) a neighbor.
func (t *Tracker) FindAdjacentAllocations(id int64) (Adjacency, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.allocations[id]
	if !ok {
		return Adjacency{}, types.NewErrorf(types.ALLOCATION_NOT_FOUND, "no allocation with ID %d", id)
	}

	members := t.buckets[rec.Bucket]
	for i, member := range members {
		if member.ID == id {
			var adj Adjacency
			if i > 0 {
				adj.Prev = members[i-1]
			}
			if i < len(members)-1 {
				adj.Next = members[i+1]
			}
			return adj, nil
		}
	}

	// A record always belongs to exactly one bucket sequence; missing
	// membership would mean corrupted bookkeeping.
	return Adjacency{}, types.NewErrorf(types.ALLOCATION_INVALID, "allocation %d missing from bucket %d", id, rec.Bucket)
}

// Timeline returns a copy of the append-only event log.
func (t *Tracker) Timeline() []TimelineEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]TimelineEvent, len(t.timeline))
	copy(out, t.timeline)
	return out
}

// Counters returns the aggregate allocation counters.
func (t *Tracker) Counters() Counters {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Counters{
		TotalAllocations:   t.totalAllocations,
		TotalDeallocations: t.totalDeallocations,
		Live:               t.liveCount,
		PeakLive:           t.peakLive,
	}
}

// Reset clears the allocation table, buckets, timeline, and counters, and
// resets the ID counter so the next allocation gets ID 1 again.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID = 1
	t.allocations = make(map[int64]*AllocationRecord)
	t.buckets = make(map[int][]*AllocationRecord)
	t.timeline = nil
	t.totalAllocations = 0
	t.totalDeallocations = 0
	t.liveCount = 0
	t.peakLive = 0

	t.logger.Info("tracker reset")
}

// Counters holds the tracker's aggregate counts. PeakLive is a running
// maximum of the live count and never decreases within a session.
type Counters struct {
	TotalAllocations   int64 `json:"total_allocations"`
	TotalDeallocations int64 `json:"total_deallocations"`
	Live               int64 `json:"live"`
	PeakLive           int64 `json:"peak_live"`
}
