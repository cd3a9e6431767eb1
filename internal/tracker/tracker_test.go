package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/heapsim/internal/types"
)

func TestTracker_RecordAllocation(t *testing.T) {
	tr := New()

	id := tr.RecordAllocation(64, "ArrayBuffer", map[string]any{"origin": "test"})
	assert.Equal(t, int64(1), id)

	rec, ok := tr.GetAllocation(id)
	require.True(t, ok)
	assert.Equal(t, 64, rec.Size)
	assert.Equal(t, "ArrayBuffer", rec.Type)
	assert.Equal(t, 64, rec.Bucket)
	assert.Equal(t, StatusAllocated, rec.Status)
	assert.Nil(t, rec.FreedAt)
	assert.Equal(t, "test", rec.Metadata["origin"])
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestTracker_IDsAreMonotonic(t *testing.T) {
	tr := New()

	first := tr.RecordAllocation(16, "Object", nil)
	second := tr.RecordAllocation(16, "Object", nil)
	require.NoError(t, tr.RecordDeallocation(first))
	third := tr.RecordAllocation(16, "Object", nil)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(3), third, "freed IDs are never reused")
}

func TestTracker_NonPositiveSizeLandsInBucketZero(t *testing.T) {
	tr := New()

	id := tr.RecordAllocation(0, "Degenerate", nil)
	rec, ok := tr.GetAllocation(id)
	require.True(t, ok)
	assert.Equal(t, 0, rec.Bucket)

	id = tr.RecordAllocation(-32, "Degenerate", nil)
	rec, ok = tr.GetAllocation(id)
	require.True(t, ok)
	assert.Equal(t, 0, rec.Bucket)
}

func TestTracker_RecordDeallocation(t *testing.T) {
	tr := New()
	id := tr.RecordAllocation(64, "Object", nil)

	require.NoError(t, tr.RecordDeallocation(id))

	rec, _ := tr.GetAllocation(id)
	assert.Equal(t, StatusFreed, rec.Status)
	require.NotNil(t, rec.FreedAt)

	counters := tr.Counters()
	assert.Equal(t, int64(1), counters.TotalDeallocations)
	assert.Equal(t, int64(0), counters.Live)
}

func TestTracker_RecordDeallocation_UnknownID(t *testing.T) {
	tr := New()

	err := tr.RecordDeallocation(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.ALLOCATION_NOT_FOUND, "")))

	counters := tr.Counters()
	assert.Equal(t, int64(0), counters.TotalDeallocations, "failed deallocation must not mutate state")
}

func TestTracker_DoubleDeallocationIsUnguarded(t *testing.T) {
	tr := New()
	id := tr.RecordAllocation(64, "Object", nil)

	require.NoError(t, tr.RecordDeallocation(id))
	rec, _ := tr.GetAllocation(id)
	firstFreedAt := *rec.FreedAt

	// The second free succeeds again: this mirrors a real bug surface and
	// is what lets callers demonstrate double-free scenarios.
	require.NoError(t, tr.RecordDeallocation(id))

	rec, _ = tr.GetAllocation(id)
	assert.False(t, rec.FreedAt.Before(firstFreedAt), "second free re-stamps the freed timestamp")

	counters := tr.Counters()
	assert.Equal(t, int64(2), counters.TotalDeallocations, "double free double-counts")
	assert.Equal(t, int64(0), counters.Live, "live count is only decremented once")
}

func TestTracker_PeakLiveNeverDecreases(t *testing.T) {
	tr := New()

	a := tr.RecordAllocation(64, "Object", nil)
	b := tr.RecordAllocation(64, "Object", nil)
	c := tr.RecordAllocation(64, "Object", nil)
	assert.Equal(t, int64(3), tr.Counters().PeakLive)

	require.NoError(t, tr.RecordDeallocation(a))
	require.NoError(t, tr.RecordDeallocation(b))
	require.NoError(t, tr.RecordDeallocation(c))
	assert.Equal(t, int64(3), tr.Counters().PeakLive)
	assert.Equal(t, int64(0), tr.Counters().Live)

	tr.RecordAllocation(64, "Object", nil)
	assert.Equal(t, int64(3), tr.Counters().PeakLive, "peak only moves on a new maximum")
}

func TestTracker_RecordBug(t *testing.T) {
	tr := New()
	id := tr.RecordAllocation(64, "Object", nil)

	require.NoError(t, tr.RecordBug(id, "overflow", "8 byte overflow"))

	timeline := tr.Timeline()
	require.Len(t, timeline, 2)
	assert.Equal(t, EventBug, timeline[1].Kind)
	assert.Equal(t, id, timeline[1].AllocationID)
	assert.Equal(t, "overflow", timeline[1].BugType)

	err := tr.RecordBug(99, "overflow", "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.ALLOCATION_NOT_FOUND, "")))
	assert.Len(t, tr.Timeline(), 2, "failed bug hook must not append")
}

func TestTracker_FindAdjacentAllocations(t *testing.T) {
	tr := New()

	first := tr.RecordAllocation(64, "Foo", nil)
	second := tr.RecordAllocation(64, "Bar", nil)

	adj, err := tr.FindAdjacentAllocations(first)
	require.NoError(t, err)
	assert.Nil(t, adj.Prev)
	require.NotNil(t, adj.Next)
	assert.Equal(t, second, adj.Next.ID)

	adj, err = tr.FindAdjacentAllocations(second)
	require.NoError(t, err)
	require.NotNil(t, adj.Prev)
	assert.Equal(t, first, adj.Prev.ID)
	assert.Nil(t, adj.Next)
}

func TestTracker_AdjacencyIgnoresStatus(t *testing.T) {
	tr := New()

	a := tr.RecordAllocation(64, "Foo", nil)
	b := tr.RecordAllocation(64, "Bar", nil)
	c := tr.RecordAllocation(64, "Baz", nil)

	// Freeing the middle record must not disturb structural adjacency.
	require.NoError(t, tr.RecordDeallocation(b))

	adj, err := tr.FindAdjacentAllocations(a)
	require.NoError(t, err)
	require.NotNil(t, adj.Next)
	assert.Equal(t, b, adj.Next.ID)
	assert.Equal(t, StatusFreed, adj.Next.Status)

	adj, err = tr.FindAdjacentAllocations(b)
	require.NoError(t, err)
	require.NotNil(t, adj.Prev)
	require.NotNil(t, adj.Next)
	assert.Equal(t, a, adj.Prev.ID)
	assert.Equal(t, c, adj.Next.ID)
}

func TestTracker_AdjacencyCrossesBucketBoundaries(t *testing.T) {
	tr := New()

	// 64 and 100 classify to different buckets (64 and 112); only the
	// same-bucket allocation is a structural neighbor.
	a := tr.RecordAllocation(64, "Foo", nil)
	tr.RecordAllocation(100, "Interloper", nil)
	b := tr.RecordAllocation(64, "Bar", nil)

	adj, err := tr.FindAdjacentAllocations(a)
	require.NoError(t, err)
	require.NotNil(t, adj.Next)
	assert.Equal(t, b, adj.Next.ID)
}

func TestTracker_GetActiveBuckets(t *testing.T) {
	tr := New()
	assert.Empty(t, tr.GetActiveBuckets())

	tr.RecordAllocation(2000, "Big", nil)
	tr.RecordAllocation(8, "Tiny", nil)
	id := tr.RecordAllocation(64, "Mid", nil)

	assert.Equal(t, []int{8, 64, 2048}, tr.GetActiveBuckets())

	// Freed members still count toward bucket activity.
	require.NoError(t, tr.RecordDeallocation(id))
	assert.Equal(t, []int{8, 64, 2048}, tr.GetActiveBuckets())
}

func TestTracker_GetActiveAllocations(t *testing.T) {
	tr := New()

	a := tr.RecordAllocation(64, "Foo", nil)
	b := tr.RecordAllocation(64, "Bar", nil)
	require.NoError(t, tr.RecordDeallocation(a))

	active := tr.GetActiveAllocations()
	require.Len(t, active, 1)
	assert.Equal(t, b, active[0].ID)
}

func TestTracker_GetAllocationsInBucket(t *testing.T) {
	tr := New()
	assert.Empty(t, tr.GetAllocationsInBucket(64))

	a := tr.RecordAllocation(60, "Foo", nil)
	b := tr.RecordAllocation(64, "Bar", nil)
	require.NoError(t, tr.RecordDeallocation(a))

	members := tr.GetAllocationsInBucket(64)
	require.Len(t, members, 2, "freed records stay in the bucket sequence")
	assert.Equal(t, a, members[0].ID)
	assert.Equal(t, b, members[1].ID)
}

func TestTracker_GenerateBucketStats(t *testing.T) {
	tr := New()

	tr.RecordAllocation(64, "Foo", nil)
	tr.RecordAllocation(64, "Bar", nil)
	id := tr.RecordAllocation(64, "Baz", nil)
	require.NoError(t, tr.RecordDeallocation(id))

	stats := tr.GenerateBucketStats()
	s, ok := stats[64]
	require.True(t, ok)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Freed)
	assert.InDelta(t, 2.0/3.0, s.Utilization, 1e-9)
}

func TestTracker_GenerateTypeStats(t *testing.T) {
	tr := New()

	tr.RecordAllocation(64, "ArrayBuffer", nil)
	tr.RecordAllocation(2000, "ArrayBuffer", nil)
	id := tr.RecordAllocation(32, "Object", nil)
	require.NoError(t, tr.RecordDeallocation(id))

	stats := tr.GenerateTypeStats()

	ab := stats["ArrayBuffer"]
	assert.Equal(t, 2, ab.Count)
	assert.Equal(t, 2064, ab.TotalSize)
	assert.Equal(t, 2, ab.Active)
	assert.Equal(t, 0, ab.Freed)

	obj := stats["Object"]
	assert.Equal(t, 1, obj.Count)
	assert.Equal(t, 32, obj.TotalSize)
	assert.Equal(t, 0, obj.Active)
	assert.Equal(t, 1, obj.Freed)
}

func TestTracker_Reset(t *testing.T) {
	tr := New()

	tr.RecordAllocation(64, "Foo", nil)
	tr.RecordAllocation(128, "Bar", nil)
	require.NoError(t, tr.RecordDeallocation(1))

	tr.Reset()

	assert.Empty(t, tr.GetActiveBuckets())
	assert.Empty(t, tr.GenerateBucketStats())
	assert.Empty(t, tr.GenerateTypeStats())
	assert.Empty(t, tr.Timeline())
	assert.Equal(t, Counters{}, tr.Counters())

	id := tr.RecordAllocation(64, "Foo", nil)
	assert.Equal(t, int64(1), id, "ID counter restarts after reset")
}

func TestTracker_TimelineOrdering(t *testing.T) {
	tr := New()

	a := tr.RecordAllocation(64, "Foo", nil)
	b := tr.RecordAllocation(64, "Bar", nil)
	require.NoError(t, tr.RecordDeallocation(a))
	require.NoError(t, tr.RecordBug(b, "overflow", "demo"))

	timeline := tr.Timeline()
	require.Len(t, timeline, 4)
	assert.Equal(t, EventAllocation, timeline[0].Kind)
	assert.Equal(t, EventAllocation, timeline[1].Kind)
	assert.Equal(t, EventDeallocation, timeline[2].Kind)
	assert.Equal(t, EventBug, timeline[3].Kind)
}
