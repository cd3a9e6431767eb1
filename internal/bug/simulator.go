// Package bug owns the simulated bug table and the severity heuristics
// layered on top of the allocation tracker. Nothing here touches real
// memory; simulations are bookkeeping over tracker state plus fixed
// heuristic rules.
package bug

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zero-day-ai/heapsim/internal/tracker"
	"github.com/zero-day-ai/heapsim/internal/types"
)

// Simulator produces bug records from tracker state. It reads the tracker
// for allocation lookup and adjacency and appends audit events through it,
// but never mutates allocation records.
type Simulator struct {
	mu sync.Mutex

	tracker *tracker.Tracker
	nextID  int64
	bugs    map[int64]*Record
	order   []int64

	logger *slog.Logger
}

// NewSimulator creates a Simulator bound to the given tracker.
func NewSimulator(tr *tracker.Tracker) *Simulator {
	return &Simulator{
		tracker: tr,
		nextID:  1,
		bugs:    make(map[int64]*Record),
		logger:  slog.Default().With(slog.String("component", "bug-simulator")),
	}
}

// SetLogger replaces the simulator's logger.
func (s *Simulator) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger.With(slog.String("component", "bug-simulator"))
}

// SimulateOverflow models a linear overflow out of the source allocation.
// The source must exist and still be allocated. The structurally next
// member of the source's bucket becomes the corrupted target, but only if
// it exists and is itself still allocated; otherwise severity degrades to
// low with an explanatory note.
func (s *Simulator) SimulateOverflow(sourceID int64, overflowSize int) (*Record, error) {
	source, ok := s.tracker.GetAllocation(sourceID)
	if !ok {
		return nil, types.NewErrorf(types.ALLOCATION_NOT_FOUND, "no allocation with ID %d", sourceID)
	}
	if !source.IsAllocated() {
		return nil, types.NewErrorf(types.INVALID_STATE, "allocation %d is freed; overflow requires a live source", sourceID)
	}

	adj, err := s.tracker.FindAdjacentAllocations(sourceID)
	if err != nil {
		return nil, err
	}

	impact := Impact{}
	if adj.Next != nil && adj.Next.IsAllocated() {
		target := adj.Next
		impact.Severity = assessOverflowSeverity(target, overflowSize)
		impact.CorruptedID = &target.ID
		impact.Notes = fmt.Sprintf("overflow of %d bytes corrupts adjacent %s (ID %d)", overflowSize, target.Type, target.ID)
	} else {
		impact.Severity = SeverityLow
		impact.Notes = "no active allocation corrupted: the structurally next slot is absent or already freed"
	}

	rec := s.store(&Record{
		Kind:         KindOverflow,
		SourceID:     sourceID,
		OverflowSize: overflowSize,
		Impact:       impact,
	})

	// Audit hook; the tracker only logs the event, the record lives here.
	_ = s.tracker.RecordBug(sourceID, KindOverflow.String(), impact.Notes)

	s.logger.Info("overflow simulated",
		slog.Int64("bug_id", rec.ID),
		slog.Int64("source_id", sourceID),
		slog.String("severity", impact.Severity.String()))

	return rec, nil
}

// SimulateUseAfterFree models a dangling access to a freed allocation.
// The source must exist and already be freed. The predicted reuser is the
// earliest same-bucket allocation that is still live and was created
// strictly after the free timestamp; absence of one is an open-ended
// prediction, not a safe verdict, so severity stays medium.
func (s *Simulator) SimulateUseAfterFree(freedID int64) (*Record, error) {
	freed, ok := s.tracker.GetAllocation(freedID)
	if !ok {
		return nil, types.NewErrorf(types.ALLOCATION_NOT_FOUND, "no allocation with ID %d", freedID)
	}
	if !freed.IsFreed() {
		return nil, types.NewErrorf(types.INVALID_STATE, "allocation %d is still allocated; use-after-free requires a freed source", freedID)
	}

	reuser := findLikelyReuser(s.tracker, freed)

	impact := Impact{}
	if reuser != nil {
		impact.Severity = assessUafSeverity(freed, reuser)
		impact.ReuserID = &reuser.ID
		impact.Notes = fmt.Sprintf("freed slot most likely reused by %s (ID %d)", reuser.Type, reuser.ID)
	} else {
		impact.Severity = SeverityMedium
		impact.Notes = "no reuse detected yet: the freed slot may still be claimed by a later allocation"
	}

	rec := s.store(&Record{
		Kind:     KindUseAfterFree,
		SourceID: freedID,
		Impact:   impact,
	})

	_ = s.tracker.RecordBug(freedID, KindUseAfterFree.String(), impact.Notes)

	s.logger.Info("use-after-free simulated",
		slog.Int64("bug_id", rec.ID),
		slog.Int64("source_id", freedID),
		slog.String("severity", impact.Severity.String()))

	return rec, nil
}

// SimulateTypeConfusion models the source allocation being interpreted as
// wrongType. The source must exist and still be allocated. Severity depends
// on the size difference against a currently live example of wrongType;
// with no example to compare against the result degrades to unknown rather
// than failing the call.
func (s *Simulator) SimulateTypeConfusion(sourceID int64, wrongType string) (*Record, error) {
	source, ok := s.tracker.GetAllocation(sourceID)
	if !ok {
		return nil, types.NewErrorf(types.ALLOCATION_NOT_FOUND, "no allocation with ID %d", sourceID)
	}
	if !source.IsAllocated() {
		return nil, types.NewErrorf(types.INVALID_STATE, "allocation %d is freed; type confusion requires a live source", sourceID)
	}

	example := findLiveExample(s.tracker, wrongType)

	impact := Impact{}
	sizeDiff := 0
	if example == nil {
		impact.Severity = SeverityUnknown
		impact.Notes = fmt.Sprintf("no live %s to compare against; impact cannot be sized", wrongType)
	} else {
		sizeDiff = source.Size - example.Size
		impact.ExampleID = &example.ID
		switch {
		case sizeDiff > 0:
			impact.Severity = SeverityHigh
			impact.Notes = fmt.Sprintf("source is %d bytes larger than %s: out-of-bounds read/write risk", sizeDiff, wrongType)
		case sizeDiff < 0:
			impact.Severity = SeverityMedium
			impact.Notes = fmt.Sprintf("source is %d bytes smaller than %s: metadata-corruption risk", -sizeDiff, wrongType)
		default:
			impact.Severity = SeverityMedium
			impact.Notes = fmt.Sprintf("source and %s are the same size: field-layout mismatch risk", wrongType)
		}
	}

	rec := s.store(&Record{
		Kind:      KindTypeConfusion,
		SourceID:  sourceID,
		WrongType: wrongType,
		SizeDiff:  sizeDiff,
		Impact:    impact,
	})

	_ = s.tracker.RecordBug(sourceID, KindTypeConfusion.String(), impact.Notes)

	s.logger.Info("type confusion simulated",
		slog.Int64("bug_id", rec.ID),
		slog.Int64("source_id", sourceID),
		slog.String("wrong_type", wrongType),
		slog.String("severity", impact.Severity.String()))

	return rec, nil
}

// GetBug returns the bug record for the given ID, or false if unknown.
func (s *Simulator) GetBug(id int64) (*Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.bugs[id]
	return rec, ok
}

// GetActiveBugs returns all bug records in creation order.
func (s *Simulator) GetActiveBugs() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		if rec, ok := s.bugs[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// RemoveBug deletes a bug record. Removing an unknown ID is a no-op.
func (s *Simulator) RemoveBug(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bugs[id]; !ok {
		return
	}
	delete(s.bugs, id)
	for i, ordered := range s.order {
		if ordered == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Reset clears the bug table and resets the bug ID counter.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = 1
	s.bugs = make(map[int64]*Record)
	s.order = nil

	s.logger.Info("bug simulator reset")
}

// Tracker exposes the tracker this simulator reads from. Used by the
// strategy generator, which needs the same heap view the bug was assessed
// against.
func (s *Simulator) Tracker() *tracker.Tracker {
	return s.tracker
}

func (s *Simulator) store(rec *Record) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	rec.CreatedAt = time.Now()
	s.bugs[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return rec
}

// findLikelyReuser picks the earliest still-live same-bucket allocation
// created strictly after the free timestamp.
func findLikelyReuser(tr *tracker.Tracker, freed *tracker.AllocationRecord) *tracker.AllocationRecord {
	if freed.FreedAt == nil {
		return nil
	}

	// Bucket membership is insertion-ordered, which matches creation
	// order, so the first qualifying member is the earliest one.
	for _, member := range tr.GetAllocationsInBucket(freed.Bucket) {
		if member.ID == freed.ID || !member.IsAllocated() {
			continue
		}
		if member.CreatedAt.After(*freed.FreedAt) {
			return member
		}
	}
	return nil
}

// findLiveExample returns any currently allocated record with exactly the
// given type tag.
func findLiveExample(tr *tracker.Tracker, typeName string) *tracker.AllocationRecord {
	for _, rec := range tr.GetActiveAllocations() {
		if rec.Type == typeName {
			return rec
		}
	}
	return nil
}
