package session

import (
	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/tracker"
)

// Snapshot is a point-in-time read-only view for presentation layers.
// There is no subscription contract; callers re-request after mutations
// they care about.
type Snapshot struct {
	SessionID     string                       `json:"session_id"`
	Counters      tracker.Counters             `json:"counters"`
	ActiveBuckets []int                        `json:"active_buckets"`
	BucketStats   map[int]tracker.BucketStats  `json:"bucket_stats"`
	TypeStats     map[string]tracker.TypeStats `json:"type_stats"`
	Bugs          []*bug.Record                `json:"bugs"`
	Timeline      []tracker.TimelineEvent      `json:"timeline"`
}

// Snapshot captures the current heap and bug state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID:     s.ID.String(),
		Counters:      s.Tracker.Counters(),
		ActiveBuckets: s.Tracker.GetActiveBuckets(),
		BucketStats:   s.Tracker.GenerateBucketStats(),
		TypeStats:     s.Tracker.GenerateTypeStats(),
		Bugs:          s.Bugs.GetActiveBugs(),
		Timeline:      s.Tracker.Timeline(),
	}
}
