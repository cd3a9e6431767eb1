package tracker

// BucketStats aggregates per-bucket membership counts. Utilization is
// active/total, or 0 for an empty bucket.
type BucketStats struct {
	Total       int     `json:"total"`
	Active      int     `json:"active"`
	Freed       int     `json:"freed"`
	Utilization float64 `json:"utilization"`
}

// TypeStats aggregates allocations by type tag across all buckets.
type TypeStats struct {
	Count     int `json:"count"`
	TotalSize int `json:"total_size"`
	Active    int `json:"active"`
	Freed     int `json:"freed"`
}

// GenerateBucketStats computes membership statistics for every bucket that
// has ever had a member.
func (t *Tracker) GenerateBucketStats() map[int]BucketStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := make(map[int]BucketStats, len(t.buckets))
	for size, members := range t.buckets {
		s := BucketStats{Total: len(members)}
		for _, rec := range members {
			if rec.Status == StatusAllocated {
				s.Active++
			} else {
				s.Freed++
			}
		}
		if s.Total > 0 {
			s.Utilization = float64(s.Active) / float64(s.Total)
		}
		stats[size] = s
	}
	return stats
}

// GenerateTypeStats computes per-type aggregates over the full allocation
// table, regardless of bucket.
func (t *Tracker) GenerateTypeStats() map[string]TypeStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := make(map[string]TypeStats)
	for _, rec := range t.allocations {
		s := stats[rec.Type]
		s.Count++
		s.TotalSize += rec.Size
		if rec.Status == StatusAllocated {
			s.Active++
		} else {
			s.Freed++
		}
		stats[rec.Type] = s
	}
	return stats
}
