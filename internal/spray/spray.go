// Package spray is the bulk-allocation utility: it manufactures large
// batches of tracked allocations so demos can shape bucket occupancy
// before simulating bugs.
package spray

import (
	"fmt"
	"log/slog"

	"github.com/zero-day-ai/heapsim/internal/tracker"
	"github.com/zero-day-ai/heapsim/internal/types"
)

// Pattern selects how allocation sizes vary across a spray run.
type Pattern string

const (
	// PatternUniform allocates every object at the configured size.
	PatternUniform Pattern = "uniform"

	// PatternRamp grows the size by one size step per allocation, walking
	// the spray across buckets.
	PatternRamp Pattern = "ramp"

	// PatternAlternating flips between the configured size and its
	// double, interleaving two buckets.
	PatternAlternating Pattern = "alternating"
)

// IsValid checks if the pattern is a known value.
func (p Pattern) IsValid() bool {
	switch p {
	case PatternUniform, PatternRamp, PatternAlternating:
		return true
	default:
		return false
	}
}

// rampStep is the per-allocation size increment for PatternRamp.
const rampStep = 16

// Config describes one spray run.
type Config struct {
	Count   int     `json:"count" yaml:"count"`
	Size    int     `json:"size" yaml:"size"`
	Type    string  `json:"type" yaml:"type"`
	Pattern Pattern `json:"pattern" yaml:"pattern"`

	// Tag is stamped into every allocation's metadata so sprayed records
	// can be told apart from hand-made ones.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Validate checks the config for usable values.
func (c Config) Validate() error {
	if c.Count <= 0 {
		return types.NewError(types.ALLOCATION_INVALID, "spray count must be positive")
	}
	if c.Size <= 0 {
		return types.NewError(types.ALLOCATION_INVALID, "spray size must be positive")
	}
	if c.Type == "" {
		return types.NewError(types.ALLOCATION_INVALID, "spray type must not be empty")
	}
	if c.Pattern != "" && !c.Pattern.IsValid() {
		return types.NewErrorf(types.ALLOCATION_INVALID, "unknown spray pattern %q", c.Pattern)
	}
	return nil
}

// Result summarizes a completed spray run.
type Result struct {
	FirstID int64       `json:"first_id"`
	LastID  int64       `json:"last_id"`
	Count   int         `json:"count"`
	Buckets map[int]int `json:"buckets"`
}

// Sprayer drives bulk allocations through a tracker.
type Sprayer struct {
	tracker *tracker.Tracker
	logger  *slog.Logger
}

// New creates a Sprayer over the given tracker.
func New(tr *tracker.Tracker) *Sprayer {
	return &Sprayer{
		tracker: tr,
		logger:  slog.Default().With(slog.String("component", "spray")),
	}
}

// Run performs the spray, returning the allocated ID range and the bucket
// distribution it produced.
func (s *Sprayer) Run(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pattern := cfg.Pattern
	if pattern == "" {
		pattern = PatternUniform
	}

	result := &Result{Buckets: make(map[int]int)}
	for i := 0; i < cfg.Count; i++ {
		size := sizeFor(pattern, cfg.Size, i)

		var metadata map[string]any
		if cfg.Tag != "" {
			metadata = map[string]any{"spray": cfg.Tag, "index": i}
		}

		id := s.tracker.RecordAllocation(size, cfg.Type, metadata)
		if i == 0 {
			result.FirstID = id
		}
		result.LastID = id
		result.Count++
		result.Buckets[s.tracker.FindBucketForSize(size)]++
	}

	s.logger.Info("spray complete",
		slog.String("type", cfg.Type),
		slog.Int("count", result.Count),
		slog.String("pattern", string(pattern)),
		slog.String("ids", fmt.Sprintf("%d-%d", result.FirstID, result.LastID)))

	return result, nil
}

func sizeFor(pattern Pattern, base, index int) int {
	switch pattern {
	case PatternRamp:
		return base + index*rampStep
	case PatternAlternating:
		if index%2 == 1 {
			return base * 2
		}
		return base
	default:
		return base
	}
}
