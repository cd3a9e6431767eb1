// Package strategy turns a simulated bug record plus current heap state
// into an ordered exploitation plan. Plans are rule-based: a closed
// dispatch over the bug kind selects a variant-specific builder, so adding
// a bug kind is a compile-time-checked change here.
package strategy

import (
	"fmt"
	"log/slog"

	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/tracker"
	"github.com/zero-day-ai/heapsim/internal/types"
)

// sprayPreference is the fixed order in which spray candidate types are
// considered. The first type that has ever been allocated in the session
// wins; ArrayBuffer is the default when none match.
var sprayPreference = []string{"ArrayBuffer", "Uint8Array", "Object", "Array"}

const defaultSprayType = "ArrayBuffer"

// sprayCount is the illustrative object count used in spray techniques.
const sprayCount = 64

// Generator builds exploitation plans from tracker and bug simulator
// state. It only reads from both; a plan is a pure derivation.
type Generator struct {
	tracker *tracker.Tracker
	bugs    *bug.Simulator
	logger  *slog.Logger
}

// NewGenerator creates a Generator over the given tracker and simulator.
func NewGenerator(tr *tracker.Tracker, bugs *bug.Simulator) *Generator {
	return &Generator{
		tracker: tr,
		bugs:    bugs,
		logger:  slog.Default().With(slog.String("component", "strategy")),
	}
}

// SetLogger replaces the generator's logger.
func (g *Generator) SetLogger(logger *slog.Logger) {
	g.logger = logger.With(slog.String("component", "strategy"))
}

// GenerateStrategyForBug builds the exploitation plan for the given bug.
// It fails if the bug ID is unknown or the bug's source allocation is no
// longer tracked.
func (g *Generator) GenerateStrategyForBug(bugID int64) (*Plan, error) {
	rec, ok := g.bugs.GetBug(bugID)
	if !ok {
		return nil, types.NewErrorf(types.BUG_NOT_FOUND, "no bug with ID %d", bugID)
	}

	source, ok := g.tracker.GetAllocation(rec.SourceID)
	if !ok {
		return nil, types.NewErrorf(types.STRATEGY_SOURCE_MISSING,
			"bug %d references allocation %d which is no longer tracked", bugID, rec.SourceID)
	}

	var plan *Plan
	switch rec.Kind {
	case bug.KindOverflow:
		plan = g.buildOverflowPlan(rec, source)
	case bug.KindUseAfterFree:
		plan = g.buildUafPlan(rec, source)
	case bug.KindTypeConfusion:
		plan = g.buildConfusionPlan(rec, source)
	default:
		plan = g.buildGenericPlan(rec, source)
	}

	g.logger.Info("strategy generated",
		slog.Int64("bug_id", bugID),
		slog.String("approach", plan.Approach.String()),
		slog.Int("phases", len(plan.Phases)))

	return plan, nil
}

// buildGenericPlan is the fixed fallback for bug kinds the dispatcher does
// not recognize: spray, trigger, then scan for corruption.
func (g *Generator) buildGenericPlan(rec *bug.Record, source *tracker.AllocationRecord) *Plan {
	bucketSize := source.Bucket
	return &Plan{
		Name:         "Spray and pray",
		Description:  fmt.Sprintf("Generic plan for an unclassified bug on allocation %d: blanket the bucket, trigger, and look for damage.", source.ID),
		Approach:     ApproachGeneric,
		TargetBucket: bucketSize,
		TargetTypes:  []string{defaultSprayType},
		Phases: []Phase{
			{
				Kind:        PhaseAllocation,
				Description: fmt.Sprintf("Allocate %s objects throughout the %d-byte bucket", defaultSprayType, bucketSize),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseSpray.String(), TypeName: defaultSprayType, Bucket: bucketSize, Count: sprayCount,
				}),
			},
			{
				Kind:        PhaseTrigger,
				Description: "Trigger the bug against the prepared heap",
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseTrigger.String(), SourceID: source.ID, Detail: "unclassified bug; observe behavior",
				}),
			},
			{
				Kind:        PhaseScan,
				Description: "Scan the sprayed objects for corruption",
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseScan.String(),
				}),
			},
		},
	}
}

// bestSprayType returns the first preference type that has ever been
// allocated in this session, falling back to the default.
func (g *Generator) bestSprayType() string {
	stats := g.tracker.GenerateTypeStats()
	for _, candidate := range sprayPreference {
		if _, seen := stats[candidate]; seen {
			return candidate
		}
	}
	return defaultSprayType
}
