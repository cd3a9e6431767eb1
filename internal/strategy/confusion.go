package strategy

import (
	"fmt"

	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/tracker"
)

// buildConfusionPlan branches on the size difference between the source
// and a live example of the confused-as type (0 when no example exists)
// into one of three fixed three-phase templates.
func (g *Generator) buildConfusionPlan(rec *bug.Record, source *tracker.AllocationRecord) *Plan {
	sizeDiff := g.confusionSizeDiff(rec, source)

	switch {
	case sizeDiff > 0:
		return g.confusionPlan(rec, source, ApproachSizeLarger,
			"Oversized confusion",
			fmt.Sprintf("The source is %d bytes larger than a %s; fields past the %s layout read and write out of bounds.", sizeDiff, rec.WrongType, rec.WrongType),
			fmt.Sprintf("Prepare %s objects with recognizable field values", rec.WrongType),
			fmt.Sprintf("Force the %s to be interpreted as a %s", source.Type, rec.WrongType),
			"Access the trailing fields for out-of-bounds reads and writes")
	case sizeDiff < 0:
		return g.confusionPlan(rec, source, ApproachSizeSmaller,
			"Undersized confusion",
			fmt.Sprintf("The source is %d bytes smaller than a %s; accesses past its end corrupt neighboring metadata.", -sizeDiff, rec.WrongType),
			fmt.Sprintf("Prepare allocations so interesting metadata follows the %s", source.Type),
			fmt.Sprintf("Force the %s to be interpreted as a %s", source.Type, rec.WrongType),
			"Drive accesses through the phantom fields to corrupt adjacent metadata")
	default:
		return g.confusionPlan(rec, source, ApproachFieldMisread,
			"Field misinterpretation",
			fmt.Sprintf("Source and %s are the same size; every field access reinterprets one layout as the other.", rec.WrongType),
			fmt.Sprintf("Prepare a %s whose fields decode as useful values under the %s layout", source.Type, rec.WrongType),
			fmt.Sprintf("Force the %s to be interpreted as a %s", source.Type, rec.WrongType),
			"Exploit a pointer-sized field that now decodes as attacker data")
	}
}

// confusionSizeDiff prefers the size difference captured on the bug record
// and recomputes it against a live example when the record predates one.
func (g *Generator) confusionSizeDiff(rec *bug.Record, source *tracker.AllocationRecord) int {
	if rec.Impact.ExampleID != nil {
		return rec.SizeDiff
	}
	for _, live := range g.tracker.GetActiveAllocations() {
		if live.Type == rec.WrongType {
			return source.Size - live.Size
		}
	}
	return 0
}

func (g *Generator) confusionPlan(rec *bug.Record, source *tracker.AllocationRecord, approach Approach, name, description, prep, force, exploit string) *Plan {
	return &Plan{
		Name:         name,
		Description:  description,
		Approach:     approach,
		TargetBucket: source.Bucket,
		TargetTypes:  []string{rec.WrongType},
		Phases: []Phase{
			{
				Kind:        PhasePreparation,
				Description: prep,
				Technique: renderTechnique(techniqueInput{
					Kind: PhasePreparation.String(), Bucket: source.Bucket, Detail: prep,
				}),
			},
			{
				Kind:        PhaseTrigger,
				Description: force,
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseTrigger.String(), SourceID: source.ID, Detail: force,
				}),
			},
			{
				Kind:        PhaseExploitation,
				Description: exploit,
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseExploitation.String(), Detail: exploit,
				}),
			},
		},
	}
}
