package strategy

import (
	"fmt"

	bkt "github.com/zero-day-ai/heapsim/internal/bucket"
	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/tracker"
)

// buildOverflowPlan chooses between precise placement and spraying. If the
// source's bucket holds a desirable live neighbor (critical type first,
// otherwise any other live member) the plan lines the target up next to
// the vulnerable object; with nothing worth hitting it falls back to a
// spray of the best candidate type.
func (g *Generator) buildOverflowPlan(rec *bug.Record, source *tracker.AllocationRecord) *Plan {
	neighbor := g.findDesirableNeighbor(source)
	if neighbor != nil {
		return g.precisePlacementPlan(rec, source, neighbor)
	}
	return g.overflowSprayPlan(rec, source)
}

// findDesirableNeighbor scans the source's bucket for live, non-source
// members: any critical-type member wins outright, otherwise the first
// other live member is taken.
func (g *Generator) findDesirableNeighbor(source *tracker.AllocationRecord) *tracker.AllocationRecord {
	members := g.tracker.GetAllocationsInBucket(source.Bucket)

	var fallback *tracker.AllocationRecord
	for _, member := range members {
		if member.ID == source.ID || !member.IsAllocated() {
			continue
		}
		if bkt.IsCriticalType(member.Type) {
			return member
		}
		if fallback == nil {
			fallback = member
		}
	}
	return fallback
}

func (g *Generator) precisePlacementPlan(rec *bug.Record, source, neighbor *tracker.AllocationRecord) *Plan {
	bucketSize := source.Bucket
	return &Plan{
		Name:         "Precise placement overflow",
		Description:  fmt.Sprintf("Place a %s directly after the vulnerable object in the %d-byte bucket, then overflow %d bytes into it.", neighbor.Type, bucketSize, rec.OverflowSize),
		Approach:     ApproachPrecisePlacement,
		TargetBucket: bucketSize,
		TargetTypes:  []string{neighbor.Type},
		Phases: []Phase{
			{
				Kind:        PhasePreparation,
				Description: fmt.Sprintf("Clean the %d-byte bucket so new allocations land contiguously", bucketSize),
				Technique: renderTechnique(techniqueInput{
					Kind: PhasePreparation.String(), Bucket: bucketSize,
					Detail: "fill existing holes so the allocator serves fresh adjacent slots",
				}),
			},
			{
				Kind:        PhaseAllocation,
				Description: "Allocate the vulnerable object",
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseAllocation.String(), TypeName: source.Type, Bucket: bucketSize,
				}),
			},
			{
				Kind:        PhaseAllocation,
				Description: fmt.Sprintf("Allocate the target %s so it lands adjacent to the vulnerable object", neighbor.Type),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseAllocation.String(), TypeName: neighbor.Type, Bucket: bucketSize,
				}),
			},
			{
				Kind:        PhaseTrigger,
				Description: fmt.Sprintf("Trigger the %d-byte overflow out of the vulnerable object", rec.OverflowSize),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseTrigger.String(), SourceID: source.ID,
					Detail: fmt.Sprintf("write %d bytes past the end of the source allocation", rec.OverflowSize),
				}),
			},
			{
				Kind:        PhaseExploitation,
				Description: fmt.Sprintf("Use the corrupted %s to build a stronger primitive", neighbor.Type),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseExploitation.String(),
					Detail: fmt.Sprintf("the %s header now lies about its length or pointers", neighbor.Type),
				}),
			},
		},
	}
}

func (g *Generator) overflowSprayPlan(rec *bug.Record, source *tracker.AllocationRecord) *Plan {
	bucketSize := source.Bucket
	sprayType := g.bestSprayType()
	return &Plan{
		Name:         "Overflow spray",
		Description:  fmt.Sprintf("No attractive neighbor in the %d-byte bucket; surround the vulnerable object with %s objects and overflow into whichever lands next.", bucketSize, sprayType),
		Approach:     ApproachSpray,
		TargetBucket: bucketSize,
		TargetTypes:  []string{sprayType},
		Phases: []Phase{
			{
				Kind:        PhaseSpray,
				Description: fmt.Sprintf("Spray %s objects to fill the %d-byte bucket", sprayType, bucketSize),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseSpray.String(), TypeName: sprayType, Bucket: bucketSize, Count: sprayCount,
				}),
			},
			{
				Kind:        PhaseAllocation,
				Description: "Allocate the vulnerable object amid the spray",
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseAllocation.String(), TypeName: source.Type, Bucket: bucketSize,
				}),
			},
			{
				Kind:        PhaseSpray,
				Description: fmt.Sprintf("Continue spraying %s so the slot after the vulnerable object is occupied", sprayType),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseSpray.String(), TypeName: sprayType, Bucket: bucketSize, Count: sprayCount,
				}),
			},
			{
				Kind:        PhaseTrigger,
				Description: fmt.Sprintf("Trigger the %d-byte overflow", rec.OverflowSize),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseTrigger.String(), SourceID: source.ID,
					Detail: fmt.Sprintf("write %d bytes past the end of the source allocation", rec.OverflowSize),
				}),
			},
			{
				Kind:        PhaseExploitation,
				Description: fmt.Sprintf("Inspect the sprayed %s objects and exploit the corrupted one", sprayType),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseExploitation.String(),
					Detail: fmt.Sprintf("a %s with an impossible length is the corrupted victim", sprayType),
				}),
			},
		},
	}
}
