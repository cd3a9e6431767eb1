package strategy

import (
	"fmt"

	bkt "github.com/zero-day-ai/heapsim/internal/bucket"
	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/tracker"
)

// buildUafPlan chooses between controlled reuse and a mass spray. A
// replacement candidate from the freed object's bucket (critical types
// first, then the most frequent remaining type) enables targeted slot
// reclamation; otherwise the whole bucket gets sprayed.
func (g *Generator) buildUafPlan(rec *bug.Record, freed *tracker.AllocationRecord) *Plan {
	replacement := g.findReplacementType(freed)
	if replacement != "" {
		return g.controlledReusePlan(freed, replacement)
	}
	return g.massSprayPlan(freed)
}

// findReplacementType scans the freed object's bucket, excluding the freed
// object itself. A critical-type member wins; failing that, the single
// most frequent type among the remaining members is chosen. Returns ""
// when the bucket offers nothing.
func (g *Generator) findReplacementType(freed *tracker.AllocationRecord) string {
	members := g.tracker.GetAllocationsInBucket(freed.Bucket)

	frequency := make(map[string]int)
	order := make([]string, 0)
	for _, member := range members {
		if member.ID == freed.ID {
			continue
		}
		if bkt.IsCriticalType(member.Type) {
			return member.Type
		}
		if _, seen := frequency[member.Type]; !seen {
			order = append(order, member.Type)
		}
		frequency[member.Type]++
	}

	best := ""
	bestCount := 0
	for _, typeName := range order {
		if frequency[typeName] > bestCount {
			best = typeName
			bestCount = frequency[typeName]
		}
	}
	return best
}

func (g *Generator) controlledReusePlan(freed *tracker.AllocationRecord, replacement string) *Plan {
	bucketSize := freed.Bucket
	return &Plan{
		Name:         "Controlled slot reuse",
		Description:  fmt.Sprintf("Reclaim the freed %d-byte slot with %s objects while a dangling reference to the victim survives.", bucketSize, replacement),
		Approach:     ApproachControlledReuse,
		TargetBucket: bucketSize,
		TargetTypes:  []string{replacement},
		Phases: []Phase{
			{
				Kind:        PhaseAllocation,
				Description: fmt.Sprintf("Allocate a run of %s victims in the %d-byte bucket", freed.Type, bucketSize),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseSpray.String(), TypeName: freed.Type, Bucket: bucketSize, Count: sprayCount,
				}),
			},
			{
				Kind:        PhaseFree,
				Description: "Free the victim while keeping a reference to it",
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseFree.String(), Bucket: bucketSize,
				}),
			},
			{
				Kind:        PhaseAllocation,
				Description: fmt.Sprintf("Allocate %s objects until one claims the freed slot", replacement),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseSpray.String(), TypeName: replacement, Bucket: bucketSize, Count: sprayCount,
				}),
			},
			{
				Kind:        PhaseTrigger,
				Description: "Access the dangling reference, now aliasing the replacement object",
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseTrigger.String(), SourceID: freed.ID,
					Detail: fmt.Sprintf("the stale %s reference reads %s memory", freed.Type, replacement),
				}),
			},
			{
				Kind:        PhaseExploitation,
				Description: fmt.Sprintf("Interpret the %s through the stale reference to build a primitive", replacement),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseExploitation.String(),
					Detail: "type confusion through the dangling reference yields controlled fields",
				}),
			},
		},
	}
}

func (g *Generator) massSprayPlan(freed *tracker.AllocationRecord) *Plan {
	bucketSize := freed.Bucket
	sprayType := g.bucketSprayType(freed)
	return &Plan{
		Name:         "Mass spray reuse",
		Description:  fmt.Sprintf("Nothing specific to reclaim the %d-byte slot with; free broadly and spray %s over the whole bucket.", bucketSize, sprayType),
		Approach:     ApproachMassSpray,
		TargetBucket: bucketSize,
		TargetTypes:  []string{sprayType},
		Phases: []Phase{
			{
				Kind:        PhaseAllocation,
				Description: fmt.Sprintf("Allocate many %s victims in the %d-byte bucket", freed.Type, bucketSize),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseSpray.String(), TypeName: freed.Type, Bucket: bucketSize, Count: sprayCount,
				}),
			},
			{
				Kind:        PhaseFree,
				Description: "Free all victims while keeping references to every one",
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseFree.String(), Bucket: bucketSize,
				}),
			},
			{
				Kind:        PhaseSpray,
				Description: fmt.Sprintf("Mass-spray %s at the %d-byte bucket to reclaim the freed slots", sprayType, bucketSize),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseSpray.String(), TypeName: sprayType, Bucket: bucketSize, Count: sprayCount * 4,
				}),
			},
			{
				Kind:        PhaseTrigger,
				Description: "Access every dangling reference and find the ones that alias spray objects",
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseTrigger.String(), SourceID: freed.ID,
					Detail: "stale references that now read spray data are the winners",
				}),
			},
			{
				Kind:        PhaseExploitation,
				Description: fmt.Sprintf("Exploit an aliased %s through its stale reference", sprayType),
				Technique: renderTechnique(techniqueInput{
					Kind: PhaseExploitation.String(),
					Detail: "the aliased object's fields are attacker-controlled",
				}),
			},
		},
	}
}

// bucketSprayType picks any type observed in the freed object's bucket,
// defaulting to ArrayBuffer when the bucket holds only the victim.
func (g *Generator) bucketSprayType(freed *tracker.AllocationRecord) string {
	for _, member := range g.tracker.GetAllocationsInBucket(freed.Bucket) {
		if member.ID != freed.ID {
			return member.Type
		}
	}
	return defaultSprayType
}
