package strategy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/tracker"
	"github.com/zero-day-ai/heapsim/internal/types"
)

func newGen(t *testing.T) (*Generator, *bug.Simulator, *tracker.Tracker) {
	t.Helper()
	tr := tracker.New()
	sim := bug.NewSimulator(tr)
	return NewGenerator(tr, sim), sim, tr
}

func phaseKinds(plan *Plan) []PhaseKind {
	kinds := make([]PhaseKind, len(plan.Phases))
	for i, phase := range plan.Phases {
		kinds[i] = phase.Kind
	}
	return kinds
}

func TestGenerateStrategyForBug_UnknownBug(t *testing.T) {
	gen, _, _ := newGen(t)

	_, err := gen.GenerateStrategyForBug(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.BUG_NOT_FOUND, "")))
}

func TestOverflowPlan_PrecisePlacementWithCriticalNeighbor(t *testing.T) {
	gen, sim, tr := newGen(t)

	source := tr.RecordAllocation(64, "String", nil)
	tr.RecordAllocation(64, "Widget", nil)   // non-critical candidate
	tr.RecordAllocation(64, "Function", nil) // critical candidate wins

	rec, err := sim.SimulateOverflow(source, 8)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, ApproachPrecisePlacement, plan.Approach)
	assert.Equal(t, 64, plan.TargetBucket)
	assert.Equal(t, []string{"Function"}, plan.TargetTypes)
	assert.Equal(t, []PhaseKind{
		PhasePreparation, PhaseAllocation, PhaseAllocation, PhaseTrigger, PhaseExploitation,
	}, phaseKinds(plan))

	for _, phase := range plan.Phases {
		assert.NotEmpty(t, phase.Description)
		assert.NotEmpty(t, phase.Technique, "every phase carries a technique artifact")
	}
}

func TestOverflowPlan_FallsBackToNonCriticalNeighbor(t *testing.T) {
	gen, sim, tr := newGen(t)

	source := tr.RecordAllocation(64, "String", nil)
	tr.RecordAllocation(64, "Widget", nil)

	rec, err := sim.SimulateOverflow(source, 8)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, ApproachPrecisePlacement, plan.Approach)
	assert.Equal(t, []string{"Widget"}, plan.TargetTypes)
}

func TestOverflowPlan_FreedNeighborsDoNotCount(t *testing.T) {
	gen, sim, tr := newGen(t)

	source := tr.RecordAllocation(64, "String", nil)
	gone := tr.RecordAllocation(64, "Function", nil)
	require.NoError(t, tr.RecordDeallocation(gone))

	rec, err := sim.SimulateOverflow(source, 8)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, ApproachSpray, plan.Approach, "a freed neighbor is not a placement target")
}

func TestOverflowPlan_SprayUsesPreferenceOrder(t *testing.T) {
	gen, sim, tr := newGen(t)

	// Uint8Array outranks Object in the preference table even though
	// Object was allocated first; neither lands in the source bucket, so
	// the plan must spray.
	tr.RecordAllocation(2000, "Object", nil)
	tr.RecordAllocation(3000, "Uint8Array", nil)
	source := tr.RecordAllocation(64, "String", nil)

	rec, err := sim.SimulateOverflow(source, 8)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, ApproachSpray, plan.Approach)
	assert.Equal(t, []string{"Uint8Array"}, plan.TargetTypes)
	assert.Equal(t, []PhaseKind{
		PhaseSpray, PhaseAllocation, PhaseSpray, PhaseTrigger, PhaseExploitation,
	}, phaseKinds(plan))
}

func TestOverflowPlan_SprayDefaultsToArrayBuffer(t *testing.T) {
	gen, sim, tr := newGen(t)

	source := tr.RecordAllocation(64, "String", nil)

	rec, err := sim.SimulateOverflow(source, 8)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, ApproachSpray, plan.Approach)
	assert.Equal(t, []string{"ArrayBuffer"}, plan.TargetTypes)
}

func TestUafPlan_ControlledReusePrefersCriticalType(t *testing.T) {
	gen, sim, tr := newGen(t)

	victim := tr.RecordAllocation(64, "Object", nil)
	tr.RecordAllocation(64, "Widget", nil)
	tr.RecordAllocation(64, "Widget", nil)
	tr.RecordAllocation(64, "ArrayBuffer", nil)
	require.NoError(t, tr.RecordDeallocation(victim))

	rec, err := sim.SimulateUseAfterFree(victim)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, ApproachControlledReuse, plan.Approach)
	assert.Equal(t, []string{"ArrayBuffer"}, plan.TargetTypes)
	assert.Equal(t, []PhaseKind{
		PhaseAllocation, PhaseFree, PhaseAllocation, PhaseTrigger, PhaseExploitation,
	}, phaseKinds(plan))
}

func TestUafPlan_ControlledReuseMostFrequentType(t *testing.T) {
	gen, sim, tr := newGen(t)

	victim := tr.RecordAllocation(64, "Object", nil)
	tr.RecordAllocation(64, "Widget", nil)
	tr.RecordAllocation(64, "Gadget", nil)
	tr.RecordAllocation(64, "Gadget", nil)
	require.NoError(t, tr.RecordDeallocation(victim))

	rec, err := sim.SimulateUseAfterFree(victim)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, ApproachControlledReuse, plan.Approach)
	assert.Equal(t, []string{"Gadget"}, plan.TargetTypes)
}

func TestUafPlan_MassSprayWhenBucketIsBare(t *testing.T) {
	gen, sim, tr := newGen(t)

	victim := tr.RecordAllocation(64, "Object", nil)
	require.NoError(t, tr.RecordDeallocation(victim))

	rec, err := sim.SimulateUseAfterFree(victim)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, ApproachMassSpray, plan.Approach)
	assert.Equal(t, []string{"ArrayBuffer"}, plan.TargetTypes)
	assert.Equal(t, []PhaseKind{
		PhaseAllocation, PhaseFree, PhaseSpray, PhaseTrigger, PhaseExploitation,
	}, phaseKinds(plan))
}

func TestConfusionPlan_Branches(t *testing.T) {
	tests := []struct {
		name         string
		sourceSize   int
		exampleSize  int
		hasExample   bool
		wantApproach Approach
	}{
		{"source larger", 128, 64, true, ApproachSizeLarger},
		{"source smaller", 32, 64, true, ApproachSizeSmaller},
		{"same size", 64, 64, true, ApproachFieldMisread},
		{"no example defaults to field misread", 64, 0, false, ApproachFieldMisread},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, sim, tr := newGen(t)

			source := tr.RecordAllocation(tt.sourceSize, "Object", nil)
			if tt.hasExample {
				tr.RecordAllocation(tt.exampleSize, "Function", nil)
			}

			rec, err := sim.SimulateTypeConfusion(source, "Function")
			require.NoError(t, err)

			plan, err := gen.GenerateStrategyForBug(rec.ID)
			require.NoError(t, err)

			assert.Equal(t, tt.wantApproach, plan.Approach)
			assert.Equal(t, []string{"Function"}, plan.TargetTypes)
			assert.Equal(t, []PhaseKind{
				PhasePreparation, PhaseTrigger, PhaseExploitation,
			}, phaseKinds(plan))
		})
	}
}

func TestGenerateExploitTemplate(t *testing.T) {
	gen, sim, tr := newGen(t)

	source := tr.RecordAllocation(64, "String", nil)
	tr.RecordAllocation(64, "Function", nil)

	rec, err := sim.SimulateOverflow(source, 8)
	require.NoError(t, err)

	doc, err := gen.GenerateExploitTemplate(rec.ID)
	require.NoError(t, err)

	assert.Contains(t, doc, "Exploitation walkthrough")
	assert.Contains(t, doc, "Strategy: Precise placement overflow (precise_placement)")
	assert.Contains(t, doc, "Phase 1 [preparation]")
	assert.Contains(t, doc, "Phase 5 [exploitation]")
	assert.Contains(t, doc, "End of walkthrough")

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)
	for _, phase := range plan.Phases {
		assert.Contains(t, doc, phase.Description)
	}
}

func TestGenerateExploitTemplate_PropagatesErrors(t *testing.T) {
	gen, _, _ := newGen(t)

	_, err := gen.GenerateExploitTemplate(99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.BUG_NOT_FOUND, "")))
}

func TestPlansAreDerivedFromLiveState(t *testing.T) {
	gen, sim, tr := newGen(t)

	source := tr.RecordAllocation(64, "String", nil)
	rec, err := sim.SimulateOverflow(source, 8)
	require.NoError(t, err)

	plan, err := gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, ApproachSpray, plan.Approach)

	// A critical neighbor allocated after the simulation flips the next
	// generated plan to precise placement.
	tr.RecordAllocation(64, "Function", nil)

	plan, err = gen.GenerateStrategyForBug(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, ApproachPrecisePlacement, plan.Approach)
}
