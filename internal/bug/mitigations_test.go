package bug

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/heapsim/internal/types"
)

func TestGenerateMitigations_UnknownBug(t *testing.T) {
	sim, _ := newSim(t)

	_, err := sim.GenerateMitigations(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.NewError(types.BUG_NOT_FOUND, "")))
}

func TestGenerateMitigations_OverflowLowSeverity(t *testing.T) {
	sim, tr := newSim(t)

	source := tr.RecordAllocation(64, "Widget", nil)
	rec, err := sim.SimulateOverflow(source, 8) // no neighbor, low severity
	require.NoError(t, err)

	mitigations, err := sim.GenerateMitigations(rec.ID)
	require.NoError(t, err)

	// Three overflow entries plus the generic platform entry; no layout
	// randomization for a low-severity overflow.
	require.Len(t, mitigations, 4)
	assert.Equal(t, "Use bounded operations", mitigations[0].Title)
	assert.Equal(t, "Deploy platform exploit mitigations", mitigations[3].Title)
}

func TestGenerateMitigations_SevereOverflowAddsLayoutEntry(t *testing.T) {
	sim, tr := newSim(t)

	source := tr.RecordAllocation(64, "Widget", nil)
	tr.RecordAllocation(64, "Function", nil)

	rec, err := sim.SimulateOverflow(source, 8)
	require.NoError(t, err)
	require.Equal(t, SeverityCritical, rec.Impact.Severity)

	mitigations, err := sim.GenerateMitigations(rec.ID)
	require.NoError(t, err)

	require.Len(t, mitigations, 5)
	assert.Equal(t, "Randomize heap layout", mitigations[4].Title)
}

func TestGenerateMitigations_UseAfterFree(t *testing.T) {
	sim, tr := newSim(t)

	victim := tr.RecordAllocation(64, "Object", nil)
	require.NoError(t, tr.RecordDeallocation(victim))
	time.Sleep(time.Millisecond)
	tr.RecordAllocation(64, "Function", nil)

	rec, err := sim.SimulateUseAfterFree(victim)
	require.NoError(t, err)

	mitigations, err := sim.GenerateMitigations(rec.ID)
	require.NoError(t, err)

	require.Len(t, mitigations, 4)
	assert.Equal(t, "Nullify pointers after free", mitigations[0].Title)
	assert.Equal(t, "Quarantine freed slots", mitigations[2].Title)
	assert.Equal(t, "Deploy platform exploit mitigations", mitigations[3].Title)
}

func TestGenerateMitigations_TypeConfusion(t *testing.T) {
	sim, tr := newSim(t)

	source := tr.RecordAllocation(64, "Object", nil)
	rec, err := sim.SimulateTypeConfusion(source, "Function")
	require.NoError(t, err)

	mitigations, err := sim.GenerateMitigations(rec.ID)
	require.NoError(t, err)

	require.Len(t, mitigations, 4)
	assert.Equal(t, "Check types at runtime", mitigations[0].Title)
	assert.Equal(t, "Deploy platform exploit mitigations", mitigations[3].Title)
}
