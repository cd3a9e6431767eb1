package bug

import "github.com/zero-day-ai/heapsim/internal/types"

// Mitigation is one defensive recommendation from the fixed per-kind
// catalog.
type Mitigation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var overflowMitigations = []Mitigation{
	{
		Title:       "Use bounded operations",
		Description: "Replace raw writes with length-checked equivalents so writes cannot pass the allocation boundary.",
	},
	{
		Title:       "Enable bounds checking",
		Description: "Compile hot paths with bounds-checked accessors or sanitizer instrumentation to catch out-of-range writes early.",
	},
	{
		Title:       "Prefer safe containers",
		Description: "Store variable-length data in containers that own their capacity instead of raw slabs.",
	},
}

var uafMitigations = []Mitigation{
	{
		Title:       "Nullify pointers after free",
		Description: "Clear every reference when an object is released so dangling access faults instead of aliasing reused memory.",
	},
	{
		Title:       "Adopt smart pointers",
		Description: "Use reference-counted or owned pointers so lifetime ends exactly when the last holder drops.",
	},
	{
		Title:       "Quarantine freed slots",
		Description: "Delay reuse of freed slots so stale references are detected before an attacker can reclaim the memory.",
	},
}

var confusionMitigations = []Mitigation{
	{
		Title:       "Check types at runtime",
		Description: "Validate the dynamic type before any cast that crosses a trust boundary.",
	},
	{
		Title:       "Use safe interfaces",
		Description: "Route polymorphic access through interfaces that cannot be bypassed with raw casts.",
	},
	{
		Title:       "Validate object metadata",
		Description: "Verify type metadata integrity before trusting layout assumptions derived from it.",
	},
}

var unknownMitigations = []Mitigation{
	{
		Title:       "Fuzz the allocation paths",
		Description: "Unclassified bugs are best characterized by fuzzing the affected interface until the failure mode is understood.",
	},
}

var genericMitigation = Mitigation{
	Title:       "Deploy platform exploit mitigations",
	Description: "Keep ASLR, DEP/NX, and CFI enabled; they raise the cost of every heap exploitation technique.",
}

var overflowLayoutMitigation = Mitigation{
	Title:       "Randomize heap layout",
	Description: "Randomized slot selection within buckets breaks the adjacency assumptions a severe overflow depends on.",
}

// GenerateMitigations returns the ordered mitigation catalog for the given
// bug: the per-kind entries, the always-appended generic platform entry,
// and, for high or critical overflows, the heap layout randomization entry.
func (s *Simulator) GenerateMitigations(bugID int64) ([]Mitigation, error) {
	rec, ok := s.GetBug(bugID)
	if !ok {
		return nil, types.NewErrorf(types.BUG_NOT_FOUND, "no bug with ID %d", bugID)
	}

	var out []Mitigation
	switch rec.Kind {
	case KindOverflow:
		out = append(out, overflowMitigations...)
	case KindUseAfterFree:
		out = append(out, uafMitigations...)
	case KindTypeConfusion:
		out = append(out, confusionMitigations...)
	default:
		out = append(out, unknownMitigations...)
	}

	out = append(out, genericMitigation)

	if rec.Kind == KindOverflow && rec.Impact.Severity.AtLeast(SeverityHigh) {
		out = append(out, overflowLayoutMitigation)
	}

	return out, nil
}
