package strategy

// Approach tags the overall shape of an exploitation plan.
type Approach string

const (
	ApproachPrecisePlacement Approach = "precise_placement"
	ApproachSpray            Approach = "spray"
	ApproachControlledReuse  Approach = "controlled_reuse"
	ApproachMassSpray        Approach = "mass_spray"
	ApproachSizeLarger       Approach = "size_mismatch_larger"
	ApproachSizeSmaller      Approach = "size_mismatch_smaller"
	ApproachFieldMisread     Approach = "field_misinterpretation"
	ApproachGeneric          Approach = "spray_and_pray"
)

// String returns the string representation of the approach.
func (a Approach) String() string {
	return string(a)
}

// PhaseKind tags the role a phase plays within a plan.
type PhaseKind string

const (
	PhasePreparation  PhaseKind = "preparation"
	PhaseAllocation   PhaseKind = "allocation"
	PhaseFree         PhaseKind = "free"
	PhaseSpray        PhaseKind = "spray"
	PhaseTrigger      PhaseKind = "trigger"
	PhaseExploitation PhaseKind = "exploitation"
	PhaseScan         PhaseKind = "scan"
)

// String returns the string representation of the phase kind.
func (k PhaseKind) String() string {
	return string(k)
}

// Phase is one ordered step of an exploitation plan. The kind, the
// description semantics, and the ordering are the reproducible contract;
// the technique artifact is illustrative text that the core never parses
// or executes.
type Phase struct {
	Kind        PhaseKind `json:"kind" yaml:"kind"`
	Description string    `json:"description" yaml:"description"`
	Technique   string    `json:"technique" yaml:"technique"`
}

// Plan is a derived exploitation strategy for one simulated bug. Plans are
// never persisted; callers regenerate them from current heap state.
type Plan struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	Approach     Approach `json:"approach" yaml:"approach"`
	TargetBucket int      `json:"target_bucket,omitempty" yaml:"target_bucket,omitempty"`
	TargetTypes  []string `json:"target_types,omitempty" yaml:"target_types,omitempty"`
	Phases       []Phase  `json:"phases" yaml:"phases"`
}
