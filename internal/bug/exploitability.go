package bug

import (
	"github.com/zero-day-ai/heapsim/internal/bucket"
	"github.com/zero-day-ai/heapsim/internal/types"
)

// Exploitability score deltas. These are fixed heuristic constants with no
// derivation from first principles; their exact values are the testable
// contract and must not be tuned.
const (
	scoreOverflowCriticalTarget = 30
	scoreOverflowSmall          = 20
	scoreOverflowModerate       = 10
	scoreOverflowLargePenalty   = -10
	scoreOverflowNoTarget       = -20

	scoreUafCriticalReuser  = 30
	scoreUafSameTypeReuser  = 15
	scoreUafTypeMismatch    = -10
	scoreUafNoReuser        = -15

	scoreConfusionCriticalType = 25
	scoreConfusionSourceLarger = 20
	scoreConfusionNoExample    = -10

	scoreComplexHeapBonus = 10

	smallOverflowBytes    = 8
	moderateOverflowBytes = 64
	complexHeapThreshold  = 100

	exploitabilityHighScore   = 40
	exploitabilityMediumScore = 20
)

// ExploitabilityTier is the overall rating derived from the score.
type ExploitabilityTier string

const (
	TierLow    ExploitabilityTier = "low"
	TierMedium ExploitabilityTier = "medium"
	TierHigh   ExploitabilityTier = "high"
)

// Exploitability is the result of the fixed-rule scoring heuristic.
// Factors raise the score, difficulties lower it; the overall tier comes
// from fixed score thresholds.
type Exploitability struct {
	Overall      ExploitabilityTier `json:"overall"`
	Factors      []string           `json:"factors"`
	Difficulties []string           `json:"difficulties"`
	Score        int                `json:"score"`
}

// AssessExploitability scores how workable the given bug is, using
// per-kind fixed point deltas plus a flat bonus on a sufficiently complex
// heap. This is a teaching heuristic, not a formal analysis.
func (s *Simulator) AssessExploitability(bugID int64) (*Exploitability, error) {
	rec, ok := s.GetBug(bugID)
	if !ok {
		return nil, types.NewErrorf(types.BUG_NOT_FOUND, "no bug with ID %d", bugID)
	}

	result := &Exploitability{
		Factors:      []string{},
		Difficulties: []string{},
	}

	switch rec.Kind {
	case KindOverflow:
		s.scoreOverflow(rec, result)
	case KindUseAfterFree:
		s.scoreUseAfterFree(rec, result)
	case KindTypeConfusion:
		s.scoreTypeConfusion(rec, result)
	}

	if s.tracker.Counters().TotalAllocations > complexHeapThreshold {
		result.Score += scoreComplexHeapBonus
		result.Factors = append(result.Factors, "complex heap provides grooming opportunities")
	}

	switch {
	case result.Score >= exploitabilityHighScore:
		result.Overall = TierHigh
	case result.Score >= exploitabilityMediumScore:
		result.Overall = TierMedium
	default:
		result.Overall = TierLow
	}

	return result, nil
}

func (s *Simulator) scoreOverflow(rec *Record, result *Exploitability) {
	if rec.Impact.CorruptedID != nil {
		if target, ok := s.tracker.GetAllocation(*rec.Impact.CorruptedID); ok {
			if bucket.IsCriticalType(target.Type) {
				result.Score += scoreOverflowCriticalTarget
				result.Factors = append(result.Factors, "corrupted target is a critical type")
			}
		}
	} else {
		result.Score += scoreOverflowNoTarget
		result.Difficulties = append(result.Difficulties, "no adjacent target to corrupt")
	}

	switch {
	case rec.OverflowSize <= smallOverflowBytes:
		result.Score += scoreOverflowSmall
		result.Factors = append(result.Factors, "small overflow is precisely controllable")
	case rec.OverflowSize <= moderateOverflowBytes:
		result.Score += scoreOverflowModerate
		result.Factors = append(result.Factors, "moderate overflow is still controllable")
	default:
		result.Score += scoreOverflowLargePenalty
		result.Difficulties = append(result.Difficulties, "large overflow risks collateral corruption")
	}
}

func (s *Simulator) scoreUseAfterFree(rec *Record, result *Exploitability) {
	if rec.Impact.ReuserID == nil {
		result.Score += scoreUafNoReuser
		result.Difficulties = append(result.Difficulties, "no reuse observed; slot must be claimed first")
		return
	}

	reuser, ok := s.tracker.GetAllocation(*rec.Impact.ReuserID)
	if !ok {
		result.Score += scoreUafNoReuser
		result.Difficulties = append(result.Difficulties, "predicted reuser no longer tracked")
		return
	}

	if bucket.IsCriticalType(reuser.Type) {
		result.Score += scoreUafCriticalReuser
		result.Factors = append(result.Factors, "freed slot reused by a critical type")
	}

	freed, ok := s.tracker.GetAllocation(rec.SourceID)
	if ok && freed.Type == reuser.Type {
		result.Score += scoreUafSameTypeReuser
		result.Factors = append(result.Factors, "reuser type matches the freed type")
	} else {
		result.Score += scoreUafTypeMismatch
		result.Difficulties = append(result.Difficulties, "reuser type differs from the freed type")
	}
}

func (s *Simulator) scoreTypeConfusion(rec *Record, result *Exploitability) {
	if bucket.IsCriticalType(rec.WrongType) {
		result.Score += scoreConfusionCriticalType
		result.Factors = append(result.Factors, "confused-as type is a critical type")
	}

	if rec.Impact.ExampleID == nil {
		result.Score += scoreConfusionNoExample
		result.Difficulties = append(result.Difficulties, "no live example of the confused type to model")
		return
	}

	if rec.SizeDiff > 0 {
		result.Score += scoreConfusionSourceLarger
		result.Factors = append(result.Factors, "source larger than the confused type: out-of-bounds access")
	}
}
