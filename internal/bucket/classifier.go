// Package bucket models the size-class strategy of a slab-style allocator.
// It maps requested allocation sizes to canonical bucket sizes and
// classifies object type tags into the categories the bug heuristics
// care about. Everything here is pure and stateless.
package bucket

// smallClasses is the fixed table of small-object size classes, modeled
// after a real browser allocator. The gaps between entries are part of the
// contract and must not be regularized.
var smallClasses = []int{
	8, 16, 32, 48, 64, 80, 96, 112, 128, 144, 160,
	192, 224, 256, 320, 384, 448, 512, 576, 640,
	704, 768, 832, 896, 960, 1024,
}

const (
	smallMax      = 1024
	mediumMax     = 4096
	mediumQuantum = 128
	largeQuantum  = 4096
)

// Classify maps a requested size in bytes to its canonical bucket size.
//
// Non-positive sizes land in the degenerate bucket 0. Sizes up to 1024
// round up to the smallest matching small-object class; sizes up to 4096
// round up to the next multiple of 128; anything larger rounds up to the
// next multiple of 4096.
func Classify(size int) int {
	switch {
	case size <= 0:
		return 0
	case size <= smallMax:
		for _, class := range smallClasses {
			if class >= size {
				return class
			}
		}
		// Unreachable: the last table entry equals smallMax.
		return smallMax
	case size <= mediumMax:
		return roundUp(size, mediumQuantum)
	default:
		return roundUp(size, largeQuantum)
	}
}

func roundUp(size, quantum int) int {
	return ((size + quantum - 1) / quantum) * quantum
}

// SmallClasses returns a copy of the small-object size class table.
// Exposed for presentation layers that render the bucket layout.
func SmallClasses() []int {
	out := make([]int, len(smallClasses))
	copy(out, smallClasses)
	return out
}
