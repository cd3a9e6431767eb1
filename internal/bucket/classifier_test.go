package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"negative size", -5, 0},
		{"zero size", 0, 0},
		{"one byte", 1, 8},
		{"exact small class", 8, 8},
		{"just over class boundary", 9, 16},
		{"mid table", 100, 112},
		{"table gap rounds up", 161, 192},
		{"largest small class", 1024, 1024},
		{"first medium size", 1025, 1152},
		{"exact medium multiple", 2048, 2048},
		{"medium rounds to 128", 2049, 2176},
		{"largest medium size", 4096, 4096},
		{"first large size", 4097, 8192},
		{"large rounds to 4096", 10000, 12288},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.size))
		})
	}
}

func TestClassify_SmallSizesAlwaysCovered(t *testing.T) {
	// Every size from 1 to 1024 must map to the minimal table entry that
	// can hold it.
	for size := 1; size <= 1024; size++ {
		got := Classify(size)
		assert.GreaterOrEqual(t, got, size, "bucket must hold the request")

		// No smaller table entry may satisfy the request.
		for _, class := range SmallClasses() {
			if class >= size {
				assert.Equal(t, class, got, "size %d must map to minimal class", size)
				break
			}
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for _, size := range []int{-1, 0, 7, 64, 777, 1025, 5000} {
		assert.Equal(t, Classify(size), Classify(size))
	}
}

func TestSmallClasses_ReturnsCopy(t *testing.T) {
	classes := SmallClasses()
	assert.Len(t, classes, 26)
	assert.Equal(t, 8, classes[0])
	assert.Equal(t, 1024, classes[len(classes)-1])

	classes[0] = 999
	assert.Equal(t, 8, SmallClasses()[0], "mutating the copy must not affect the table")
}
