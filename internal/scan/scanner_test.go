package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_FillAndScan(t *testing.T) {
	s := New()
	target := Target{ID: 7, Type: "ArrayBuffer", Size: 64}

	buf := make([]byte, 64)
	require.NoError(t, s.Fill(buf, target))

	matches, err := s.Scan(buf, []Target{target})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, 0, matches[0].Offset)
	assert.Equal(t, int64(7), matches[0].ID)
	assert.Equal(t, 64, matches[0].Size)
	assert.Equal(t, "ArrayBuffer", matches[0].Type)
	assert.True(t, matches[0].Known)
}

func TestScanner_FindsMarkersMidBuffer(t *testing.T) {
	s := New()
	target := Target{ID: 3, Type: "Object", Size: 32}

	buf := make([]byte, 128)
	marker := Marker(target)
	copy(buf[40:], marker)
	copy(buf[90:], marker)

	matches, err := s.Scan(buf, []Target{target})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 40, matches[0].Offset)
	assert.Equal(t, 90, matches[1].Offset)
}

func TestScanner_UnknownMarkersAreFlagged(t *testing.T) {
	s := New()

	buf := make([]byte, 64)
	copy(buf, Marker(Target{ID: 99, Size: 16}))

	matches, err := s.Scan(buf, []Target{{ID: 1, Type: "Object", Size: 64}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.False(t, matches[0].Known)
	assert.Equal(t, int64(99), matches[0].ID)
	assert.Empty(t, matches[0].Type)
}

func TestScanner_CleanBufferHasNoMatches(t *testing.T) {
	s := New()

	matches, err := s.Scan(make([]byte, 256), nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestScanner_Errors(t *testing.T) {
	s := New()

	_, err := s.Scan(nil, nil)
	assert.Error(t, err)

	err = s.Fill(make([]byte, 8), Target{ID: 1, Size: 64})
	assert.Error(t, err, "buffer smaller than one marker")
}

func TestScanner_TruncatedMarkerIgnored(t *testing.T) {
	s := New()

	buf := make([]byte, 20)
	marker := Marker(Target{ID: 5, Size: 32})
	copy(buf[10:], marker) // only 10 of 16 bytes fit

	matches, err := s.Scan(buf, nil)
	require.NoError(t, err)
	assert.Empty(t, matches, "a marker cut off by the buffer end does not count")
}
