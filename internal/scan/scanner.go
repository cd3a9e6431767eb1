// Package scan is the forensic byte-pattern utility. The demo layer
// manufactures raw buffers stamped with allocation markers; the scanner
// finds those markers in arbitrary buffers and correlates them back to
// allocation metadata. It has no dependency on the core beyond the
// metadata handed in.
package scan

import (
	"bytes"
	"encoding/binary"
	"log/slog"

	"github.com/zero-day-ai/heapsim/internal/types"
)

// markerMagic prefixes every marker so unrelated buffer content cannot
// alias an allocation reference by accident.
var markerMagic = []byte{0x48, 0x53, 0x49, 0x4d} // "HSIM"

// markerLen is magic + allocation ID + size, all fixed width.
const markerLen = 4 + 8 + 4

// Target is the allocation metadata the scanner correlates against.
type Target struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

// Match is one marker occurrence found in a scanned buffer.
type Match struct {
	Offset int    `json:"offset"`
	ID     int64  `json:"id"`
	Size   int    `json:"size"`
	Type   string `json:"type,omitempty"`

	// Known reports whether the marker matched one of the targets handed
	// to the scanner, as opposed to a stray marker from an untracked
	// allocation.
	Known bool `json:"known"`
}

// Scanner finds allocation markers in raw buffers.
type Scanner struct {
	logger *slog.Logger
}

// New creates a Scanner.
func New() *Scanner {
	return &Scanner{
		logger: slog.Default().With(slog.String("component", "scan")),
	}
}

// Marker renders the byte pattern that identifies an allocation inside a
// demo buffer.
func Marker(target Target) []byte {
	out := make([]byte, 0, markerLen)
	out = append(out, markerMagic...)
	out = binary.LittleEndian.AppendUint64(out, uint64(target.ID))
	out = binary.LittleEndian.AppendUint32(out, uint32(target.Size))
	return out
}

// Fill stamps the buffer with the target's marker at the start and pads
// the rest with a repeating fill byte derived from the allocation ID.
// Buffers shorter than one marker are rejected.
func (s *Scanner) Fill(buf []byte, target Target) error {
	if len(buf) < markerLen {
		return types.NewErrorf(types.SCAN_BUFFER_EMPTY,
			"buffer of %d bytes cannot hold a %d-byte marker", len(buf), markerLen)
	}

	copy(buf, Marker(target))
	fill := byte(target.ID)
	for i := markerLen; i < len(buf); i++ {
		buf[i] = fill
	}
	return nil
}

// Scan walks the buffer for markers and correlates each against the given
// targets. Markers whose ID is not among the targets are still reported,
// flagged as unknown.
func (s *Scanner) Scan(buf []byte, targets []Target) ([]Match, error) {
	if len(buf) == 0 {
		return nil, types.NewError(types.SCAN_BUFFER_EMPTY, "nothing to scan")
	}

	byID := make(map[int64]Target, len(targets))
	for _, target := range targets {
		byID[target.ID] = target
	}

	var matches []Match
	offset := 0
	for {
		idx := bytes.Index(buf[offset:], markerMagic)
		if idx < 0 {
			break
		}
		pos := offset + idx
		if pos+markerLen > len(buf) {
			break
		}

		id := int64(binary.LittleEndian.Uint64(buf[pos+4:]))
		size := int(binary.LittleEndian.Uint32(buf[pos+12:]))

		match := Match{Offset: pos, ID: id, Size: size}
		if target, ok := byID[id]; ok {
			match.Known = true
			match.Type = target.Type
		}
		matches = append(matches, match)

		offset = pos + markerLen
	}

	s.logger.Debug("scan complete",
		slog.Int("buffer_bytes", len(buf)),
		slog.Int("matches", len(matches)))

	return matches, nil
}
