package bucket

import "strings"

// TypeCategory classifies an open-ended object type tag into one of the
// closed categories the severity heuristics reason about.
type TypeCategory string

const (
	// CategoryCritical covers types whose corruption typically yields
	// direct control-flow or arbitrary read/write primitives.
	CategoryCritical TypeCategory = "critical"

	// CategorySensitive covers container types whose corruption commonly
	// yields strong but indirect primitives.
	CategorySensitive TypeCategory = "sensitive"

	// CategoryOther is the catch-all for everything else.
	CategoryOther TypeCategory = "other"
)

// String returns the string representation of the TypeCategory.
func (c TypeCategory) String() string {
	return string(c)
}

// criticalTypes and sensitiveTypes are matched by substring, deliberately:
// a caller-supplied tag like "CustomArrayBufferWrapper" must still count as
// an ArrayBuffer for severity purposes.
var (
	criticalTypes  = []string{"Function", "ArrayBuffer", "WebAssembly", "VTable"}
	sensitiveTypes = []string{"Array", "Object", "Map", "Set"}
)

// CategorizeType maps an arbitrary type tag to its TypeCategory using
// substring matching against the well-known critical and sensitive names.
func CategorizeType(typeName string) TypeCategory {
	if IsCriticalType(typeName) {
		return CategoryCritical
	}
	if IsSensitiveType(typeName) {
		return CategorySensitive
	}
	return CategoryOther
}

// IsCriticalType reports whether the type tag matches any critical name.
func IsCriticalType(typeName string) bool {
	return containsAny(typeName, criticalTypes)
}

// IsSensitiveType reports whether the type tag matches any sensitive name.
// Note that critical names are checked first by CategorizeType; a tag such
// as "ArrayBuffer" contains "Array" but categorizes as critical.
func IsSensitiveType(typeName string) bool {
	return containsAny(typeName, sensitiveTypes)
}

func containsAny(typeName string, names []string) bool {
	for _, name := range names {
		if strings.Contains(typeName, name) {
			return true
		}
	}
	return false
}
