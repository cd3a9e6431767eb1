package types

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SessionID is a custom type that wraps a UUID string. It identifies one
// independent simulation session; allocation and bug identifiers inside a
// session are plain monotonically increasing integers, never UUIDs.
type SessionID string

// NewSessionID generates a new UUID v4 and returns it as a SessionID.
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// ParseSessionID parses and validates a string as a UUID.
func ParseSessionID(s string) (SessionID, error) {
	if s == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid UUID format: %w", err)
	}
	return SessionID(parsed.String()), nil
}

// String returns the string representation of the SessionID.
func (id SessionID) String() string {
	return string(id)
}

// IsZero checks if the SessionID is empty.
func (id SessionID) IsZero() bool {
	return id == ""
}

// MarshalJSON implements the json.Marshaler interface.
func (id SessionID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (id *SessionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal session ID: %w", err)
	}
	if s == "" {
		*id = ""
		return nil
	}
	parsed, err := ParseSessionID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
