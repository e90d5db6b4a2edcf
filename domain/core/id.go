package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// ParticipantID identifies one study participant.
	ParticipantID ID
	// MetricKey names one biometric measurement column (e.g. "minutes_asleep").
	MetricKey ID
	// AnalysisID identifies one analysis report.
	AnalysisID ID
)

func (id ParticipantID) String() string { return ID(id).String() }
func (id MetricKey) String() string     { return ID(id).String() }
func (id AnalysisID) String() string    { return ID(id).String() }

// NewAnalysisID creates a fresh report identifier.
func NewAnalysisID() AnalysisID {
	return AnalysisID(NewID())
}

// ParseMetricKey parses a string into MetricKey
func ParseMetricKey(s string) (MetricKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("metric key cannot be empty")
	}
	return MetricKey(strings.TrimSpace(s)), nil
}

// ParseParticipantID parses a string into ParticipantID
func ParseParticipantID(s string) (ParticipantID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("participant ID cannot be empty")
	}
	return ParticipantID(strings.TrimSpace(s)), nil
}
