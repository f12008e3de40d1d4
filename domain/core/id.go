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

// Domain-specific identifier types
type (
	DatasetID  ID
	FeatureKey string
	ClassLabel string
)

// NewDatasetID creates an identifier for a freshly loaded dataset
func NewDatasetID() DatasetID { return DatasetID(NewID()) }

func (id DatasetID) String() string { return ID(id).String() }
func (k FeatureKey) String() string { return string(k) }
func (c ClassLabel) String() string { return string(c) }
func (c ClassLabel) IsEmpty() bool  { return strings.TrimSpace(string(c)) == "" }

// ParseFeatureKey parses a string into a FeatureKey
func ParseFeatureKey(s string) (FeatureKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("feature key cannot be empty")
	}
	return FeatureKey(s), nil
}

// ParseClassLabel parses a string into a ClassLabel
func ParseClassLabel(s string) (ClassLabel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("class label cannot be empty")
	}
	return ClassLabel(s), nil
}
