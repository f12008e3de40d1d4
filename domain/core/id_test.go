package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestNewDatasetID(t *testing.T) {
	a, b := NewDatasetID(), NewDatasetID()
	if a == "" || b == "" {
		t.Fatal("Expected non-empty dataset IDs")
	}
	if a == b {
		t.Errorf("Expected distinct dataset IDs, got %s twice", a)
	}
}

// TestParseFeatureKey tests feature key parsing
func TestParseFeatureKey(t *testing.T) {
	tests := []struct {
		input    string
		expected FeatureKey
		hasError bool
	}{
		{"rainfall", FeatureKey("rainfall"), false},
		{"  ph ", FeatureKey("ph"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseFeatureKey(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestParseClassLabel(t *testing.T) {
	if _, err := ParseClassLabel(" "); err == nil {
		t.Error("Expected error for blank label")
	}
	label, err := ParseClassLabel(" Wheat ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if label != "Wheat" {
		t.Errorf("Expected Wheat, got %q", label)
	}
}

func TestDatasetHashDeterministic(t *testing.T) {
	a := NewDatasetHash([]byte("Wheat,5.99"))
	b := NewDatasetHash([]byte("Wheat,5.99"))
	c := NewDatasetHash([]byte("Rice,5.99"))
	if !Hash(a).Equals(Hash(b)) {
		t.Errorf("Expected identical content to hash identically")
	}
	if Hash(a).Equals(Hash(c)) {
		t.Errorf("Expected different content to hash differently")
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsValidationError(NewMissingQueryValueError("ph")) {
		t.Error("Missing query value should be a validation error")
	}
	if !IsValidationError(NewUnknownFeatureError("soil_color")) {
		t.Error("Unknown feature should be a validation error")
	}
	if !errors.Is(NewMissingQueryValueError("ph"), ErrMissingQueryValue) {
		t.Error("Expected wrapped ErrMissingQueryValue")
	}
	if IsValidationError(ErrInsufficientData) {
		t.Error("Insufficient data is a data error, not a validation error")
	}
	if !IsDataError(ErrInsufficientData) {
		t.Error("Expected ErrInsufficientData to be a data error")
	}
}
