package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrNoFeatures        = errors.New("no features selected for prediction")
	ErrMissingQueryValue = errors.New("missing query value")
	ErrUnknownFeature    = errors.New("unknown feature")

	// Data errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrInvalidDataset   = errors.New("invalid dataset")
)

// NewMissingQueryValueError names the selected feature that has no usable query value
func NewMissingQueryValueError(feature FeatureKey) error {
	return fmt.Errorf("%w for feature %s", ErrMissingQueryValue, feature)
}

// NewUnknownFeatureError names a feature key that is not part of the catalog
func NewUnknownFeatureError(feature FeatureKey) error {
	return fmt.Errorf("%w: %s", ErrUnknownFeature, feature)
}

// IsValidationError reports whether err rejects the caller's input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoFeatures) ||
		errors.Is(err, ErrMissingQueryValue) ||
		errors.Is(err, ErrUnknownFeature)
}

// IsDataError reports whether err is caused by the dataset rather than the request
func IsDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInvalidDataset)
}
