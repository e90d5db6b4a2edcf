package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Lookup errors
	ErrNotFound       = errors.New("resource not found")
	ErrMetricNotFound = fmt.Errorf("%w: metric", ErrNotFound)
	ErrCohortNotFound = fmt.Errorf("%w: cohort", ErrNotFound)

	// Statistical precondition errors
	ErrEmptySample         = errors.New("no valid observations in sample")
	ErrInsufficientData    = errors.New("insufficient data for analysis")
	ErrDegenerateReference = errors.New("zero-variance reference baseline")
	ErrDegenerateVariance  = errors.New("zero variance in both samples")

	// Ingestion errors
	ErrMalformedRow     = errors.New("malformed data row")
	ErrUnsupportedInput = errors.New("unsupported input format")
)

// Error constructors with context

// NewEmptySampleError reports that a required sample had no valid values
// left after missing-value cleaning.
func NewEmptySampleError(label string) error {
	return fmt.Errorf("%w: %s", ErrEmptySample, label)
}

// NewInsufficientDataError names the deficient sample and the statistical
// minimum it failed to meet.
func NewInsufficientDataError(label string, n, required int) error {
	return fmt.Errorf("%w: %s has n=%d, need n>=%d", ErrInsufficientData, label, n, required)
}

// NewDegenerateReferenceError reports an unusable z-score baseline.
func NewDegenerateReferenceError(refStd float64) error {
	return fmt.Errorf("%w: reference std %v", ErrDegenerateReference, refStd)
}

// NewDegenerateVarianceError reports that a two-sample test cannot be run
// because neither group carries any variance.
func NewDegenerateVarianceError(labelA, labelB string) error {
	return fmt.Errorf("%w: %s vs %s", ErrDegenerateVariance, labelA, labelB)
}

func NewMalformedRowError(line int, reason string) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedRow, line, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPreconditionError reports whether err is a deterministic statistical
// precondition failure rather than a transient fault. These are never
// retried and never substituted with default values.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrEmptySample) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateReference) ||
		errors.Is(err, ErrDegenerateVariance)
}

func IsIngestionError(err error) bool {
	return errors.Is(err, ErrMalformedRow) ||
		errors.Is(err, ErrUnsupportedInput)
}
