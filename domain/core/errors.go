package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data conditions: the affected station or snapshot is dropped, the batch continues
	ErrInsufficientData       = errors.New("insufficient data for analysis")
	ErrInsufficientPopulation = errors.New("insufficient station population for clustering")

	// Configuration errors: caller mistakes, fatal for the requested operation
	ErrUnsupportedK          = errors.New("unsupported cluster count")
	ErrInvalidInterval       = errors.New("invalid interval bounds")
	ErrInvalidMode           = errors.New("invalid time-series mode")
	ErrUnsupportedResolution = errors.New("unsupported resolution")
	ErrInvalidAlpha          = errors.New("alpha must lie in (0, 1)")

	// Lookup errors
	ErrUnknownStation = errors.New("unknown station")
)

// NewInsufficientDataError annotates ErrInsufficientData with the missing requirement.
func NewInsufficientDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}

func NewUnsupportedKError(k int) error {
	return fmt.Errorf("%w: k=%d (supported: 2, 3, 4)", ErrUnsupportedK, k)
}

func NewUnknownStationError(station string) error {
	return fmt.Errorf("%w: %s", ErrUnknownStation, station)
}

// IsDataCondition reports whether err describes missing data rather than a caller mistake.
func IsDataCondition(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrInsufficientPopulation)
}
