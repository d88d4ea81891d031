package data

import "errors"

var (
	// ErrMissingValue is returned by MissingError when a cell is empty or not a number.
	ErrMissingValue = errors.New("missing value")
	// ErrNotFitted is returned when a normalizer is used before Fit.
	ErrNotFitted = errors.New("normalizer not fitted")
	// ErrInvalidRatio is returned for a train ratio outside (0, 1).
	ErrInvalidRatio = errors.New("train ratio must be in (0, 1)")
	// ErrEmptyData is returned when there are no rows to work with.
	ErrEmptyData = errors.New("empty data")
)
