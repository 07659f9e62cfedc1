package forecast

import (
	"errors"
	"fmt"
)

// ErrInvalidHorizon is returned when the target years are empty or not
// strictly increasing.
var ErrInvalidHorizon = errors.New("invalid forecast horizon")

// ErrMisaligned is returned when blended estimates do not cover the same years.
var ErrMisaligned = errors.New("estimates are not aligned")

// NoDataError reports that no observation exists for the requested category.
type NoDataError struct {
	Category string
}

func (e *NoDataError) Error() string {
	return "no data found for the selected category"
}

// InsufficientDataError reports a sample too small for an estimator.
type InsufficientDataError struct {
	Estimator string
	Need      int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d observations, have %d", e.Estimator, e.Need, e.Have)
}

// DuplicateAbscissaError reports two observations sharing the same year.
type DuplicateAbscissaError struct {
	Year int
}

func (e *DuplicateAbscissaError) Error() string {
	return fmt.Sprintf("duplicate observation for year %d", e.Year)
}

// InvalidObservationError reports an observation that cannot be used.
type InvalidObservationError struct {
	Year   int
	Reason string
}

func (e *InvalidObservationError) Error() string {
	return fmt.Sprintf("invalid observation for year %d: %s", e.Year, e.Reason)
}

// NumericOverflowError reports an evaluation that is not representable as a
// count, typically a polynomial extrapolated far outside the sample.
type NumericOverflowError struct {
	Year  int
	Value float64
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("forecast for %d is not representable: %g", e.Year, e.Value)
}

// IsInvalidInput reports whether err stems from unusable observations or an
// invalid horizon rather than from a fault of the caller's environment.
func IsInvalidInput(err error) bool {
	var (
		insufficient *InsufficientDataError
		duplicate    *DuplicateAbscissaError
		invalid      *InvalidObservationError
	)
	return errors.As(err, &insufficient) ||
		errors.As(err, &duplicate) ||
		errors.As(err, &invalid) ||
		errors.Is(err, ErrInvalidHorizon)
}
