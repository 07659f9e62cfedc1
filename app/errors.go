package app

import (
	"errors"

	"github.com/kilianp07/regcast/core/forecast"
	coremetrics "github.com/kilianp07/regcast/core/metrics"
	"github.com/kilianp07/regcast/dataset"
)

// Outcome classifies the result of a forecast request.
func Outcome(err error) coremetrics.Outcome {
	var (
		noData *forecast.NoDataError
		source *dataset.SourceError
	)
	switch {
	case err == nil:
		return coremetrics.OutcomeOK
	case errors.As(err, &noData):
		return coremetrics.OutcomeNoData
	case forecast.IsInvalidInput(err):
		return coremetrics.OutcomeInvalidInput
	case errors.As(err, &source):
		return coremetrics.OutcomeSourceError
	default:
		return coremetrics.OutcomeError
	}
}
