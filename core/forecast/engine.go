package forecast

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/regcast/core/logger"
	"github.com/kilianp07/regcast/core/model"
)

// Options tunes the engine.
type Options struct {
	// Language selects the method label language ("en" or "id").
	Language string
	// MinBlendSize is the sample size from which the Newton estimate is
	// blended in. Values below MinNewtonSize are raised to MinBlendSize.
	MinBlendSize int
}

// Request describes one forecast.
type Request struct {
	// TargetYear is the first year kept in the returned forecast.
	TargetYear int
	// TargetYears is the full horizon both estimators are evaluated on.
	TargetYears []int
}

// Result is the outcome of a forecast request.
type Result struct {
	Category       string                `json:"vehicleType"`
	TargetYear     int                   `json:"year"`
	Historical     []model.Observation   `json:"historicalData"`
	Forecast       []model.ForecastPoint `json:"predictions"`
	LinearForecast []model.ForecastPoint `json:"linearPredictions"`
	NewtonForecast []model.ForecastPoint `json:"interpolationPredictions,omitempty"`
	Linear         model.LinearFit       `json:"linearRegression"`
	Newton         *NewtonFit            `json:"newtonInterpolation,omitempty"`
	Method         model.Method          `json:"-"`
	MethodLabel    string                `json:"method"`
}

// Engine runs both estimators, blends and filters their output.
type Engine struct {
	opts Options
	log  logger.Logger
}

// NewEngine returns an Engine. A nil logger discards output.
func NewEngine(opts Options, log logger.Logger) *Engine {
	if opts.MinBlendSize < MinNewtonSize {
		opts.MinBlendSize = MinBlendSize
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Engine{opts: opts, log: log}
}

// Forecast produces the blended forecast for s over req.TargetYears and keeps
// the years at or after req.TargetYear. A Newton failure degrades the result
// to the linear trend alone.
func (e *Engine) Forecast(ctx context.Context, s Sample, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s.Len() == 0 {
		return Result{}, &NoDataError{}
	}
	if err := validateHorizon(req.TargetYears); err != nil {
		return Result{}, err
	}

	blend := s.Len() >= e.opts.MinBlendSize
	var (
		lin    LinearEstimate
		nwt    NewtonEstimate
		nwtErr error
		g      errgroup.Group
	)
	g.Go(func() error {
		var err error
		lin, err = Linear(s, req.TargetYears)
		return err
	})
	if blend {
		g.Go(func() error {
			nwt, nwtErr = Newton(s, req.TargetYears)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var est Estimates = LinearOnly{Linear: lin.Points}
	if blend {
		if nwtErr != nil {
			e.log.Warnf("newton interpolation failed, using linear trend only: %v", nwtErr)
			blend = false
		} else {
			est = Blended{Linear: lin.Points, Newton: nwt.Points}
		}
	}
	merged, err := Blend(est)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		TargetYear:     req.TargetYear,
		Historical:     s.Observations(),
		Forecast:       Filter(merged, req.TargetYear),
		LinearForecast: Filter(lin.Points, req.TargetYear),
		Linear:         lin.Fit,
		Method:         est.Method(),
		MethodLabel:    MethodLabel(est.Method(), e.opts.Language),
	}
	if blend {
		fit := nwt.Fit
		res.Newton = &fit
		res.NewtonForecast = Filter(nwt.Points, req.TargetYear)
	}
	e.log.Debugw("forecast computed", map[string]any{
		"sample_size": s.Len(),
		"method":      res.Method.String(),
		"horizon":     len(req.TargetYears),
		"kept":        len(res.Forecast),
	})
	return res, nil
}

func validateHorizon(years []int) error {
	if len(years) == 0 {
		return fmt.Errorf("%w: no target years", ErrInvalidHorizon)
	}
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return fmt.Errorf("%w: %d follows %d", ErrInvalidHorizon, years[i], years[i-1])
		}
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
