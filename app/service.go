package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/regcast/config"
	"github.com/kilianp07/regcast/core/forecast"
	corehistory "github.com/kilianp07/regcast/core/history"
	coremetrics "github.com/kilianp07/regcast/core/metrics"
	coremqtt "github.com/kilianp07/regcast/core/mqtt"
	"github.com/kilianp07/regcast/dataset"
	"github.com/kilianp07/regcast/infra/logger"
	"github.com/kilianp07/regcast/internal/eventbus"
)

// Deps groups the collaborators of a Service. Nil fields fall back to no-op
// implementations, except Source which is required.
type Deps struct {
	Source  dataset.Source
	Sink    coremetrics.MetricsSink
	History corehistory.Store
	Bus     *eventbus.Bus[coremetrics.ForecastEvent]
	Logger  logger.Logger
	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Service turns dataset rows into forecasts and records every request.
type Service struct {
	source      dataset.Source
	engine      *forecast.Engine
	horizon     config.ForecastConfig
	allCategory string
	sink        coremetrics.MetricsSink
	history     corehistory.Store
	bus         *eventbus.Bus[coremetrics.ForecastEvent]
	log         logger.Logger
	now         func() time.Time
	newID       func() string

	// set by New for serve mode
	server    config.ServerConfig
	publisher coremqtt.Publisher
	closers   []func() error
}

// NewService builds a Service around deps. fc should carry its defaults.
func NewService(fc config.ForecastConfig, allCategory string, deps Deps) (*Service, error) {
	if deps.Source == nil {
		return nil, errors.New("app: dataset source is required")
	}
	s := &Service{
		source:      deps.Source,
		horizon:     fc,
		allCategory: allCategory,
		sink:        deps.Sink,
		history:     deps.History,
		bus:         deps.Bus,
		log:         deps.Logger,
		now:         deps.Now,
		newID:       deps.NewID,
	}
	if s.sink == nil {
		s.sink = coremetrics.NopSink{}
	}
	if s.history == nil {
		s.history = corehistory.NopStore{}
	}
	if s.bus == nil {
		s.bus = eventbus.New[coremetrics.ForecastEvent](0)
	}
	if s.log == nil {
		s.log = logger.NopLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	s.engine = forecast.NewEngine(fc.EngineOptions(), s.log)
	return s, nil
}

// Bus returns the bus forecast events are published on.
func (s *Service) Bus() *eventbus.Bus[coremetrics.ForecastEvent] { return s.bus }

// Language returns the configured label language.
func (s *Service) Language() string { return s.horizon.Language }

// Predict forecasts category from the configured horizon and keeps the years
// at or after targetYear. Every call is reported to the metrics sink, the
// history store and the event bus, failures included.
func (s *Service) Predict(ctx context.Context, category string, targetYear int) (forecast.Result, error) {
	start := s.now()
	ev := coremetrics.ForecastEvent{
		RequestID:  s.newID(),
		Category:   category,
		TargetYear: targetYear,
		Time:       start,
	}
	res, n, err := s.predict(ctx, category, targetYear)
	ev.SampleSize = n
	ev.Duration = s.now().Sub(start)
	ev.Outcome = Outcome(err)
	if err == nil {
		ev.Method = res.Method
		ev.Fit = res.Linear
		ev.Points = res.Forecast
	}
	s.record(ctx, ev, err)
	return res, err
}

func (s *Service) predict(ctx context.Context, category string, targetYear int) (forecast.Result, int, error) {
	recs, err := s.source.Records(ctx)
	if err != nil {
		return forecast.Result{}, 0, &dataset.SourceError{Err: err}
	}
	sample, err := forecast.NewSample(dataset.Observations(recs, category, s.allCategory))
	if err != nil {
		var noData *forecast.NoDataError
		if errors.As(err, &noData) {
			noData.Category = category
		}
		return forecast.Result{}, 0, err
	}
	res, err := s.engine.Forecast(ctx, sample, forecast.Request{
		TargetYear:  targetYear,
		TargetYears: s.horizon.Horizon(sample.Last()),
	})
	if err != nil {
		return forecast.Result{}, sample.Len(), err
	}
	res.Category = category
	return res, sample.Len(), nil
}

func (s *Service) record(ctx context.Context, ev coremetrics.ForecastEvent, err error) {
	if rerr := s.sink.RecordForecast(ev); rerr != nil {
		s.log.Warnf("record forecast %s: %v", ev.RequestID, rerr)
	}
	rec := corehistory.Record{
		ID:         ev.RequestID,
		Timestamp:  ev.Time,
		Category:   ev.Category,
		TargetYear: ev.TargetYear,
		SampleSize: ev.SampleSize,
		Fit:        ev.Fit,
		Forecast:   ev.Points,
	}
	if err != nil {
		rec.Error = err.Error()
	} else {
		rec.Method = ev.Method.String()
	}
	if herr := s.history.Append(context.WithoutCancel(ctx), rec); herr != nil {
		s.log.Warnf("append history %s: %v", ev.RequestID, herr)
	}
	s.bus.Publish(ev)
	s.log.Debugw("forecast served", map[string]any{
		"request_id":  ev.RequestID,
		"category":    ev.Category,
		"target_year": ev.TargetYear,
		"outcome":     string(ev.Outcome),
		"duration_ms": ev.Duration.Milliseconds(),
	})
}

// Categories lists the categories present in the dataset, preceded by the
// aggregate category when one is configured.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	recs, err := s.source.Records(ctx)
	if err != nil {
		return nil, &dataset.SourceError{Err: err}
	}
	cats := dataset.Categories(recs)
	if s.allCategory == "" || len(cats) == 0 {
		return cats, nil
	}
	return append([]string{s.allCategory}, cats...), nil
}

// History returns past forecast runs, newest first.
func (s *Service) History(ctx context.Context, q corehistory.Query) ([]corehistory.Record, error) {
	return s.history.Query(ctx, q)
}

// Close releases the resources opened by New, in reverse order.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
