package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	forecastapi "github.com/kilianp07/regcast/api/forecast"
	"github.com/kilianp07/regcast/config"
	coremetrics "github.com/kilianp07/regcast/core/metrics"
	coremon "github.com/kilianp07/regcast/core/monitoring"
	"github.com/kilianp07/regcast/dataset"
	infrahistory "github.com/kilianp07/regcast/infra/history"
	"github.com/kilianp07/regcast/infra/logger"
	"github.com/kilianp07/regcast/infra/metrics"
	"github.com/kilianp07/regcast/infra/monitoring"
	"github.com/kilianp07/regcast/infra/mqtt"
	"github.com/kilianp07/regcast/internal/eventbus"
)

// New wires a Service from the configuration: logging, monitoring, metrics
// sinks, dataset client, history store and, when enabled, the MQTT publisher.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	var opts []dataset.Option
	if rec, ok := sink.(coremetrics.DatasetRecorder); ok {
		opts = append(opts, dataset.WithRecorder(rec))
	}
	source := dataset.NewClient(cfg.Dataset, logger.New("dataset"), opts...)

	store, err := infrahistory.Open(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	svc, err := NewService(cfg.Forecast, cfg.Dataset.AllCategory, Deps{
		Source:  source,
		Sink:    sink,
		History: store,
		Bus:     eventbus.New[coremetrics.ForecastEvent](0),
		Logger:  log,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	svc.server = cfg.Server
	svc.closers = append(svc.closers, store.Close)
	if closer, ok := sink.(interface{ Close() }); ok {
		svc.closers = append(svc.closers, func() error { closer.Close(); return nil })
	}
	svc.closers = append(svc.closers, func() error {
		coremon.Flush(2 * time.Second)
		return nil
	})

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
		svc.closers = append(svc.closers, func() error { pub.Disconnect(); return nil })
	}
	return svc, nil
}

// Handler returns the HTTP API of the service.
func (s *Service) Handler() http.Handler {
	return forecastapi.NewHandler(s, s.Language(), logger.New("api")).Routes()
}

// Run serves the HTTP API, the Prometheus endpoint and the MQTT notifier
// until ctx is canceled or one of them fails.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              s.server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.server.WriteTimeoutSeconds) * time.Second,
	}
	g.Go(func() error {
		s.log.Infof("listening on %s", s.server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if s.server.MetricsAddr != "" {
		g.Go(func() error {
			defer coremon.Recover()
			return metrics.StartPromServer(ctx, s.server.MetricsAddr)
		})
	}
	if s.publisher != nil {
		n := mqtt.NewNotifier(s.publisher, s.bus, logger.New("mqtt_notifier"))
		g.Go(func() error {
			defer coremon.Recover()
			return n.Run(ctx)
		})
	}
	return g.Wait()
}
