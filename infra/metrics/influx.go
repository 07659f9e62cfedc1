package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/regcast/core/metrics"
	"github.com/kilianp07/regcast/infra/logger"
)

// InfluxSink writes forecast requests and their predicted points to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordForecast writes one forecast_request point and one forecast_point
// per predicted year.
func (s *InfluxSink) RecordForecast(ev coremetrics.ForecastEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(ev.Points)+1)
	req := write.NewPointWithMeasurement("forecast_request").
		AddTag("category", ev.Category).
		AddTag("outcome", string(ev.Outcome)).
		AddField("target_year", ev.TargetYear).
		AddField("sample_size", ev.SampleSize).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	if ev.RequestID != "" {
		req.AddTag("request_id", ev.RequestID)
	}
	if ev.Outcome == coremetrics.OutcomeOK {
		req.AddTag("method", ev.Method.String()).
			AddField("slope", ev.Fit.Slope).
			AddField("intercept", ev.Fit.Intercept).
			AddField("r_squared", round3(ev.Fit.RSquared))
	}
	points = append(points, req)
	for _, p := range ev.Points {
		points = append(points, write.NewPointWithMeasurement("forecast_point").
			AddTag("category", ev.Category).
			AddTag("method", ev.Method.String()).
			AddTag("request_id", ev.RequestID).
			AddField("year", p.Year).
			AddField("count", p.Count).
			SetTime(ev.Time))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
