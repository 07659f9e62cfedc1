package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/kilianp07/regcast/auth"
	"github.com/kilianp07/regcast/core/logger"
	"github.com/kilianp07/regcast/core/metrics"
	infralogger "github.com/kilianp07/regcast/infra/logger"
)

const maxBodyBytes = 32 << 20

// Source provides the raw dataset rows.
type Source interface {
	Records(ctx context.Context) ([]Record, error)
}

// StatusError is returned when the dataset server answers with a non-200
// status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Code, e.Body)
}

// SourceError wraps a failure to load the dataset, whatever its origin.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string { return "load dataset: " + e.Err.Error() }

func (e *SourceError) Unwrap() error { return e.Err }

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for downloads.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRecorder reports every load to r.
func WithRecorder(r metrics.DatasetRecorder) Option {
	return func(c *Client) { c.rec = r }
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

type cacheEntry struct {
	records []Record
	expires time.Time
}

// Client loads the dataset from a URL or a local file. Downloads are retried
// with exponential backoff on transport errors and 5xx/429 answers, and the
// parsed rows are cached for CacheTTLSeconds. Concurrent loads of the same
// location share a single download.
type Client struct {
	cfg   Config
	http  *http.Client
	creds *auth.ClientCred
	log   logger.Logger
	rec   metrics.DatasetRecorder
	now   func() time.Time

	mu     sync.Mutex
	cache  map[uint64]cacheEntry
	flight singleflight.Group
}

// NewClient builds a Client. cfg should already carry its defaults.
func NewClient(cfg Config, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = infralogger.NopLogger{}
	}
	c := &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:   log,
		rec:   metrics.NopSink{},
		now:   time.Now,
		cache: make(map[uint64]cacheEntry),
	}
	if cfg.OAuth2.Enabled() {
		c.creds = auth.NewClientCred(cfg.OAuth2)
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Location returns the file path or URL the dataset is read from.
func (c *Client) Location() string {
	if c.cfg.Path != "" {
		return "file://" + c.cfg.Path
	}
	return c.cfg.URL
}

// Records returns all dataset rows.
func (c *Client) Records(ctx context.Context) ([]Record, error) {
	start := c.now()
	loc := c.Location()
	key := xxhash.Sum64String(loc)

	if recs, ok := c.cached(key, start); ok {
		c.report(metrics.DatasetEvent{Source: loc, Records: len(recs), Cached: true, Time: start})
		return recs, nil
	}

	v, err, _ := c.flight.Do(strconv.FormatUint(key, 16), func() (any, error) {
		recs, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.log.Infof("loaded %d dataset rows from %s", len(recs), loc)
		if ttl := time.Duration(c.cfg.CacheTTLSeconds) * time.Second; ttl > 0 {
			c.mu.Lock()
			c.cache[key] = cacheEntry{records: recs, expires: start.Add(ttl)}
			c.mu.Unlock()
		}
		return recs, nil
	})
	recs, _ := v.([]Record)
	c.report(metrics.DatasetEvent{Source: loc, Records: len(recs), Duration: c.now().Sub(start), Err: err, Time: start})
	if err != nil {
		return nil, err
	}
	return clone(recs), nil
}

// Invalidate drops any cached rows.
func (c *Client) Invalidate() {
	c.mu.Lock()
	clear(c.cache)
	c.mu.Unlock()
}

func (c *Client) cached(key uint64, now time.Time) ([]Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if !now.Before(e.expires) {
		delete(c.cache, key)
		return nil, false
	}
	return clone(e.records), true
}

func (c *Client) report(ev metrics.DatasetEvent) {
	if err := c.rec.RecordDatasetLoad(ev); err != nil {
		c.log.Errorf("record dataset load: %v", err)
	}
}

func (c *Client) columns() Columns {
	return Columns{Year: c.cfg.YearColumn, Category: c.cfg.CategoryColumn, Count: c.cfg.CountColumn}
}

func (c *Client) load(ctx context.Context) ([]Record, error) {
	if c.cfg.Path != "" {
		f, err := os.Open(c.cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer func() { _ = f.Close() }()
		return Parse(f, c.columns())
	}
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(body), c.columns())
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	backoff := time.Duration(c.cfg.BackoffMS) * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff * time.Duration(1<<(attempt-1))):
			}
		}
		body, err := c.get(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			break
		}
		c.log.Warnf("dataset fetch attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("fetch dataset: %w", lastErr)
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	if c.creds != nil {
		if err := c.creds.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("failed to set auth header: %w", err)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	return true
}

func clone(recs []Record) []Record {
	out := make([]Record, len(recs))
	copy(out, recs)
	return out
}
