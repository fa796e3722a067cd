package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polyinsider/tradeflow/internal/store"
)

// RefreshIntervals are the selectable auto-refresh intervals.
var RefreshIntervals = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
}

// ValidInterval reports whether d is one of RefreshIntervals.
func ValidInterval(d time.Duration) bool {
	for _, v := range RefreshIntervals {
		if v == d {
			return true
		}
	}
	return false
}

// Fetcher returns the most recent trades from the origin.
type Fetcher interface {
	FetchRecent(ctx context.Context, limit int) ([]store.Trade, error)
}

// Recorder receives session counters from the controller.
type Recorder interface {
	RecordFetch(d time.Duration, err error)
	RecordMerge(res store.MergeResult)
	RecordSkip()
}

type noopRecorder struct{}

func (noopRecorder) RecordFetch(time.Duration, error) {}
func (noopRecorder) RecordMerge(store.MergeResult)    {}
func (noopRecorder) RecordSkip()                      {}

// Config holds controller configuration.
type Config struct {
	Interval    time.Duration // Auto-refresh interval (default: 5s)
	AutoRefresh bool          // Start with auto-refresh enabled (default: true)
	Limit       int           // Trades requested per fetch (default: 100)
	Timeout     time.Duration // Per-fetch timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Second,
		AutoRefresh: true,
		Limit:       100,
		Timeout:     10 * time.Second,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder sets the session counter sink.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// fetchResult carries a finished fetch back to the event loop.
type fetchResult struct {
	id       string
	trigger  string
	trades   []store.Trade
	err      error
	duration time.Duration
}

// Controller owns the trade accumulator and decides when to fetch.
//
// All fetch triggers and results are handled by the goroutine running Run,
// which is the only writer of the accumulator. Other goroutines interact
// through Refresh, SetAutoRefresh, SetInterval and Status.
type Controller struct {
	cfg      Config
	fetcher  Fetcher
	acc      *store.Accumulator
	recorder Recorder
	logger   *slog.Logger

	refreshCh    chan struct{}
	rescheduleCh chan struct{}
	results      chan fetchResult

	mu        sync.RWMutex
	status    Status
	listeners []func(Status)

	// Owned by the Run goroutine.
	ticker   *time.Ticker
	inFlight bool
	wg       sync.WaitGroup
}

// New creates a new Controller. Run must be called to start polling.
func New(cfg Config, fetcher Fetcher, opts ...Option) *Controller {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Limit <= 0 {
		cfg.Limit = def.Limit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	c := &Controller{
		cfg:          cfg,
		fetcher:      fetcher,
		acc:          store.NewAccumulator(),
		recorder:     noopRecorder{},
		logger:       slog.Default(),
		refreshCh:    make(chan struct{}, 1),
		rescheduleCh: make(chan struct{}, 1),
		results:      make(chan fetchResult, 1),
		status: Status{
			Phase:       PhaseIdle,
			AutoRefresh: cfg.AutoRefresh,
			Interval:    cfg.Interval,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// OnChange registers fn to be called with a fresh Status after every state
// change. Listeners run on the controller goroutine and must not block.
// Register listeners before calling Run.
func (c *Controller) OnChange(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Status returns the current session state.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Refresh requests an immediate fetch. Requests made while a fetch is in
// flight are dropped.
func (c *Controller) Refresh() {
	signal(c.refreshCh)
}

// SetAutoRefresh enables or disables the recurring timer. Enabling it starts
// a full interval from now.
func (c *Controller) SetAutoRefresh(enabled bool) {
	c.mu.Lock()
	c.status.AutoRefresh = enabled
	c.mu.Unlock()

	signal(c.rescheduleCh)
}

// SetInterval changes the auto-refresh interval. The next tick fires a full
// interval after the change.
func (c *Controller) SetInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", d)
	}

	c.mu.Lock()
	c.status.Interval = d
	c.mu.Unlock()

	signal(c.rescheduleCh)
	return nil
}

// Run fetches immediately and then services triggers until ctx is cancelled.
// It releases the timer and waits for any in-flight fetch before returning.
func (c *Controller) Run(ctx context.Context) error {
	status := c.Status()
	c.logger.Info("poller_started",
		"interval", status.Interval,
		"auto_refresh", status.AutoRefresh,
		"limit", c.cfg.Limit,
	)

	defer c.wg.Wait()
	defer c.stopTicker()

	c.reschedule()
	c.startFetch(ctx, "initial")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("poller_stopped")
			return nil
		case <-c.refreshCh:
			c.startFetch(ctx, "manual")
		case <-c.tickerC():
			c.startFetch(ctx, "timer")
		case <-c.rescheduleCh:
			c.reschedule()
		case res := <-c.results:
			if ctx.Err() != nil {
				// Torn down while the fetch was in flight.
				return nil
			}
			c.applyResult(res)
		}
	}
}

// startFetch launches a fetch unless one is already in flight.
func (c *Controller) startFetch(ctx context.Context, trigger string) {
	if c.inFlight {
		c.logger.Debug("fetch_skipped", "trigger", trigger, "reason", "in flight")
		c.recorder.RecordSkip()
		return
	}
	c.inFlight = true

	id := uuid.NewString()
	c.logger.Debug("fetch_started", "fetch_id", id, "trigger", trigger)

	c.update(func(s *Status) {
		s.Phase = PhaseFetching
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		start := time.Now()
		trades, err := c.fetcher.FetchRecent(fetchCtx, c.cfg.Limit)

		// results has room for the single in-flight fetch, so this never blocks.
		c.results <- fetchResult{
			id:       id,
			trigger:  trigger,
			trades:   trades,
			err:      err,
			duration: time.Since(start),
		}
	}()
}

// applyResult merges a successful fetch or records a failed one.
func (c *Controller) applyResult(res fetchResult) {
	c.inFlight = false
	c.recorder.RecordFetch(res.duration, res.err)

	if res.err != nil {
		c.logger.Warn("fetch_failed",
			"fetch_id", res.id,
			"trigger", res.trigger,
			"duration", res.duration,
			"error", res.err,
		)
		c.update(func(s *Status) {
			s.Phase = PhaseError
			s.LastError = res.err.Error()
		})
		return
	}

	merged := c.acc.Merge(res.trades)
	c.recorder.RecordMerge(merged)

	c.logger.Debug("trades_merged",
		"fetch_id", res.id,
		"trigger", res.trigger,
		"received", merged.Received,
		"added", merged.Added,
		"replaced", merged.Replaced,
		"evicted", merged.Evicted,
		"total", merged.Total,
		"duration", res.duration,
	)

	snapshot := c.acc.Snapshot()
	c.update(func(s *Status) {
		s.Phase = PhaseIdle
		s.LastError = ""
		s.LastUpdate = time.Now()
		s.Trades = snapshot
		s.LastMerge = merged
	})
}

// reschedule replaces the timer to match the current auto-refresh settings.
func (c *Controller) reschedule() {
	status := c.Status()

	c.stopTicker()
	if status.AutoRefresh {
		c.ticker = time.NewTicker(status.Interval)
		c.logger.Debug("timer_scheduled", "interval", status.Interval)
	} else {
		c.logger.Debug("timer_cancelled")
	}

	c.update(func(*Status) {})
}

func (c *Controller) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// tickerC returns the timer channel, or nil when auto-refresh is off.
// Receiving from a nil channel blocks forever, which disables that select case.
func (c *Controller) tickerC() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C
}

// update applies fn to the status and notifies listeners.
func (c *Controller) update(fn func(*Status)) {
	c.mu.Lock()
	fn(&c.status)
	status := c.status
	listeners := c.listeners
	c.mu.Unlock()

	for _, l := range listeners {
		l(status)
	}
}

// signal performs a non-blocking send, coalescing repeated requests.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
