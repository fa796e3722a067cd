package metrics

import (
	"sync"
	"time"

	"github.com/polyinsider/tradeflow/internal/store"
)

// SessionSnapshot is a point-in-time view of the session counters.
type SessionSnapshot struct {
	Fetches           int64
	FetchFailures     int64
	SkippedTriggers   int64
	TradesReceived    int64
	TradesAdded       int64
	TradesReplaced    int64
	TradesEvicted     int64
	LastFetchDuration time.Duration
	LastFetchAt       time.Time
	Uptime            time.Duration
}

// SuccessRate returns successful fetches as a percentage of all fetches.
func (s SessionSnapshot) SuccessRate() float64 {
	if s.Fetches == 0 {
		return 0
	}
	return float64(s.Fetches-s.FetchFailures) / float64(s.Fetches) * 100
}

// Tracker provides thread-safe session counters for the polling loop.
type Tracker struct {
	mu                sync.RWMutex
	fetches           int64
	fetchFailures     int64
	skippedTriggers   int64
	tradesReceived    int64
	tradesAdded       int64
	tradesReplaced    int64
	tradesEvicted     int64
	lastFetchDuration time.Duration
	lastFetchAt       time.Time
	startTime         time.Time
}

// NewTracker creates a new Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// RecordFetch records a completed fetch attempt.
func (m *Tracker) RecordFetch(d time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetches++
	if err != nil {
		m.fetchFailures++
	}
	m.lastFetchDuration = d
	m.lastFetchAt = time.Now()
}

// RecordMerge records the outcome of merging a fetched batch.
func (m *Tracker) RecordMerge(res store.MergeResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tradesReceived += int64(res.Received)
	m.tradesAdded += int64(res.Added)
	m.tradesReplaced += int64(res.Replaced)
	m.tradesEvicted += int64(res.Evicted)
}

// RecordSkip records a trigger dropped because a fetch was in flight.
func (m *Tracker) RecordSkip() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skippedTriggers++
}

// Snapshot returns a point-in-time snapshot of the counters.
func (m *Tracker) Snapshot() SessionSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return SessionSnapshot{
		Fetches:           m.fetches,
		FetchFailures:     m.fetchFailures,
		SkippedTriggers:   m.skippedTriggers,
		TradesReceived:    m.tradesReceived,
		TradesAdded:       m.tradesAdded,
		TradesReplaced:    m.tradesReplaced,
		TradesEvicted:     m.tradesEvicted,
		LastFetchDuration: m.lastFetchDuration,
		LastFetchAt:       m.lastFetchAt,
		Uptime:            time.Since(m.startTime),
	}
}
