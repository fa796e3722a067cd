package poller

import (
	"time"

	"github.com/polyinsider/tradeflow/internal/store"
)

// Phase is the state of the polling state machine.
type Phase int

// Polling phases.
const (
	PhaseIdle Phase = iota
	PhaseFetching
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the polling session.
type Status struct {
	Phase       Phase
	LastError   string    // message of the most recent failed fetch, cleared on success
	LastUpdate  time.Time // zero until the first successful fetch
	AutoRefresh bool
	Interval    time.Duration

	// Trades is the accumulated trade history, most recent first.
	// It is shared with the controller and must not be modified.
	Trades    []store.Trade
	LastMerge store.MergeResult
}

// Loading reports whether a fetch is in flight.
func (s Status) Loading() bool {
	return s.Phase == PhaseFetching
}
