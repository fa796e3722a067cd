// Package store provides the trade data model and the in-memory trade accumulator.
package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

// Trade sides reported by the Data API.
const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether s is one of the known sides.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Trade represents a single executed trade from Polymarket.
// Trades are treated as values and never mutated once created.
type Trade struct {
	// TransactionHash is the on-chain transaction hash, used as the merge key
	TransactionHash string

	// Side is BUY or SELL
	Side Side

	// Size is the number of outcome shares traded
	Size float64

	// Price is the per-share execution price (0-1 range for prediction markets)
	Price float64

	// Timestamp is when the trade occurred, in seconds since epoch
	Timestamp int64

	// Market identifiers
	Slug        string
	EventSlug   string
	Title       string
	ConditionID string
	Asset       string

	// Outcome is the outcome label, e.g. "Yes"
	Outcome      string
	OutcomeIndex int

	// Trader identity
	ProxyWallet string
	Name        string
	Pseudonym   string
}

// Notional returns size × price, the monetary value of the trade.
func (t Trade) Notional() decimal.Decimal {
	return decimal.NewFromFloat(t.Size).Mul(decimal.NewFromFloat(t.Price))
}

// Time returns the trade timestamp as a time.Time.
func (t Trade) Time() time.Time {
	return time.Unix(t.Timestamp, 0)
}

// DisplayName returns the trader alias, falling back to the profile name.
func (t Trade) DisplayName() string {
	if t.Pseudonym != "" {
		return t.Pseudonym
	}
	if t.Name != "" {
		return t.Name
	}
	return "Anonymous"
}
