// Package detector classifies trades by size so large flows stand out.
package detector

import (
	"github.com/shopspring/decimal"

	"github.com/polyinsider/tradeflow/internal/store"
)

// Tier is the size class of a trade.
type Tier int

// Trade tiers, smallest first.
const (
	TierNormal Tier = iota
	TierLarge
	TierWhale
)

func (t Tier) String() string {
	switch t {
	case TierWhale:
		return "WHALE"
	case TierLarge:
		return "LARGE"
	default:
		return "NORMAL"
	}
}

// Detector applies notional thresholds to trades.
type Detector struct {
	largeUSD decimal.Decimal
	whaleUSD decimal.Decimal
}

// NewDetector creates a new Detector. A trade is a whale when its notional is
// at least whaleUSD, and large when it is at least largeUSD.
func NewDetector(largeUSD, whaleUSD float64) *Detector {
	return &Detector{
		largeUSD: decimal.NewFromFloat(largeUSD),
		whaleUSD: decimal.NewFromFloat(whaleUSD),
	}
}

// Classify returns the tier of a trade.
func (d *Detector) Classify(trade store.Trade) Tier {
	notional := trade.Notional()

	// Whale is checked first so a misconfigured large threshold above the
	// whale threshold still reports whales.
	if notional.GreaterThanOrEqual(d.whaleUSD) {
		return TierWhale
	}
	if notional.GreaterThanOrEqual(d.largeUSD) {
		return TierLarge
	}
	return TierNormal
}

// Whales returns up to limit whale trades from trades, keeping their order.
func (d *Detector) Whales(trades []store.Trade, limit int) []store.Trade {
	var whales []store.Trade
	for _, t := range trades {
		if len(whales) >= limit {
			break
		}
		if d.Classify(t) == TierWhale {
			whales = append(whales, t)
		}
	}
	return whales
}
