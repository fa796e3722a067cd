// Package metrics derives the filtered trade view, summary statistics and
// session counters shown on the dashboard.
package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/polyinsider/tradeflow/internal/store"
)

// StatsWindow is the number of most recent filtered trades summarized.
const StatsWindow = 100

// MinBetThresholds are the selectable minimum notional filters, in USD.
var MinBetThresholds = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

// ValidThreshold reports whether v is one of MinBetThresholds.
func ValidThreshold(v float64) bool {
	for _, t := range MinBetThresholds {
		if t == v {
			return true
		}
	}
	return false
}

// Stats summarizes the most recent filtered trades.
type Stats struct {
	TotalVolume   decimal.Decimal
	BuyCount      int
	SellCount     int
	UniqueMarkets int
	TradeCount    int

	// Markets breaks volume down by event, largest volume first.
	Markets []MarketVolume
}

// MarketVolume is the activity of one event within the stats window.
type MarketVolume struct {
	EventSlug  string
	Title      string
	TradeCount int
	Volume     decimal.Decimal
}

// BuyShare returns buys as a percentage of TradeCount.
func (s *Stats) BuyShare() float64 {
	return share(s.BuyCount, s.TradeCount)
}

// SellShare returns sells as a percentage of TradeCount.
func (s *Stats) SellShare() float64 {
	return share(s.SellCount, s.TradeCount)
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Filter returns the trades whose notional is at least threshold, in their
// original order. The input is not modified.
func Filter(trades []store.Trade, threshold float64) []store.Trade {
	minimum := decimal.NewFromFloat(threshold)

	filtered := make([]store.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Notional().GreaterThanOrEqual(minimum) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Summarize computes Stats over the first StatsWindow trades.
// It returns nil when there are no trades, so callers can tell
// "nothing to show" apart from a window of zero-value trades.
func Summarize(filtered []store.Trade) *Stats {
	if len(filtered) == 0 {
		return nil
	}

	window := filtered
	if len(window) > StatsWindow {
		window = window[:StatsWindow]
	}

	stats := &Stats{TradeCount: len(window)}
	byEvent := make(map[string]*MarketVolume)

	for _, t := range window {
		notional := t.Notional()
		stats.TotalVolume = stats.TotalVolume.Add(notional)

		switch t.Side {
		case store.SideBuy:
			stats.BuyCount++
		case store.SideSell:
			stats.SellCount++
		}

		mv, ok := byEvent[t.EventSlug]
		if !ok {
			mv = &MarketVolume{EventSlug: t.EventSlug, Title: t.Title}
			byEvent[t.EventSlug] = mv
		}
		mv.TradeCount++
		mv.Volume = mv.Volume.Add(notional)
	}

	stats.UniqueMarkets = len(byEvent)
	stats.Markets = make([]MarketVolume, 0, len(byEvent))
	for _, mv := range byEvent {
		stats.Markets = append(stats.Markets, *mv)
	}
	sort.Slice(stats.Markets, func(i, j int) bool {
		a, b := stats.Markets[i], stats.Markets[j]
		if c := a.Volume.Cmp(b.Volume); c != 0 {
			return c > 0
		}
		return a.EventSlug < b.EventSlug
	})

	return stats
}
