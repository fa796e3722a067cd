package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/polyinsider/tradeflow/internal/metrics"
)

// StatsDashboardView displays summary statistics for the most recent
// filtered trades.
type StatsDashboardView struct {
	textView *tview.TextView
}

// NewStatsDashboardView creates a new stats dashboard view.
func NewStatsDashboardView() *StatsDashboardView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)

	textView.SetTitle(" Trade Stats ").SetBorder(true)

	return &StatsDashboardView{
		textView: textView,
	}
}

// Widget returns the tview primitive.
func (v *StatsDashboardView) Widget() tview.Primitive {
	return v.textView
}

// Update refreshes the stats display. A nil stats means no trade passed the
// filter, which is shown differently from a window of zero-value trades.
func (v *StatsDashboardView) Update(stats *metrics.Stats) {
	v.textView.Clear()

	if stats == nil {
		fmt.Fprint(v.textView, "[gray]No trades match the current filter[-]")
		return
	}

	fmt.Fprintf(v.textView, `[yellow]Volume (Last %d)[-]
%s

[yellow]Total Trades[-]
%d

[green]Buy Orders[-]
%d (%.1f%%)

[red]Sell Orders[-]
%d (%.1f%%)

[purple]Active Markets[-]
%d
`,
		metrics.StatsWindow,
		formatVolume(stats.TotalVolume),
		stats.TradeCount,
		stats.BuyCount, stats.BuyShare(),
		stats.SellCount, stats.SellShare(),
		stats.UniqueMarkets,
	)
}

// SessionView displays polling health for the current session.
type SessionView struct {
	textView *tview.TextView
}

// NewSessionView creates a new session view.
func NewSessionView() *SessionView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)

	textView.SetTitle(" Session ").SetBorder(true)

	return &SessionView{textView: textView}
}

// Widget returns the tview primitive.
func (v *SessionView) Widget() tview.Primitive {
	return v.textView
}

// Update refreshes the session counters.
func (v *SessionView) Update(snapshot metrics.SessionSnapshot, held int) {
	v.textView.Clear()

	fmt.Fprintf(v.textView, `[yellow]Polling[-]
Uptime: %s
Fetches: %d (%.1f%% ok)
Skipped: %d
Last fetch: %s (%s)

[yellow]Trades[-]
Held: %d
Received: %d
New: %d
Updated: %d
Evicted: %d
`,
		formatDuration(snapshot.Uptime),
		snapshot.Fetches, snapshot.SuccessRate(),
		snapshot.SkippedTriggers,
		formatTimeAgo(snapshot.LastFetchAt), snapshot.LastFetchDuration.Round(1e6),
		held,
		snapshot.TradesReceived,
		snapshot.TradesAdded,
		snapshot.TradesReplaced,
		snapshot.TradesEvicted,
	)
}
