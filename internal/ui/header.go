package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/polyinsider/tradeflow/internal/poller"
)

const title = "Polymarket Trade Flow"

// HeaderView displays the session state line and the key help.
type HeaderView struct {
	textView *tview.TextView
}

// NewHeaderView creates a new header view.
func NewHeaderView() *HeaderView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)

	return &HeaderView{textView: textView}
}

// Widget returns the tview primitive.
func (v *HeaderView) Widget() tview.Primitive {
	return v.textView
}

// Update redraws the header from the controller status.
func (v *HeaderView) Update(status poller.Status, filtered int, minBet float64) {
	v.textView.Clear()
	fmt.Fprint(v.textView, headerText(status, filtered, minBet))
}

func headerText(status poller.Status, filtered int, minBet float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[::b]%s[::-]", title)
	if status.Loading() {
		b.WriteString("  [yellow]⟳ Loading...[-]")
	}
	b.WriteString("\n")

	updated := "never"
	if !status.LastUpdate.IsZero() {
		updated = fmt.Sprintf("%s (%s)", status.LastUpdate.Format("15:04:05"), formatTimeAgo(status.LastUpdate))
	}
	fmt.Fprintf(&b, "Last updated: %s | Total trades: %d | Filtered: %d | Min bet: $%s\n",
		updated, len(status.Trades), filtered, formatThreshold(minBet))

	if status.AutoRefresh {
		fmt.Fprintf(&b, "[green]Auto-refreshing every %s[-]", formatInterval(status.Interval))
	} else {
		b.WriteString("[gray]Paused[-]")
	}
	b.WriteString("  [gray](r) refresh  (p) pause  (i/I) interval  (m/M) min bet  (q) quit[-]")

	return b.String()
}

// ErrorBar displays the last fetch error. It is only laid out while an
// error is held.
type ErrorBar struct {
	textView *tview.TextView
}

// NewErrorBar creates a new error bar.
func NewErrorBar() *ErrorBar {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)

	return &ErrorBar{textView: textView}
}

// Widget returns the tview primitive.
func (v *ErrorBar) Widget() tview.Primitive {
	return v.textView
}

// Update sets the message and reports whether the bar should be visible.
func (v *ErrorBar) Update(lastError string) bool {
	v.textView.Clear()
	if lastError == "" {
		return false
	}
	fmt.Fprintf(v.textView, "[red::b]Error:[-::-] [red]%s[-]", tview.Escape(lastError))
	return true
}
