package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/shopspring/decimal"

	"github.com/polyinsider/tradeflow/internal/detector"
	"github.com/polyinsider/tradeflow/internal/store"
)

var tradeHeaders = []string{"Trader", "Action", "Market", "Outcome", "Shares", "Price", "Bet", "To Win", "Time"}

// LiveTradesView displays the filtered trade history, most recent first.
type LiveTradesView struct {
	table    *tview.Table
	detector *detector.Detector
}

// NewLiveTradesView creates a new live trades view.
func NewLiveTradesView(det *detector.Detector) *LiveTradesView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0).
		SetSelectable(true, false)

	table.SetTitle(" Recent Trades ").SetBorder(true)

	v := &LiveTradesView{
		table:    table,
		detector: det,
	}
	v.setHeader()
	return v
}

// Widget returns the tview primitive.
func (v *LiveTradesView) Widget() tview.Primitive {
	return v.table
}

func (v *LiveTradesView) setHeader() {
	for col, header := range tradeHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false)
		v.table.SetCell(0, col, cell)
	}
}

// Update replaces the table contents with trades.
func (v *LiveTradesView) Update(trades []store.Trade, loading bool) {
	v.table.Clear()
	v.setHeader()

	v.table.SetTitle(fmt.Sprintf(" Recent Trades (%d, filtered by minimum bet) ", len(trades)))

	if len(trades) == 0 {
		msg := "No trades found"
		if loading {
			msg = "Loading trades..."
		}
		v.table.SetCell(1, 0, tview.NewTableCell(msg).
			SetTextColor(tcell.ColorGray).
			SetSelectable(false))
		return
	}

	for i, trade := range trades {
		row := i + 1

		sideColor := tcell.ColorRed
		toWin := "-"
		if trade.Side == store.SideBuy {
			sideColor = tcell.ColorGreen
			toWin = formatBet(decimal.NewFromFloat(trade.Size))
		}

		textColor := tcell.ColorWhite
		switch v.detector.Classify(trade) {
		case detector.TierWhale:
			textColor = tcell.ColorFuchsia
		case detector.TierLarge:
			textColor = tcell.ColorYellow
		}

		cells := []struct {
			text  string
			color tcell.Color
		}{
			{tview.Escape(trade.DisplayName()) + " " + truncateAddress(trade.ProxyWallet), textColor},
			{string(trade.Side), sideColor},
			{tview.Escape(truncateText(trade.Title, 40)), textColor},
			{tview.Escape(trade.Outcome), textColor},
			{formatShares(trade.Size), textColor},
			{formatPrice(trade.Price), textColor},
			{formatBet(trade.Notional()), textColor},
			{toWin, sideColor},
			{trade.Time().Format("2006-01-02 15:04:05"), textColor},
		}

		for col, c := range cells {
			v.table.SetCell(row, col, tview.NewTableCell(c.text).
				SetTextColor(c.color).
				SetAlign(tview.AlignLeft))
		}
	}
}
