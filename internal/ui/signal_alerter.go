package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/polyinsider/tradeflow/internal/store"
)

// maxWhales is the number of whale trades listed.
const maxWhales = 20

// WhaleAlertsView lists the most recent whale-sized trades.
type WhaleAlertsView struct {
	list *tview.List
}

// NewWhaleAlertsView creates a new whale alerts view.
func NewWhaleAlertsView() *WhaleAlertsView {
	list := tview.NewList().
		ShowSecondaryText(true)

	list.SetTitle(" 🐋 Whale Trades ").SetBorder(true)
	list.SetMainTextColor(tcell.ColorWhite)

	return &WhaleAlertsView{list: list}
}

// Widget returns the tview primitive.
func (v *WhaleAlertsView) Widget() tview.Primitive {
	return v.list
}

// Update rebuilds the list from whale trades, most recent first.
func (v *WhaleAlertsView) Update(whales []store.Trade) {
	v.list.Clear()

	if len(whales) == 0 {
		v.list.AddItem("No whale trades yet", "", 0, nil)
		v.list.SetTitle(" 🐋 Whale Trades ")
		return
	}

	for _, trade := range whales {
		mainText, secondaryText := formatWhale(trade)
		v.list.AddItem(mainText, secondaryText, 0, nil)
	}

	v.list.SetTitle(fmt.Sprintf(" 🐋 Whale Trades (%d) ", len(whales)))
}

// formatWhale formats a whale trade for display.
func formatWhale(trade store.Trade) (string, string) {
	icon := "🔴"
	if trade.Side == store.SideBuy {
		icon = "🟢"
	}

	mainText := fmt.Sprintf("%s %s %s %s %s",
		trade.Time().Format("15:04:05"),
		icon,
		trade.Side,
		formatBet(trade.Notional()),
		tview.Escape(trade.Outcome),
	)

	secondaryText := fmt.Sprintf("%s (%s) | %s",
		tview.Escape(trade.DisplayName()),
		truncateAddress(trade.ProxyWallet),
		tview.Escape(truncateText(trade.Title, 40)),
	)

	return mainText, secondaryText
}
