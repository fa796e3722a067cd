package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/polyinsider/tradeflow/internal/metrics"
)

// maxMarkets is the number of markets listed in the overview.
const maxMarkets = 10

var marketHeaders = []string{"Market", "Trades", "Volume"}

// MarketOverviewView displays the most active markets in the stats window.
type MarketOverviewView struct {
	table *tview.Table
}

// NewMarketOverviewView creates a new market overview view.
func NewMarketOverviewView() *MarketOverviewView {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0)

	table.SetTitle(" Market Overview ").SetBorder(true)

	v := &MarketOverviewView{table: table}
	v.setHeader()
	return v
}

// Widget returns the tview primitive.
func (v *MarketOverviewView) Widget() tview.Primitive {
	return v.table
}

func (v *MarketOverviewView) setHeader() {
	for col, header := range marketHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tview.Styles.SecondaryTextColor).
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetExpansion(1)
		v.table.SetCell(0, col, cell)
	}
}

// Update refreshes the view from the latest stats.
func (v *MarketOverviewView) Update(stats *metrics.Stats) {
	v.table.Clear()
	v.setHeader()

	if stats == nil {
		v.table.SetTitle(" Market Overview ")
		v.table.SetCell(1, 0, tview.NewTableCell("No data yet...").SetExpansion(1))
		return
	}

	markets := stats.Markets
	if len(markets) > maxMarkets {
		markets = markets[:maxMarkets]
	}

	for i, market := range markets {
		row := i + 1

		name := market.Title
		if name == "" {
			name = market.EventSlug
		}

		cells := []string{
			tview.Escape(truncateText(name, 30)),
			fmt.Sprintf("%d", market.TradeCount),
			formatVolume(market.Volume),
		}

		for col, text := range cells {
			v.table.SetCell(row, col, tview.NewTableCell(text).
				SetAlign(tview.AlignLeft).
				SetExpansion(1))
		}
	}

	v.table.SetTitle(fmt.Sprintf(" Market Overview (%d active) ", stats.UniqueMarkets))
}
