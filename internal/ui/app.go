// Package ui provides terminal user interface components.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/polyinsider/tradeflow/internal/detector"
	"github.com/polyinsider/tradeflow/internal/metrics"
	"github.com/polyinsider/tradeflow/internal/poller"
)

// Controller is the polling session driven by the dashboard.
type Controller interface {
	Status() poller.Status
	OnChange(fn func(poller.Status))
	Refresh()
	SetAutoRefresh(enabled bool)
	SetInterval(d time.Duration) error
}

// App is the main TUI application.
type App struct {
	app    *tview.Application
	layout *tview.Flex

	// Views
	header         *HeaderView
	errorBar       *ErrorBar
	statsDashboard *StatsDashboardView
	marketOverview *MarketOverviewView
	whaleAlerts    *WhaleAlertsView
	session        *SessionView
	liveTrades     *LiveTradesView

	controller  Controller
	tracker     *metrics.Tracker
	detector    *detector.Detector
	logger      *slog.Logger
	refreshRate time.Duration

	// minBet is only touched from the tview event goroutine.
	minBet float64
	dirty  chan struct{}
	cancel context.CancelFunc
}

// NewApp creates a new TUI application.
func NewApp(controller Controller, tracker *metrics.Tracker, det *detector.Detector, minBet float64, refreshRate time.Duration, logger *slog.Logger) *App {
	if refreshRate <= 0 {
		refreshRate = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		app:         tview.NewApplication(),
		controller:  controller,
		tracker:     tracker,
		detector:    det,
		logger:      logger,
		refreshRate: refreshRate,
		minBet:      minBet,
		dirty:       make(chan struct{}, 1),
	}

	// Initialize views
	a.header = NewHeaderView()
	a.errorBar = NewErrorBar()
	a.statsDashboard = NewStatsDashboardView()
	a.marketOverview = NewMarketOverviewView()
	a.whaleAlerts = NewWhaleAlertsView()
	a.session = NewSessionView()
	a.liveTrades = NewLiveTradesView(det)

	a.setupLayout()
	a.setupKeyboard()

	// The listener runs on the controller goroutine; it must not block.
	controller.OnChange(func(poller.Status) {
		select {
		case a.dirty <- struct{}{}:
		default:
		}
	})

	return a
}

// setupLayout creates the dashboard layout.
func (a *App) setupLayout() {
	// Top row: Stats | Market Overview | Whale Trades | Session
	topRow := tview.NewFlex().
		AddItem(a.statsDashboard.Widget(), 0, 1, false).
		AddItem(a.marketOverview.Widget(), 0, 2, false).
		AddItem(a.whaleAlerts.Widget(), 0, 2, false).
		AddItem(a.session.Widget(), 0, 1, false)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header.Widget(), 3, 0, false).
		AddItem(a.errorBar.Widget(), 0, 0, false).
		AddItem(topRow, 0, 2, false).
		AddItem(a.liveTrades.Widget(), 0, 3, true)

	a.app.SetRoot(a.layout, true)
}

// setupKeyboard configures keyboard shortcuts.
func (a *App) setupKeyboard() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			a.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				a.Stop()
				return nil
			case 'r', 'R':
				if !a.controller.Status().Loading() {
					a.controller.Refresh()
				}
				return nil
			case 'p', 'P', ' ':
				a.controller.SetAutoRefresh(!a.controller.Status().AutoRefresh)
				a.render()
				return nil
			case 'i':
				a.cycleInterval(1)
				return nil
			case 'I':
				a.cycleInterval(-1)
				return nil
			case 'm':
				a.minBet = nextThreshold(a.minBet, 1)
				a.render()
				return nil
			case 'M':
				a.minBet = nextThreshold(a.minBet, -1)
				a.render()
				return nil
			}
		}
		return event
	})
}

func (a *App) cycleInterval(dir int) {
	next := nextInterval(a.controller.Status().Interval, dir)
	if err := a.controller.SetInterval(next); err != nil {
		a.logger.Warn("set_interval_failed", "interval", next, "error", err)
		return
	}
	a.render()
}

// Run starts the TUI application and blocks until it is stopped or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	defer cancel()

	a.render()

	go a.updateLoop(ctx)
	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	if err := a.app.Run(); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application.
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	a.app.Stop()
}

// updateLoop redraws on controller changes and on a steady tick so the
// relative timestamps stay current.
func (a *App) updateLoop(ctx context.Context) {
	ticker := time.NewTicker(a.refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-a.dirty:
		}
		a.app.QueueUpdateDraw(a.render)
	}
}

// render rebuilds every view from the current controller status. It must
// run on the tview event goroutine.
func (a *App) render() {
	status := a.controller.Status()

	filtered := metrics.Filter(status.Trades, a.minBet)
	stats := metrics.Summarize(filtered)

	a.header.Update(status, len(filtered), a.minBet)
	if a.errorBar.Update(status.LastError) {
		a.layout.ResizeItem(a.errorBar.Widget(), 1, 0)
	} else {
		a.layout.ResizeItem(a.errorBar.Widget(), 0, 0)
	}

	a.statsDashboard.Update(stats)
	a.marketOverview.Update(stats)
	a.whaleAlerts.Update(a.detector.Whales(filtered, maxWhales))
	a.session.Update(a.tracker.Snapshot(), len(status.Trades))
	a.liveTrades.Update(filtered, status.Loading())
}

// nextInterval steps through poller.RefreshIntervals, wrapping at the ends.
// An interval outside the list restarts from the first entry.
func nextInterval(current time.Duration, dir int) time.Duration {
	return cycle(poller.RefreshIntervals, current, dir)
}

// nextThreshold steps through metrics.MinBetThresholds, wrapping at the ends.
func nextThreshold(current float64, dir int) float64 {
	return cycle(metrics.MinBetThresholds, current, dir)
}

func cycle[T comparable](values []T, current T, dir int) T {
	for i, v := range values {
		if v == current {
			n := len(values)
			return values[((i+dir)%n+n)%n]
		}
	}
	return values[0]
}
