package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// formatVolume renders a dollar volume compactly: $950, $12.3K, $4.5M.
func formatVolume(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(million):
		return "$" + v.Div(million).StringFixed(1) + "M"
	case v.GreaterThanOrEqual(thousand):
		return "$" + v.Div(thousand).StringFixed(1) + "K"
	default:
		return "$" + v.StringFixed(0)
	}
}

// formatBet renders a dollar amount with thousands separators and cents.
func formatBet(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return "$" + humanize.FormatFloat("#,###.##", f)
}

// formatShares renders a share count with thousands separators.
func formatShares(size float64) string {
	return humanize.CommafWithDigits(size, 2)
}

// formatPrice renders a per-share price.
func formatPrice(price float64) string {
	return fmt.Sprintf("$%.4f", price)
}

// truncateAddress truncates a wallet address for display.
func truncateAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// truncateText shortens s to at most n runes.
func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// formatInterval renders a refresh interval, e.g. "5s".
func formatInterval(d time.Duration) string {
	return fmt.Sprintf("%ds", int(d/time.Second))
}

// formatTimeAgo formats a time as "X ago".
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// formatDuration formats a duration in human-readable form.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// formatThreshold renders a minimum bet without trailing zeros, e.g. "25".
func formatThreshold(v float64) string {
	return humanize.Ftoa(v)
}
