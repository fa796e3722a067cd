package ingest

import (
	"context"

	"github.com/polyinsider/tradeflow/internal/store"
)

// FetchByMarket returns up to limit of the most recent trades for a single market.
func (c *Client) FetchByMarket(ctx context.Context, market string, limit int) ([]store.Trade, error) {
	return c.fetchTrades(ctx, market, limit)
}

// MarketFetcher scopes FetchRecent to one market, so it can stand in for
// a Client wherever recent trades are polled.
type MarketFetcher struct {
	Client *Client
	Market string
}

// FetchRecent returns up to limit of the most recent trades for f.Market.
func (f MarketFetcher) FetchRecent(ctx context.Context, limit int) ([]store.Trade, error) {
	return f.Client.FetchByMarket(ctx, f.Market, limit)
}
