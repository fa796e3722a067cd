// Package ingest provides the Polymarket Data API trade fetch client.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polyinsider/tradeflow/internal/store"
)

const (
	// DataAPIBaseURL is the Polymarket Data API endpoint
	DataAPIBaseURL = "https://data-api.polymarket.com"
	// DefaultTimeout bounds a single fetch
	DefaultTimeout = 10 * time.Second
	// DefaultLimit is the number of trades requested per fetch
	DefaultLimit = 100
	// DefaultMaxResponseBytes caps the response body read per fetch
	DefaultMaxResponseBytes = 8 << 20
)

// ErrInvalidLimit is returned when a fetch is requested with a non-positive limit.
var ErrInvalidLimit = errors.New("limit must be positive")

// FetchError is returned by every failed fetch: transport errors, non-2xx
// responses and malformed payloads. Message is suitable for display.
type FetchError struct {
	Message    string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches recent trades from the Data API. Each call is a single
// attempt; retrying is left to whoever drives the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	maxBody    int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new Data API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DataAPIBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
		maxBody:    DefaultMaxResponseBytes,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMaxResponseBytes sets the largest response body accepted.
func WithMaxResponseBytes(n int64) ClientOption {
	return func(c *Client) {
		c.maxBody = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// FetchRecent returns up to limit of the most recent trades across all markets,
// in the order the origin returned them.
func (c *Client) FetchRecent(ctx context.Context, limit int) ([]store.Trade, error) {
	return c.fetchTrades(ctx, "", limit)
}

// fetchTrades performs one GET /trades request.
func (c *Client) fetchTrades(ctx context.Context, market string, limit int) ([]store.Trade, error) {
	failMsg := "failed to fetch trade data from Polymarket"
	if market != "" {
		failMsg = fmt.Sprintf("failed to fetch trades for market %s", market)
	}

	if limit <= 0 {
		return nil, &FetchError{Message: failMsg, Err: ErrInvalidLimit}
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("sort", "desc")
	if market != "" {
		query.Set("market", market)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/trades?"+query.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Message: failMsg, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Message: failMsg, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &FetchError{Message: failMsg, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &FetchError{Message: failMsg, StatusCode: resp.StatusCode, Err: fmt.Errorf("response body exceeds %d bytes", c.maxBody)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Message:    failMsg,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	trades, err := ParseTrades(body)
	if err != nil {
		return nil, &FetchError{Message: failMsg, StatusCode: resp.StatusCode, Err: err}
	}

	if len(trades) > limit {
		trades = trades[:limit]
	}

	c.logger.Debug("trades_fetched", "count", len(trades), "market", market, "limit", limit)
	return trades, nil
}
