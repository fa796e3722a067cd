package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/polyinsider/tradeflow/internal/store"
)

// TradeAPIResponse represents one element of the Data API /trades response.
type TradeAPIResponse struct {
	ProxyWallet     string  `json:"proxyWallet"`
	Side            string  `json:"side"`
	Asset           string  `json:"asset"`
	ConditionID     string  `json:"conditionId"`
	Size            float64 `json:"size"`
	Price           float64 `json:"price"`
	Timestamp       int64   `json:"timestamp"` // Unix timestamp in seconds
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	EventSlug       string  `json:"eventSlug"`
	Outcome         string  `json:"outcome"`
	OutcomeIndex    int     `json:"outcomeIndex"`
	Name            string  `json:"name"`
	Pseudonym       string  `json:"pseudonym"`
	TransactionHash string  `json:"transactionHash"`
}

// ParseTrades decodes a /trades response body. The body must be a JSON array;
// a single invalid element rejects the whole batch.
func ParseTrades(data []byte) ([]store.Trade, error) {
	var apiTrades []TradeAPIResponse
	if err := json.Unmarshal(data, &apiTrades); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	if apiTrades == nil {
		return nil, fmt.Errorf("decode failed: expected JSON array, got null")
	}

	trades := make([]store.Trade, 0, len(apiTrades))
	for i, apiTrade := range apiTrades {
		if err := validateTrade(apiTrade); err != nil {
			return nil, fmt.Errorf("malformed trade at index %d: %w", i, err)
		}
		trades = append(trades, convertTrade(apiTrade))
	}

	return trades, nil
}

// validateTrade checks the fields the accumulator and filters rely on.
func validateTrade(t TradeAPIResponse) error {
	if t.TransactionHash == "" {
		return fmt.Errorf("missing transactionHash")
	}
	if !store.Side(t.Side).Valid() {
		return fmt.Errorf("unknown side %q", t.Side)
	}
	if t.Size < 0 {
		return fmt.Errorf("negative size %v", t.Size)
	}
	if t.Price < 0 {
		return fmt.Errorf("negative price %v", t.Price)
	}
	return nil
}

// convertTrade converts a TradeAPIResponse to store.Trade.
func convertTrade(t TradeAPIResponse) store.Trade {
	return store.Trade{
		TransactionHash: t.TransactionHash,
		Side:            store.Side(t.Side),
		Size:            t.Size,
		Price:           t.Price,
		Timestamp:       t.Timestamp,
		Slug:            t.Slug,
		EventSlug:       t.EventSlug,
		Title:           t.Title,
		ConditionID:     t.ConditionID,
		Asset:           t.Asset,
		Outcome:         t.Outcome,
		OutcomeIndex:    t.OutcomeIndex,
		ProxyWallet:     t.ProxyWallet,
		Name:            t.Name,
		Pseudonym:       t.Pseudonym,
	}
}
