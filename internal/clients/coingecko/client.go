// Package coingecko provides a CoinGecko simple-price client.
// CoinGecko is keyed by coin id ("bitcoin"), not ticker, so the client owns
// the ticker-to-id table for the supported coins.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// coinIDs maps supported tickers to CoinGecko coin ids.
// Pair symbols like "BTC-USD" are deliberately absent - they miss this table
// and the resolver prices them from its fallback tables instead.
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"XRP":  "ripple",
	"DOGE": "dogecoin",
	"BNB":  "binancecoin",
	"ADA":  "cardano",
	"SOL":  "solana",
	"DOT":  "polkadot",
}

// Client for api.coingecko.com (free tier, no API key)
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new CoinGecko client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://api.coingecko.com/api/v3",
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "coingecko").Logger(),
	}
}

// Quote fetches the USD price for a crypto ticker.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	coinID, ok := coinIDs[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("unknown crypto symbol: %s", symbol)
	}

	reqURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, coinID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var result map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	price := result[coinID].USD
	if price <= 0 {
		return 0, fmt.Errorf("invalid price for %s: %v", symbol, price)
	}

	c.log.Debug().Str("symbol", symbol).Str("coin", coinID).Float64("price", price).Msg("Fetched price")
	return price, nil
}
