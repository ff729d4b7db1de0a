// Package coincap provides a CoinCap asset-price client, used as the
// alternate crypto source when CoinGecko fails. It supports a smaller coin
// set than CoinGecko.
package coincap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// assetIDs maps supported tickers to CoinCap asset ids.
var assetIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"XRP":  "xrp",
	"DOGE": "dogecoin",
}

// Client for api.coincap.io
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new CoinCap client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://api.coincap.io/v2",
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "coincap").Logger(),
	}
}

// Quote fetches the USD price for a crypto ticker.
// CoinCap returns the price as a decimal string.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	assetID, ok := assetIDs[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("unsupported crypto symbol: %s", symbol)
	}

	reqURL := fmt.Sprintf("%s/assets/%s", c.baseURL, assetID)

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

	var result struct {
		Data struct {
			PriceUSD string `json:"priceUsd"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	price, err := strconv.ParseFloat(result.Data.PriceUSD, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("invalid price for %s: %q", symbol, result.Data.PriceUSD)
	}

	c.log.Debug().Str("symbol", symbol).Str("asset", assetID).Float64("price", price).Msg("Fetched price")
	return price, nil
}
