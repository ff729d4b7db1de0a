// Package twelvedata provides a Twelve Data price client.
package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Client for api.twelvedata.com
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Twelve Data client
func NewClient(apiKey string, log zerolog.Logger) *Client {
	if apiKey == "" {
		apiKey = "demo"
	}
	return &Client{
		baseURL: "https://api.twelvedata.com",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "twelvedata").Logger(),
	}
}

// Quote fetches the current price for a symbol.
// Twelve Data returns the price as a JSON string, not a number.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	reqURL := fmt.Sprintf("%s/price?symbol=%s&apikey=%s", c.baseURL, url.QueryEscape(symbol), c.apiKey)

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
		Price string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("invalid price for %s: %q", symbol, result.Price)
	}

	c.log.Debug().Str("symbol", symbol).Float64("price", price).Msg("Fetched price")
	return price, nil
}
