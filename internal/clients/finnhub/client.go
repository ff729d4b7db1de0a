// Package finnhub provides a Finnhub quote client.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client for finnhub.io
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Finnhub client
func NewClient(token string, log zerolog.Logger) *Client {
	if token == "" {
		token = "demo"
	}
	return &Client{
		baseURL: "https://finnhub.io/api/v1",
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "finnhub").Logger(),
	}
}

// Quote fetches the current price for a symbol.
// Finnhub returns the current price in the terse "c" field.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	reqURL := fmt.Sprintf("%s/quote?symbol=%s&token=%s", c.baseURL, url.QueryEscape(symbol), c.token)

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
		Current float64 `json:"c"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Current <= 0 {
		return 0, fmt.Errorf("invalid price for %s: %v", symbol, result.Current)
	}

	c.log.Debug().Str("symbol", symbol).Float64("price", result.Current).Msg("Fetched quote")
	return result.Current, nil
}
