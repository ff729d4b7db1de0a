// Package yahoo provides a Yahoo Finance chart-API quote client.
//
// Yahoo does not send CORS headers and rate-limits unknown user agents, so
// requests are routed through a relay (allorigins) the way the dashboard's
// browser build did. The relay is just a pass-through: the payload is the
// regular chart API response.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client is a Yahoo Finance quote client using the chart endpoint
type Client struct {
	proxyURL string
	chartURL string
	client   *http.Client
	log      zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		proxyURL: "https://api.allorigins.win/raw?url=",
		chartURL: "https://query1.finance.yahoo.com/v8/finance/chart/",
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log.With().Str("client", "yahoo").Logger(),
	}
}

// Quote fetches the current price for a symbol from the chart metadata.
// Falls back to the previous close when the market is closed.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	target := c.chartURL + url.PathEscape(symbol)
	reqURL := c.proxyURL + url.QueryEscape(target)

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
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
					PreviousClose      float64 `json:"previousClose"`
				} `json:"meta"`
			} `json:"result"`
			Error interface{} `json:"error"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return 0, fmt.Errorf("chart API error: %v", result.Chart.Error)
	}
	if len(result.Chart.Result) == 0 {
		return 0, fmt.Errorf("no chart data for %s", symbol)
	}

	meta := result.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if price <= 0 {
		price = meta.PreviousClose
	}
	if price <= 0 {
		return 0, fmt.Errorf("invalid price for %s: %v", symbol, price)
	}

	c.log.Debug().Str("symbol", symbol).Float64("price", price).Msg("Fetched quote")
	return price, nil
}
