// Package fmp provides a Financial Modeling Prep quote client.
// It exposes both the full quote endpoint and the quote-short endpoint, which
// the price resolver uses as independent links in its fallback chain.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client for financialmodelingprep.com
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Financial Modeling Prep client.
// The free demo key is enough for the symbols a personal portfolio holds.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	if apiKey == "" {
		apiKey = "demo"
	}
	return &Client{
		baseURL: "https://financialmodelingprep.com/api/v3",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "fmp").Logger(),
	}
}

// Quote fetches the current price from the full quote endpoint.
// Falls back to the previous close when the live price field is missing,
// which happens outside market hours.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	reqURL := fmt.Sprintf("%s/quote/%s?apikey=%s", c.baseURL, url.PathEscape(symbol), c.apiKey)

	var quotes []struct {
		Price         float64 `json:"price"`
		PreviousClose float64 `json:"previousClose"`
	}
	if err := c.getJSON(ctx, reqURL, &quotes); err != nil {
		return 0, err
	}

	if len(quotes) == 0 {
		return 0, fmt.Errorf("no quote data for %s", symbol)
	}

	price := quotes[0].Price
	if price <= 0 {
		price = quotes[0].PreviousClose
	}
	if price <= 0 {
		return 0, fmt.Errorf("invalid price for %s: %v", symbol, price)
	}

	c.log.Debug().Str("symbol", symbol).Float64("price", price).Msg("Fetched quote")
	return price, nil
}

// QuoteShort fetches the current price from the lightweight quote-short
// endpoint. Kept as a separate chain link for redundancy - the two endpoints
// fail independently on the provider side.
func (c *Client) QuoteShort(ctx context.Context, symbol string) (float64, error) {
	reqURL := fmt.Sprintf("%s/quote-short/%s?apikey=%s", c.baseURL, url.PathEscape(symbol), c.apiKey)

	var quotes []struct {
		Price float64 `json:"price"`
	}
	if err := c.getJSON(ctx, reqURL, &quotes); err != nil {
		return 0, err
	}

	if len(quotes) == 0 || quotes[0].Price <= 0 {
		return 0, fmt.Errorf("invalid quote-short price for %s", symbol)
	}

	c.log.Debug().Str("symbol", symbol).Float64("price", quotes[0].Price).Msg("Fetched short quote")
	return quotes[0].Price, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
