// Package sheets fetches holdings CSV exports from spreadsheet share URLs.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a sheet tab does not exist or its gid is
// wrong. The export endpoint signals this with HTTP 400.
var ErrNotFound = errors.New("sheet not found")

// Client fetches CSV exports over HTTP
type Client struct {
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new sheets client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With().Str("client", "sheets").Logger(),
	}
}

// FetchCSV downloads the CSV export at the given URL.
// A cache-busting parameter is appended so the spreadsheet host never serves
// a stale export between refresh cycles.
func (c *Client) FetchCSV(ctx context.Context, url string) (string, error) {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	reqURL := fmt.Sprintf("%s%scachebust=%d", url, sep, time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	csvText := string(body)
	if strings.TrimSpace(csvText) == "" {
		return "", fmt.Errorf("empty CSV response")
	}

	c.log.Debug().Str("url", url).Int("bytes", len(csvText)).Msg("Fetched CSV export")
	return csvText, nil
}
