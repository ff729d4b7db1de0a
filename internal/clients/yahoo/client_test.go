package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient routes requests through a fake relay: the test server
// receives the proxied URL in its "url" query parameter like allorigins does.
func newTestClient(handler func(target string, w http.ResponseWriter)) (*Client, *httptest.Server) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(r.URL.Query().Get("url"), w)
	}))
	c := NewClient(zerolog.Nop())
	c.proxyURL = srv.URL + "/raw?url="
	return c, srv
}

func TestQuote(t *testing.T) {
	c, srv := newTestClient(func(target string, w http.ResponseWriter) {
		assert.Contains(t, target, "/v8/finance/chart/AAPL")
		w.Write([]byte(`{"chart": {"result": [{"meta": {"regularMarketPrice": 185.50, "previousClose": 183.20}}], "error": null}}`))
	})
	defer srv.Close()

	price, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 185.50, price)
}

func TestQuoteFallsBackToPreviousClose(t *testing.T) {
	c, srv := newTestClient(func(target string, w http.ResponseWriter) {
		w.Write([]byte(`{"chart": {"result": [{"meta": {"regularMarketPrice": 0, "previousClose": 183.20}}], "error": null}}`))
	})
	defer srv.Close()

	price, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 183.20, price)
}

func TestQuoteChartError(t *testing.T) {
	c, srv := newTestClient(func(target string, w http.ResponseWriter) {
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	})
	defer srv.Close()

	_, err := c.Quote(context.Background(), "ZZZT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart API error")
}

func TestQuoteNoResults(t *testing.T) {
	c, srv := newTestClient(func(target string, w http.ResponseWriter) {
		w.Write([]byte(`{"chart": {"result": [], "error": null}}`))
	})
	defer srv.Close()

	_, err := c.Quote(context.Background(), "ZZZT")
	assert.Error(t, err)
}

func TestQuoteEscapesProxiedURL(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"chart": {"result": [{"meta": {"regularMarketPrice": 1}}], "error": null}}`))
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop())
	c.proxyURL = srv.URL + "/raw?url="

	_, err := c.Quote(context.Background(), "BTC-USD")
	require.NoError(t, err)

	// The chart URL must arrive fully query-escaped inside the relay parameter
	assert.Contains(t, rawQuery, url.QueryEscape(c.chartURL+"BTC-USD"))
}
