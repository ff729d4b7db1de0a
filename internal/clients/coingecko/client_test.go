package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"bitcoin": {"usd": 67500.12}}`))
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop())
	c.baseURL = srv.URL

	price, err := c.Quote(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, 67500.12, price)
}

func TestQuoteLowercaseTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ethereum": {"usd": 3200.50}}`))
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop())
	c.baseURL = srv.URL

	price, err := c.Quote(context.Background(), "eth")
	require.NoError(t, err)
	assert.Equal(t, 3200.50, price)
}

func TestQuoteUnknownSymbol(t *testing.T) {
	c := NewClient(zerolog.Nop())

	// Pair symbols are not in the coin-id table; no request is made
	for _, symbol := range []string{"BTC-USD", "AAPL", "LTC"} {
		_, err := c.Quote(context.Background(), symbol)
		assert.Error(t, err, symbol)
	}
}

func TestQuoteZeroPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Quote(context.Background(), "BTC")
	assert.Error(t, err)
}
