package coincap

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
		assert.Equal(t, "/assets/bitcoin", r.URL.Path)
		w.Write([]byte(`{"data": {"id": "bitcoin", "priceUsd": "67500.1234567"}}`))
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop())
	c.baseURL = srv.URL

	price, err := c.Quote(context.Background(), "BTC")
	require.NoError(t, err)
	assert.InDelta(t, 67500.1234567, price, 0.0001)
}

func TestQuoteUnsupportedSymbol(t *testing.T) {
	c := NewClient(zerolog.Nop())

	_, err := c.Quote(context.Background(), "SOL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported crypto symbol")
}

func TestQuoteBadPriceString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": "bitcoin", "priceUsd": ""}}`))
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Quote(context.Background(), "BTC")
	assert.Error(t, err)
}

func TestQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Quote(context.Background(), "BTC")
	assert.Error(t, err)
}
