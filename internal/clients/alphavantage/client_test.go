package alphavantage

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
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL", "05. price": "185.5000", "08. previous close": "183.2000"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", zerolog.Nop())
	c.baseURL = srv.URL

	price, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 185.50, price)
}

func TestQuoteEmptyGlobalQuote(t *testing.T) {
	// Rate-limited responses come back 200 with a note and no quote
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "API call frequency limit reached"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Quote(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestQuoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Quote(context.Background(), "AAPL")
	assert.Error(t, err)
}
