package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/amader/portsync/internal/modules/portfolio"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewStreamHub(zerolog.Nop())

	// Must not block or panic with nobody listening
	hub.Publish(testSummary())
}

func TestSubscribeReplaysLastSummary(t *testing.T) {
	hub := NewStreamHub(zerolog.Nop())
	hub.Publish(testSummary())

	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	select {
	case data := <-ch:
		var got portfolio.Summary
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, 1855.0, got.TotalValue)
	default:
		t.Fatal("expected the last summary to be seeded into a new subscription")
	}
}

func TestPublishFansOut(t *testing.T) {
	hub := NewStreamHub(zerolog.Nop())

	first := hub.subscribe()
	second := hub.subscribe()
	defer hub.unsubscribe(first)
	defer hub.unsubscribe(second)

	hub.Publish(testSummary())

	for _, ch := range []chan []byte{first, second} {
		select {
		case data := <-ch:
			assert.Contains(t, string(data), `"data_source":"real"`)
		default:
			t.Fatal("subscriber did not receive the published summary")
		}
	}
}

func TestSlowSubscriberDropsUpdates(t *testing.T) {
	hub := NewStreamHub(zerolog.Nop())

	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	// Never read; publishes beyond the buffer are dropped, not blocked
	for i := 0; i < streamBuffer+3; i++ {
		hub.Publish(testSummary())
	}

	assert.Equal(t, streamBuffer, len(ch))
}

func TestStreamOutlivesRequestDeadline(t *testing.T) {
	hub := NewStreamHub(zerolog.Nop())

	// A deliberately short request timeout; scheduled publishes land well
	// after it has fired.
	mux := chi.NewRouter()
	mux.Use(middleware.Timeout(200 * time.Millisecond))
	mux.Get("/stream", hub.HandleStream)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/stream", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	time.Sleep(400 * time.Millisecond)
	hub.Publish(testSummary())

	_, data, err := conn.Read(ctx)
	require.NoError(t, err, "subscriber must still be connected after the request deadline")
	assert.Contains(t, string(data), `"data_source":"real"`)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewStreamHub(zerolog.Nop())

	ch := hub.subscribe()
	hub.unsubscribe(ch)

	hub.Publish(testSummary())
	assert.Empty(t, ch)
}
