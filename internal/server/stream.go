package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/amader/portsync/internal/modules/portfolio"
)

// streamBuffer is how many summaries a slow subscriber may lag before
// updates are dropped for it. Summaries supersede each other, so dropping
// is harmless.
const streamBuffer = 4

// StreamHub fans fresh summaries out to websocket subscribers. The refresh
// job publishes into it; each connected dashboard gets its own buffered
// channel so one stalled connection cannot block the others.
type StreamHub struct {
	log zerolog.Logger

	mu      sync.Mutex
	subs    map[chan []byte]struct{}
	lastMsg []byte
}

// NewStreamHub creates an empty hub.
func NewStreamHub(log zerolog.Logger) *StreamHub {
	return &StreamHub{
		log:  log.With().Str("component", "stream_hub").Logger(),
		subs: make(map[chan []byte]struct{}),
	}
}

// Publish broadcasts a summary to all subscribers. Subscribers that cannot
// keep up skip this update.
func (h *StreamHub) Publish(summary portfolio.Summary) {
	data, err := json.Marshal(summary)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode summary for stream")
		return
	}

	h.mu.Lock()
	h.lastMsg = data
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
		}
	}
	subscriberCount := len(h.subs)
	h.mu.Unlock()

	if subscriberCount > 0 {
		h.log.Debug().Int("subscribers", subscriberCount).Msg("Published summary to stream")
	}
}

func (h *StreamHub) subscribe() chan []byte {
	ch := make(chan []byte, streamBuffer)
	h.mu.Lock()
	if h.lastMsg != nil {
		ch <- h.lastMsg
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *StreamHub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// HandleStream upgrades the connection to a websocket and pushes each
// published summary to it. The latest summary is sent immediately on
// connect so the dashboard renders without waiting for the next cycle.
func (h *StreamHub) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS is handled by the router middleware
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("Websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	h.log.Debug().Str("remote", r.RemoteAddr).Msg("Stream subscriber connected")

	// No client messages are expected; CloseRead gives a context that
	// cancels when the peer disconnects. The request context's deadline is
	// shed first - the subscription must outlive any per-request timeout.
	ctx := conn.CloseRead(context.WithoutCancel(r.Context()))

	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Str("remote", r.RemoteAddr).Msg("Stream subscriber disconnected")
			return
		case data := <-ch:
			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("Stream write failed, dropping subscriber")
				return
			}
		}
	}
}
