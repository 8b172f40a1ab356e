package api

import (
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"goclean/domain/cleaning"
)

// SSEHub fans run events out to Server-Sent Events clients. Slow clients
// miss events rather than stall a run.
type SSEHub struct {
	clients   map[chan cleaning.RunEvent]bool
	clientsMu sync.RWMutex
	keepAlive time.Duration
}

// NewSSEHub creates an empty hub
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients:   make(map[chan cleaning.RunEvent]bool),
		keepAlive: 30 * time.Second,
	}
}

// Subscribe registers a client. The returned func unregisters it and closes
// the channel.
func (h *SSEHub) Subscribe() (<-chan cleaning.RunEvent, func()) {
	ch := make(chan cleaning.RunEvent, 16)

	h.clientsMu.Lock()
	h.clients[ch] = true
	total := len(h.clients)
	h.clientsMu.Unlock()
	log.Printf("[SSE] Client registered (total clients: %d)", total)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.clientsMu.Lock()
			delete(h.clients, ch)
			close(ch)
			remaining := len(h.clients)
			h.clientsMu.Unlock()
			log.Printf("[SSE] Client unregistered (remaining clients: %d)", remaining)
		})
	}
}

// Publish implements ports.RunEventPublisher
func (h *SSEHub) Publish(event cleaning.RunEvent) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			log.Printf("[SSE] Client channel full, dropping %s for run %s", event.Type, event.RunID)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *SSEHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// HandleSSE streams run events until the client disconnects
func (h *SSEHub) HandleSSE(c *gin.Context) {
	events, unsubscribe := h.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Status(http.StatusOK)
	c.SSEvent("connected", gin.H{"status": "subscribed"})
	c.Writer.Flush()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("run", event)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", gin.H{"timestamp": t.Format(time.RFC3339)})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
