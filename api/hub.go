package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 8
	writeTimeout = 5 * time.Second
)

// Hub fans frames out to websocket subscribers. Slow subscribers drop
// frames rather than stall the simulation.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[uuid.UUID]chan []byte
	closed   bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[uuid.UUID]chan []byte),
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(initial []byte) (uuid.UUID, chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return uuid.Nil, nil, false
	}
	id := uuid.New()
	ch := make(chan []byte, sendBuffer)
	if initial != nil {
		ch <- initial
	}
	h.clients[id] = ch
	return id, ch, true
}

func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
	}
}

// Broadcast queues msg for every subscriber.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			slog.Debug("dropping frame for slow subscriber", "subscriber", id)
		}
	}
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.clients {
		close(ch)
		delete(h.clients, id)
	}
	h.closed = true
}

// Serve upgrades the request, sends initial (if non-nil) and then streams
// broadcast frames until the peer disconnects or the hub closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial []byte) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	id, ch, ok := h.add(initial)
	if !ok {
		return
	}
	slog.Info("subscriber connected", "subscriber", id)

	// Reader: detects disconnects; subscribers send nothing we act on.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(id)
				return
			}
		}
	}()

	for msg := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("websocket write failed", "subscriber", id, "error", err)
			h.remove(id)
			break
		}
	}
	slog.Info("subscriber disconnected", "subscriber", id)
}
