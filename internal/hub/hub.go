// Package hub tracks live WebSocket connections and performs frame fan-out.
// It knows nothing about nicknames or channels; the relay service resolves
// recipients and hands the hub connection IDs.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/stationv/relay/internal/log"
)

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // connection ID -> client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldConnID, client.ID).Msg("client registered")
}

// Unregister removes the client and closes its send channel. Safe to call
// more than once; only the first call closes the channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldConnID, client.ID).Msg("client unregistered")
}

// SendTo marshals a frame once and enqueues it to each listed connection.
// A failure to enqueue for one recipient never aborts delivery to the rest.
func (h *Hub) SendTo(connIDs []string, frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		l := log.L()
		l.Error().Err(err).Msg("failed to marshal outbound frame")
		return
	}
	for _, id := range connIDs {
		h.send(id, data)
	}
}

// Broadcast enqueues a frame to every live connection.
func (h *Hub) Broadcast(frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		l := log.L()
		l.Error().Err(err).Msg("failed to marshal outbound frame")
		return
	}

	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.send(id, data)
	}
}

// send enqueues raw bytes to one connection. Holding the read lock while
// enqueuing guarantees the send channel is not concurrently closed by
// Unregister, which takes the write lock.
func (h *Hub) send(connID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
		l := log.L()
		l.Warn().Str(log.FieldConnID, connID).Msg("send buffer full, dropping frame")
	}
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop closes every client connection, unblocking their write pumps.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}
