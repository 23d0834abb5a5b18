package notify

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pixboard/service/internal/image"
	"github.com/pixboard/service/internal/logger"
	"github.com/pixboard/service/internal/metrics"
)

const defaultSendBuffer = 16

// ErrClientGone is returned by SendTo when the client was already removed or
// could not accept the message.
var ErrClientGone = errors.New("client gone")

// Hub is the set of connected clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	buffer  int
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewHub creates a Hub whose clients buffer up to sendBuffer outbound messages.
func NewHub(sendBuffer int, m *metrics.Metrics) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		buffer:  sendBuffer,
		metrics: m,
		log:     logger.Component("hub"),
	}
}

// Register adds a new, not yet primed client.
func (h *Hub) Register() *Client {
	c := newClient(h.buffer)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.ClientConnected()
	return c
}

// Unregister removes c and closes its queue. Removing a client twice is a no-op;
// the return value reports whether c was still registered.
func (h *Hub) Unregister(c *Client) bool {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	c.close()
	if ok {
		h.metrics.ClientDisconnected()
	}
	return ok
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll pushes listing to every registered client.
func (h *Hub) BroadcastAll(listing image.Listing) {
	msg, err := Encode(listing)
	if err != nil {
		h.log.Error().Err(err).Msg("encode listing")
		return
	}
	h.BroadcastEncoded(msg)
}

// BroadcastEncoded pushes an already encoded event to every registered client.
// Clients whose queue is full are dropped.
func (h *Hub) BroadcastEncoded(msg []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	queued := 0
	for _, c := range targets {
		if c.deliver(msg) {
			queued++
			continue
		}
		if h.Unregister(c) {
			h.metrics.ClientDropped()
			h.log.Warn().Str("client", c.ID()).Msg("dropping client with full queue")
		}
	}
	h.metrics.Broadcast(queued)
}

// SendTo queues listing as c's snapshot.
func (h *Hub) SendTo(c *Client, listing image.Listing) error {
	msg, err := Encode(listing)
	if err != nil {
		return err
	}
	if !c.prime(msg) {
		h.Unregister(c)
		return ErrClientGone
	}
	return nil
}

// CloseAll removes every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
		h.metrics.ClientDisconnected()
	}
}
