package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Client is one real-time session. Outbound messages are queued on a buffered
// channel drained by a single writer; the Hub never blocks on a slow client.
//
// Until the initial snapshot has been queued the client is not primed: a
// broadcast arriving in that window is parked as pending and queued right
// after the snapshot, so the snapshot is always the first message.
type Client struct {
	id   string
	send chan []byte

	mu      sync.Mutex
	primed  bool
	pending []byte
	closed  bool
}

func newClient(buffer int) *Client {
	// room for the snapshot plus one parked broadcast
	if buffer < 2 {
		buffer = 2
	}
	return &Client{
		id:   uuid.NewString(),
		send: make(chan []byte, buffer),
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string { return c.id }

// Messages returns the outbound queue. It is closed when the client is removed.
func (c *Client) Messages() <-chan []byte { return c.send }

// deliver queues a broadcast message, or parks it when the client is not primed.
// It reports false when the client is gone or its queue is full.
func (c *Client) deliver(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if !c.primed {
		c.pending = msg
		return true
	}
	return c.enqueueLocked(msg)
}

// prime queues the snapshot followed by any parked broadcast.
func (c *Client) prime(snapshot []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	ok := c.enqueueLocked(snapshot)
	c.primed = true
	if c.pending != nil {
		ok = ok && c.enqueueLocked(c.pending)
		c.pending = nil
	}
	return ok
}

func (c *Client) enqueueLocked(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close shuts the outbound queue. It reports whether this call closed it.
func (c *Client) close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	c.pending = nil
	close(c.send)
	return true
}
