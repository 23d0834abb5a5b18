package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pixboard/service/internal/image"
	"github.com/pixboard/service/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Lister reads the current store listing.
type Lister interface {
	List(ctx context.Context) (image.Listing, error)
}

// Manager accepts real-time connections, primes each with a snapshot and
// cleans up when they go away.
type Manager struct {
	hub      *Hub
	lister   Lister
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewManager creates a Manager that registers clients on hub.
func NewManager(hub *Hub, lister Lister) *Manager {
	return &Manager{
		hub:    hub,
		lister: lister,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: logger.Component("ws"),
	}
}

// Connect registers a client and queues its snapshot. The client is
// registered before the store is read so no broadcast issued meanwhile is
// lost; it is delivered after the snapshot. A failed listing is replaced by
// an empty one so every client gets an initial message.
func (m *Manager) Connect(ctx context.Context) *Client {
	c := m.hub.Register()

	listing, err := m.lister.List(ctx)
	if err != nil {
		m.log.Warn().Err(err).Str("client", c.ID()).Msg("snapshot listing failed, sending empty listing")
		listing = image.Listing{}
	}
	if err := m.hub.SendTo(c, listing); err != nil {
		m.log.Debug().Err(err).Str("client", c.ID()).Msg("snapshot not delivered")
	}
	return c
}

// Disconnect removes c. Calling it more than once is harmless.
func (m *Manager) Disconnect(c *Client) {
	if m.hub.Unregister(c) {
		m.log.Info().Str("client", c.ID()).Msg("client disconnected")
	}
}

// Shutdown disconnects every client.
func (m *Manager) Shutdown() {
	m.hub.CloseAll()
}

// ServeWS godoc
//
//	@Summary		Real-time image updates
//	@Description	Upgrades to a WebSocket. The server sends {"event":"imagesUpdated","data":[urls]} once on connect and after every upload.
//	@Tags			images
//	@Success		101
//	@Router			/ws [get]
func (m *Manager) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := m.Connect(r.Context())
	m.log.Info().Str("client", c.ID()).Str("remote", r.RemoteAddr).Msg("client connected")

	go m.writePump(conn, c)
	m.readPump(conn, c)
}

// readPump discards inbound messages and detects the peer going away.
func (m *Manager) readPump(conn *websocket.Conn, c *Client) {
	defer func() {
		m.Disconnect(c)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.log.Debug().Err(err).Str("client", c.ID()).Msg("read error")
			}
			return
		}
	}
}

// writePump is the only goroutine writing to conn.
func (m *Manager) writePump(conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				m.Disconnect(c)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				m.Disconnect(c)
				return
			}
		}
	}
}

// ServeWSHandler returns ServeWS as an http.Handler.
func (m *Manager) ServeWSHandler() http.Handler {
	return http.HandlerFunc(m.ServeWS)
}
