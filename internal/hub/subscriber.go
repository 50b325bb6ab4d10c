// internal/hub/subscriber.go
package hub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST credential gates the data, not the upgrade
	CheckOrigin: func(r *http.Request) bool { return true },
}

// authMessage is the required first frame on a log stream connection.
type authMessage struct {
	Type   string `json:"type"`
	APIKey string `json:"api_key"`
}

// Subscriber is one live log stream connection. All writes to the
// connection go through the send channel so the write pump is the only
// writer. The mutex orders sends against close: a broadcast may hold a
// reference to a subscriber that disconnected after the snapshot was
// taken, and must never send on the closed channel.
type Subscriber struct {
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan string
	closed bool
}

// trySend queues a message without blocking; a full buffer drops it
// and a closed subscriber ignores it.
func (s *Subscriber) trySend(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.send <- message:
	default:
	}
}

// close shuts the send channel exactly once.
func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// ServeWS upgrades the connection and runs its lifecycle: the first
// frame must be a valid authentication message, after which the
// connection joins the broadcast set and has its frames echoed back
// until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	if !h.handshake(conn) {
		return
	}

	sub := &Subscriber{
		conn: conn,
		send: make(chan string, sendBufferSize),
	}
	h.register(sub)
	h.logger.Info("log subscriber authenticated", zap.Int("subscribers", h.Count()))

	go sub.writePump()
	h.readLoop(sub)
}

// handshake reads and validates the authentication frame. On any
// protocol violation the connection is told why and closed with a
// policy-violation close code.
func (h *Hub) handshake(conn *websocket.Conn) bool {
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return false
	}

	var auth authMessage
	if err := json.Unmarshal(data, &auth); err != nil {
		h.reject(conn, "Invalid authentication format")
		return false
	}
	if auth.Type != "authentication" {
		h.reject(conn, "Authentication required")
		return false
	}
	if auth.APIKey != h.apiKey {
		h.reject(conn, "Authentication failed: Invalid API key")
		return false
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("Authentication successful")); err != nil {
		conn.Close()
		return false
	}
	return true
}

func (h *Hub) reject(conn *websocket.Conn, reason string) {
	deadline := time.Now().Add(writeWait)
	conn.WriteMessage(websocket.TextMessage, []byte(reason))
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), deadline)
	conn.Close()
	h.logger.Warn("log subscriber rejected", zap.String("reason", reason))
}

// readLoop echoes inbound frames until the connection drops, then
// removes the subscriber from the broadcast set.
func (h *Hub) readLoop(sub *Subscriber) {
	defer func() {
		h.unregister(sub)
		sub.close()
	}()

	for {
		_, data, err := sub.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("log subscriber read error", zap.Error(err))
				deadline := time.Now().Add(writeWait)
				sub.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "internal error"), deadline)
			}
			return
		}
		sub.trySend(fmt.Sprintf("Echo: %s", data))
	}
}

// writePump drains the send channel onto the wire; it is the sole
// writer for the connection's lifetime.
func (s *Subscriber) writePump() {
	defer s.conn.Close()

	for message := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			return
		}
	}
}
