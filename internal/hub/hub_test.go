// internal/hub/hub_test.go
package hub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	h := New("secret", nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func authenticate(t *testing.T, conn *websocket.Conn, key string) string {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "authentication", "api_key": key}))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(reply)
}

func waitForSubscribers(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for h.Count() != want {
		select {
		case <-deadline:
			t.Fatalf("subscriber count never reached %d (now %d)", want, h.Count())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHub_AuthenticateAndReceiveBroadcast(t *testing.T) {
	h, url := newTestHub(t)
	conn := dial(t, url)

	reply := authenticate(t, conn, "secret")
	assert.Equal(t, "Authentication successful", reply)
	waitForSubscribers(t, h, 1)

	h.Notify("User 'alice' used model Anthropic")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "User 'alice' used model Anthropic", string(msg))
}

func TestHub_Echo(t *testing.T) {
	h, url := newTestHub(t)
	conn := dial(t, url)
	authenticate(t, conn, "secret")
	waitForSubscribers(t, h, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "Echo: ping", string(msg))
}

func TestHub_WrongKeyClosedWithPolicyViolation(t *testing.T) {
	_, url := newTestHub(t)
	conn := dial(t, url)

	reply := authenticate(t, conn, "wrong")
	assert.Equal(t, "Authentication failed: Invalid API key", reply)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation),
		"expected close code 1008, got %v", err)
}

func TestHub_MalformedFirstFrame(t *testing.T) {
	_, url := newTestHub(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "Invalid authentication format", string(reply))

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
}

func TestHub_NonAuthFirstFrame(t *testing.T) {
	h, url := newTestHub(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "hello"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "Authentication required", string(reply))
	assert.Equal(t, 0, h.Count())
}

func TestHub_UnauthenticatedReceivesNoBroadcast(t *testing.T) {
	h, url := newTestHub(t)
	conn := dial(t, url)
	// No auth frame sent; connection is not in the broadcast set.

	h.Notify("should not arrive")
	assert.Equal(t, 0, h.Count())

	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "unauthenticated connection must not receive broadcasts")
}

func TestHub_DisconnectedSubscriberDoesNotBlockOthers(t *testing.T) {
	h, url := newTestHub(t)

	gone := dial(t, url)
	authenticate(t, gone, "secret")
	stays := dial(t, url)
	authenticate(t, stays, "secret")
	waitForSubscribers(t, h, 2)

	gone.Close()

	// Deliver repeatedly; the dead connection must not prevent the live
	// one from receiving.
	h.Notify("first")
	h.Notify("second")

	stays.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := stays.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "first", string(msg))
}

func TestHub_UnregisterIdempotent(t *testing.T) {
	h := New("secret", nil)
	sub := &Subscriber{send: make(chan string, 1)}

	h.register(sub)
	h.unregister(sub)
	h.unregister(sub)
	assert.Equal(t, 0, h.Count())
}

// A broadcast may still hold a snapshot reference to a subscriber that
// disconnected after the snapshot was taken. Churning subscribers
// against concurrent broadcasts must never panic the sender.
func TestHub_BroadcastDuringSubscriberChurn(t *testing.T) {
	h := New("secret", nil)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					h.Notify("usage event")
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		sub := &Subscriber{send: make(chan string, 1)}
		h.register(sub)
		h.unregister(sub)
		sub.close()
	}

	close(done)
	wg.Wait()
	assert.Equal(t, 0, h.Count())
}

func TestSubscriber_SendAfterCloseDropped(t *testing.T) {
	sub := &Subscriber{send: make(chan string, 1)}
	sub.close()
	sub.close()

	assert.NotPanics(t, func() {
		sub.trySend("late broadcast")
	})
}
