package server

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/protocol"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Server.Seed = 42

	srv, err := New(cfg, testLogger(), opts...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.closeAll()
		ts.Close()
	})
	return srv, ts
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

// dial connects to the server and consumes the connected greeting
func dial(t *testing.T, ts *httptest.Server) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	c := &testClient{t: t, conn: conn}
	var data protocol.ConnectedData
	c.expect(protocol.MessageTypeConnected, &data)
	require.NotEmpty(t, data.PlayerID)
	c.id = data.PlayerID
	return c
}

func (c *testClient) send(messageType protocol.MessageType, data any) {
	c.t.Helper()
	msg, err := protocol.NewMessage(messageType, data)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *testClient) sendRaw(raw string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func (c *testClient) read() *protocol.Message {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg protocol.Message
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return &msg
}

// expect reads the next message, requires its type and decodes it into v
func (c *testClient) expect(messageType protocol.MessageType, v any) {
	c.t.Helper()
	msg := c.read()
	require.Equal(c.t, messageType, msg.Type, "payload: %s", string(msg.Data))
	if v != nil {
		require.NoError(c.t, msg.Decode(v))
	}
}
