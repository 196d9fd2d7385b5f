package ws_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiraku/frame-chat/internal/transport/ws"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// startEchoServer upgrades one connection and echoes every binary
// message back.
func startEchoServer(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(messageType, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *ws.Conn {
	t.Helper()

	raw, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn := ws.NewConn(raw)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestConn_RoundTrip(t *testing.T) {
	conn := dial(t, startEchoServer(t))

	_, err := conn.Write([]byte("hello"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestConn_PartialReadsBuffered(t *testing.T) {
	conn := dial(t, startEchoServer(t))

	_, err := conn.Write([]byte("abcdef"))
	require.NoError(t, err)

	// Read the one message in pieces; leftover bytes must survive
	// between calls.
	buf := make([]byte, 2)
	var got []byte
	for len(got) < 6 {
		n, err := conn.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, "abcdef", string(got))
}

func TestConn_ExactReadAcrossMessages(t *testing.T) {
	conn := dial(t, startEchoServer(t))

	_, err := conn.Write([]byte("one"))
	require.NoError(t, err)
	_, err = conn.Write([]byte("two"))
	require.NoError(t, err)

	buf := make([]byte, 6)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "onetwo", string(buf))
}

func TestConn_RemoteAddr(t *testing.T) {
	conn := dial(t, startEchoServer(t))
	assert.NotEmpty(t, conn.RemoteAddr())
}
