package client

import (
	"context"
	"net"
	"net/url"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// dialTCP opens a raw TCP stream to the server.
func dialTCP(address string) (net.Conn, error) {
	return net.Dial("tcp", address)
}

// dialWS opens a WebSocket connection to the server's /ws endpoint and
// wraps it so the frame codec sees a plain byte stream.
func dialWS(address string) (*wsConn, error) {
	u := url.URL{Scheme: "ws", Host: address, Path: "/ws"}
	conn, _, _, err := ws.Dial(context.Background(), u.String())
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

// wsConn adapts a gobwas/ws client connection to io.ReadWriteCloser.
// Frames ride inside binary messages; a message longer than the read
// buffer is kept and served on the next Read.
type wsConn struct {
	conn net.Conn

	mu            sync.Mutex
	readBuffer    []byte
	readBufferPos int
}

func (c *wsConn) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readBufferPos < len(c.readBuffer) {
		n := copy(p, c.readBuffer[c.readBufferPos:])
		c.readBufferPos += n
		if c.readBufferPos >= len(c.readBuffer) {
			c.readBuffer = nil
			c.readBufferPos = 0
		}
		return n, nil
	}

	data, err := wsutil.ReadServerBinary(c.conn)
	if err != nil {
		return 0, err
	}

	n := copy(p, data)
	if n < len(data) {
		c.readBuffer = data[n:]
		c.readBufferPos = 0
	}
	return n, nil
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := wsutil.WriteClientBinary(c.conn, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	_ = wsutil.WriteClientMessage(c.conn, ws.OpClose, nil)
	return c.conn.Close()
}
