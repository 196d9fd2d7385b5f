// Package ws provides the server-side WebSocket transport for the chat
// server. Each frame travels inside WebSocket binary messages; the
// adapter exposes them as a plain byte stream so the frame codec runs
// unchanged.
package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn adapts a gorilla websocket.Conn to transport.Conn.
type Conn struct {
	conn *websocket.Conn

	// A binary message may carry more bytes than the caller asked
	// for; the remainder is buffered for the next Read.
	mu            sync.Mutex
	readBuffer    []byte
	readBufferPos int
}

// NewConn wraps an upgraded websocket.Conn.
func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{conn: conn}
}

// Read implements transport.Conn. It returns buffered bytes from the
// last binary message first, then reads the next one.
func (c *Conn) Read(p []byte) (int, error) {
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

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		n := copy(p, data)
		if n < len(data) {
			c.readBuffer = data[n:]
			c.readBufferPos = 0
		}
		return n, nil
	}
}

// Write implements transport.Conn. Each call becomes one binary
// message; the session writes exactly one complete frame per call.
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements transport.Conn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr implements transport.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
