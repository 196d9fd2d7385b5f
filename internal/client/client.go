// Package client provides a chat client for the framed protocol over
// TCP or WebSocket.
package client

import (
	"fmt"
	"io"
	"sync"

	"github.com/hiraku/frame-chat/pkg/protocol"
)

// Transport selects how the client reaches the server.
type Transport string

const (
	TransportTCP       Transport = "tcp"
	TransportWebSocket Transport = "ws"
)

// Client connects to the chat server, sends the nickname as the first
// frame, and surfaces every inbound frame body on a channel. The server
// sends system text and chat lines through the same frame channel, so
// bodies are rendered verbatim.
type Client struct {
	address   string
	nickname  string
	transport Transport

	mu   sync.RWMutex
	conn io.ReadWriteCloser

	messages chan string
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// New creates a client for the given server address and nickname.
func New(address, nickname string, transport Transport) *Client {
	return &Client{
		address:   address,
		nickname:  nickname,
		transport: transport,
		messages:  make(chan string, 16),
		done:      make(chan struct{}),
	}
}

// Connect dials the server and starts receiving messages. The nickname
// is not sent yet; call SendNickname once the welcome prompt arrives,
// or immediately after Connect.
func (c *Client) Connect() error {
	var (
		conn io.ReadWriteCloser
		err  error
	)
	switch c.transport {
	case TransportWebSocket:
		conn, err = dialWS(c.address)
	default:
		conn, err = dialTCP(c.address)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.wg.Add(1)
	go c.receiveLoop()

	return nil
}

// Disconnect closes the connection and stops the receive loop.
func (c *Client) Disconnect() {
	c.once.Do(func() { close(c.done) })

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// IsConnected returns whether the client currently holds a connection.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// SendNickname sends the authentication frame. It must be the first
// frame sent; the server interprets it by position alone.
func (c *Client) SendNickname() error {
	return c.send([]byte(c.nickname))
}

// Send sends a chat message frame. Bodies beyond the protocol cap are
// truncated by the codec.
func (c *Client) Send(text string) error {
	return c.send([]byte(text))
}

// Messages returns the channel of inbound frame bodies. It is closed
// when the connection ends.
func (c *Client) Messages() <-chan string {
	return c.messages
}

func (c *Client) send(body []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected to server")
	}
	if err := protocol.WriteFrame(conn, body); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// receiveLoop reads frames until the connection fails or Disconnect is
// called, forwarding each body to the messages channel.
func (c *Client) receiveLoop() {
	defer c.wg.Done()
	defer close(c.messages)

	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return
	}

	for {
		body, err := protocol.ReadFrame(conn)
		if err != nil {
			return
		}
		select {
		case c.messages <- string(body):
		case <-c.done:
			return
		}
	}
}
