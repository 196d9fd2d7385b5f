// Package transport abstracts the byte streams sessions read frames
// from and write frames to, so the same session logic runs over TCP
// and WebSocket connections.
package transport

import "io"

// Conn is a reliable, ordered byte stream with an address for logging.
// The frame codec runs directly on top of it; any read or write error
// is fatal to the owning session.
type Conn interface {
	io.Reader
	io.Writer

	// Close closes the connection. Safe to call more than once.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}
