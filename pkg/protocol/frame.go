// Package protocol implements the length-prefixed frame codec used on
// the wire: a 4-byte big-endian header carrying the body length,
// followed by that many bytes of raw text.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// HeaderLength is the fixed size of the frame header in bytes.
	HeaderLength = 4

	// MaxBodyLength is the maximum frame body size. Outbound bodies
	// beyond the cap are truncated; an inbound header decoding to a
	// larger value is a protocol violation.
	MaxBodyLength = 512
)

// ErrInvalidHeader reports a header whose decoded length exceeds
// MaxBodyLength. The connection is desynced at that point and must be
// terminated; the protocol has no resynchronization.
var ErrInvalidHeader = errors.New("protocol: invalid frame header")

// Encode builds a complete frame (header plus body) for the given body.
// Bodies longer than MaxBodyLength are silently truncated to the cap so
// the sender always makes forward progress.
func Encode(body []byte) []byte {
	if len(body) > MaxBodyLength {
		body = body[:MaxBodyLength]
	}
	frame := make([]byte, HeaderLength+len(body))
	binary.BigEndian.PutUint32(frame[:HeaderLength], uint32(len(body)))
	copy(frame[HeaderLength:], body)
	return frame
}

// DecodeHeader decodes a frame header and returns the body length.
// A length above MaxBodyLength returns 0 and ErrInvalidHeader; the
// caller must treat the connection as unreadable.
func DecodeHeader(header []byte) (int, error) {
	if len(header) != HeaderLength {
		return 0, fmt.Errorf("protocol: header must be %d bytes, got %d", HeaderLength, len(header))
	}
	n := binary.BigEndian.Uint32(header)
	if n > MaxBodyLength {
		return 0, ErrInvalidHeader
	}
	return int(n), nil
}

// ReadFrame reads one complete frame from r and returns its body.
// Any short read or transport error is a hard failure, never retried.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n, err := DecodeHeader(header[:])
	if err != nil {
		return nil, err
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("protocol: reading frame body: %w", err)
	}
	return body, nil
}

// WriteFrame encodes body and writes the frame to w in a single call,
// so a session's writer emits one complete frame at a time.
func WriteFrame(w io.Writer, body []byte) error {
	if _, err := w.Write(Encode(body)); err != nil {
		return fmt.Errorf("protocol: writing frame: %w", err)
	}
	return nil
}
