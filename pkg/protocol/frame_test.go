package protocol_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiraku/frame-chat/pkg/protocol"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		wantLen  int
		wantBody []byte
	}{
		{
			name:     "empty body",
			body:     nil,
			wantLen:  0,
			wantBody: []byte{},
		},
		{
			name:     "short body",
			body:     []byte("alice"),
			wantLen:  5,
			wantBody: []byte("alice"),
		},
		{
			name:     "body at cap",
			body:     bytes.Repeat([]byte("x"), protocol.MaxBodyLength),
			wantLen:  protocol.MaxBodyLength,
			wantBody: bytes.Repeat([]byte("x"), protocol.MaxBodyLength),
		},
		{
			name:     "oversized body is truncated",
			body:     bytes.Repeat([]byte("y"), protocol.MaxBodyLength+100),
			wantLen:  protocol.MaxBodyLength,
			wantBody: bytes.Repeat([]byte("y"), protocol.MaxBodyLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := protocol.Encode(tt.body)
			require.Len(t, frame, protocol.HeaderLength+tt.wantLen)
			assert.Equal(t, uint32(tt.wantLen), binary.BigEndian.Uint32(frame[:protocol.HeaderLength]))
			assert.Equal(t, tt.wantBody, frame[protocol.HeaderLength:])
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  []byte
		want    int
		wantErr error
	}{
		{
			name:   "zero length",
			header: []byte{0, 0, 0, 0},
			want:   0,
		},
		{
			name:   "length at cap",
			header: []byte{0, 0, 2, 0},
			want:   512,
		},
		{
			name:    "length above cap is rejected",
			header:  []byte{0, 0, 2, 1},
			wantErr: protocol.ErrInvalidHeader,
		},
		{
			name:    "huge length is rejected",
			header:  []byte{0xff, 0xff, 0xff, 0xff},
			wantErr: protocol.ErrInvalidHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := protocol.DecodeHeader(tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				// The defensive value: never a valid shorter length.
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeHeader_WrongSize(t *testing.T) {
	_, err := protocol.DecodeHeader([]byte{0, 0})
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5, 100, protocol.MaxBodyLength} {
		body := bytes.Repeat([]byte("m"), n)
		got, err := protocol.ReadFrame(bytes.NewReader(protocol.Encode(body)))
		require.NoError(t, err, "round trip of %d-byte body", n)
		assert.Equal(t, body, got)
	}
}

func TestReadFrame_InvalidHeader(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 1, 0, 0}) // 65536, far above the cap
	buf.WriteString("garbage")

	_, err := protocol.ReadFrame(&buf)
	require.ErrorIs(t, err, protocol.ErrInvalidHeader)
}

func TestReadFrame_ShortBody(t *testing.T) {
	frame := protocol.Encode([]byte("hello"))
	_, err := protocol.ReadFrame(bytes.NewReader(frame[:len(frame)-2]))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadFrame_ShortHeader(t *testing.T) {
	_, err := protocol.ReadFrame(strings.NewReader("\x00\x00"))
	require.Error(t, err)
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, protocol.WriteFrame(&buf, []byte("hi")))

	body, err := protocol.ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), body)
}
