package client_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiraku/frame-chat/internal/client"
	"github.com/hiraku/frame-chat/pkg/protocol"
)

func TestClient_SendBeforeConnect(t *testing.T) {
	c := client.New("127.0.0.1:0", "alice", client.TransportTCP)
	assert.Error(t, c.Send("hello"))
	assert.False(t, c.IsConnected())
}

func TestClient_TCPExchange(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	// Minimal scripted server side: welcome, read nickname, confirm.
	serverGot := make(chan string, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		_ = protocol.WriteFrame(conn, []byte("welcome to chat room [10001], please enter your nickname:"))
		body, err := protocol.ReadFrame(conn)
		if err != nil {
			return
		}
		serverGot <- string(body)
		_ = protocol.WriteFrame(conn, []byte("---------- nickname accepted, start chatting ----------"))
	}()

	c := client.New(listener.Addr().String(), "alice", client.TransportTCP)
	require.NoError(t, c.Connect())
	defer c.Disconnect()
	require.True(t, c.IsConnected())

	select {
	case msg := <-c.Messages():
		assert.Contains(t, msg, "welcome to chat room")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for welcome")
	}

	require.NoError(t, c.SendNickname())
	select {
	case got := <-serverGot:
		assert.Equal(t, "alice", got)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for nickname frame")
	}

	select {
	case msg := <-c.Messages():
		assert.Contains(t, msg, "nickname accepted")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for confirmation")
	}
}

func TestClient_MessagesClosedOnServerDisconnect(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	c := client.New(listener.Addr().String(), "alice", client.TransportTCP)
	require.NoError(t, c.Connect())
	defer c.Disconnect()

	var conn net.Conn
	select {
	case conn = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for accept")
	}
	conn.Close()

	select {
	case _, ok := <-c.Messages():
		assert.False(t, ok, "messages channel should close when the server goes away")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for messages channel to close")
	}
}
