// Package server contains the per-connection session state machine and
// the acceptor that binds every connection to the one shared room.
package server

import (
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hiraku/frame-chat/internal/chat"
	"github.com/hiraku/frame-chat/internal/transport"
	"github.com/hiraku/frame-chat/internal/transport/tcp"
	"github.com/hiraku/frame-chat/internal/transport/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for simplicity
	},
}

// Server accepts connections and runs a Session for each one against
// the shared room. It keeps accepting regardless of what happens to
// individual connections.
type Server struct {
	tcpAddress string
	wsAddress  string
	room       *chat.Room
	logger     *zap.Logger

	listener   net.Listener
	wsListener net.Listener
	httpServer *http.Server

	mu       sync.Mutex
	sessions map[*Session]struct{}
	quit     chan struct{}
	wg       sync.WaitGroup
}

// New creates a server that accepts raw TCP connections on tcpAddress.
// If wsAddress is non-empty, a second listener serves WebSocket
// upgrades at /ws and Prometheus metrics at /metrics.
func New(tcpAddress, wsAddress string, room *chat.Room, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		tcpAddress: tcpAddress,
		wsAddress:  wsAddress,
		room:       room,
		sessions:   make(map[*Session]struct{}),
		quit:       make(chan struct{}),
		logger:     logger,
	}
}

// Start binds the listeners and accepts connections until Stop is
// called. Bind failures are returned to the caller; everything after a
// successful bind is handled per-connection.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.tcpAddress)
	if err != nil {
		return fmt.Errorf("failed to start TCP listener: %w", err)
	}
	s.listener = listener
	s.logger.Info("TCP listener started",
		zap.String("addr", listener.Addr().String()),
		zap.String("room", s.room.Name()))

	if s.wsAddress != "" {
		wsListener, err := net.Listen("tcp", s.wsAddress)
		if err != nil {
			listener.Close()
			return fmt.Errorf("failed to start WebSocket listener: %w", err)
		}
		s.wsListener = wsListener

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", s.handleWebSocket)
		mux.Handle("/metrics", promhttp.Handler())
		s.httpServer = &http.Server{Handler: mux}

		s.logger.Info("WebSocket listener started",
			zap.String("addr", wsListener.Addr().String()))

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.httpServer.Serve(wsListener); err != nil && err != http.ErrServerClosed {
				s.logger.Error("WebSocket server error", zap.Error(err))
			}
		}()
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
				s.logger.Warn("failed to accept connection", zap.Error(err))
				continue
			}
		}
		s.startSession(tcp.NewConn(conn))
	}
}

// Stop closes the listeners and every live session, then waits for all
// session goroutines to finish.
func (s *Server) Stop() {
	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
	}
	if s.httpServer != nil {
		s.httpServer.Close()
	}

	s.mu.Lock()
	for sess := range s.sessions {
		sess.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Addr returns the TCP listening address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// WSAddr returns the WebSocket listening address.
func (s *Server) WSAddr() string {
	if s.wsListener != nil {
		return s.wsListener.Addr().String()
	}
	return ""
}

// SessionCount returns the number of live sessions, authenticated or
// not.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}
	s.startSession(ws.NewConn(conn))
}

func (s *Server) startSession(conn transport.Conn) {
	sess := NewSession(conn, s.room, s.logger)

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
	sessionsActive.Inc()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sess.Run()

		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		sessionsActive.Dec()
	}()
}
