package server

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiraku/frame-chat/internal/chat"
	"github.com/hiraku/frame-chat/internal/transport"
	"github.com/hiraku/frame-chat/pkg/protocol"
)

// SessionState is the authentication state of a session.
type SessionState int

const (
	// StateUnauthenticated is the initial state; the next frame body
	// is interpreted as the nickname.
	StateUnauthenticated SessionState = iota

	// StateAuthenticated means the session has a nickname and its
	// frames are chat messages. The transition is one-way.
	StateAuthenticated

	// StateFailed marks a rejected authentication. Nicknames are
	// currently accepted as-is, so no path assigns it.
	StateFailed
)

// String returns the string representation of SessionState.
func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "UNAUTHENTICATED"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Session drives one connection: it reads frames, applies the
// auth-then-chat state machine against the shared room, and drains an
// outbound queue through a single writer.
//
// The outbound queue is unbounded and strictly FIFO. Deliver only
// enqueues, so the room's fan-out never blocks on a slow connection;
// the session's own writer goroutine is the sole writer, which keeps
// per-recipient frame order without any further locking.
type Session struct {
	id     string
	conn   transport.Conn
	room   *chat.Room
	logger *zap.Logger

	mu       sync.Mutex
	state    SessionState
	nickname string
	queue    []string

	// wake has capacity 1: Deliver nudges the writer without blocking.
	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSession creates a session for conn bound to room. The session's
// ID is assigned here and identifies it in the room's membership set
// for its whole lifetime.
func NewSession(conn transport.Conn, room *chat.Room, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:     uuid.NewString(),
		conn:   conn,
		room:   room,
		logger: logger,
		state:  StateUnauthenticated,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// ID implements chat.Participant.
func (s *Session) ID() string {
	return s.id
}

// Nickname implements chat.Participant.
func (s *Session) Nickname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nickname
}

// State returns the session's current state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Deliver implements chat.Participant. It appends msg to the outbound
// queue and wakes the writer; it never blocks and never fails. After
// the session has closed it is a no-op.
func (s *Session) Deliver(msg string) {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return
	default:
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run services the connection until it fails or closes: it sends the
// welcome prompt, starts the writer, and reads frames in the calling
// goroutine. It returns after the session is fully torn down.
func (s *Session) Run() {
	s.logger.Debug("session started",
		zap.String("session", s.id),
		zap.String("remote", s.conn.RemoteAddr()))

	s.wg.Add(1)
	go s.writeLoop()

	s.Deliver("welcome to chat room [" + s.room.Name() + "], please enter your nickname:")
	s.readLoop()
	s.wg.Wait()
}

// Close tears the session down from outside, e.g. at server shutdown.
// The transport close makes any in-flight read or write fail, which
// funnels into the normal failure path.
func (s *Session) Close() {
	s.fail(nil)
}

// readLoop reads frames forever: header, body, dispatch, repeat. Any
// error, including a malformed header, is terminal.
func (s *Session) readLoop() {
	for {
		body, err := protocol.ReadFrame(s.conn)
		if err != nil {
			s.fail(err)
			return
		}
		s.handleFrame(string(body))
	}
}

// handleFrame applies one decoded frame body to the state machine.
func (s *Session) handleFrame(body string) {
	s.mu.Lock()
	state := s.state
	if state == StateUnauthenticated {
		// The first frame is the nickname, accepted as-is.
		s.nickname = body
		s.state = StateAuthenticated
	}
	s.mu.Unlock()

	switch state {
	case StateUnauthenticated:
		s.Deliver("---------- nickname accepted, start chatting ----------")
		s.room.Join(s)
		sessionsAuthenticated.Inc()
	case StateAuthenticated:
		s.room.Broadcast(body, s)
		broadcastsTotal.Inc()
	}
}

// writeLoop drains the outbound queue, writing one complete frame at a
// time in queue order. A write failure ends the session just like a
// read failure.
func (s *Session) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			msg := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			if err := protocol.WriteFrame(s.conn, []byte(msg)); err != nil {
				s.fail(err)
				return
			}
			messagesDelivered.Inc()
		}
	}
}

// fail is the sole path out of a session: leave the room, close the
// transport, and stop both loops. Safe to call from the read path, the
// write path, and Close concurrently.
func (s *Session) fail(err error) {
	s.closeOnce.Do(func() {
		if err != nil {
			s.logger.Debug("session closed",
				zap.String("session", s.id),
				zap.String("nickname", s.Nickname()),
				zap.Error(err))
		}
		s.room.Leave(s)
		close(s.done)
		s.conn.Close()
	})
}
