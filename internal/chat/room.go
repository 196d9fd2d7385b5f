package chat

import (
	"sync"

	"go.uber.org/zap"
)

// MaxRecent is the capacity of a room's history buffer. Once full, the
// oldest line is evicted first.
const MaxRecent = 100

// historyDivider is delivered to a joining participant after the
// history replay, when there was any history to replay.
const historyDivider = "---------- end of chat history ----------"

// Room is the shared broadcast domain: the membership set and a bounded
// history buffer. One Room instance is shared by every session for the
// lifetime of the server process.
//
// The room performs no I/O itself. All delivery goes through each
// member's Deliver, which only enqueues; a stalled recipient never
// stalls propagation to others. The room mutex is the single
// serialization point for membership, history, and fan-out, so every
// member observes broadcasts in the same total order.
type Room struct {
	name string

	mu      sync.Mutex
	members map[string]Participant
	history []string

	logger *zap.Logger
}

// NewRoom creates a room with the given name.
func NewRoom(name string, logger *zap.Logger) *Room {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Room{
		name:    name,
		members: make(map[string]Participant),
		logger:  logger,
	}
}

// Name returns the room's name.
func (r *Room) Name() string {
	return r.name
}

// Join adds p to the membership set, replays the room history to p in
// original order, and notifies the other members. Joining twice with
// the same ID has no additional effect.
func (r *Room) Join(p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[p.ID()]; ok {
		return
	}
	r.members[p.ID()] = p

	for _, line := range r.history {
		p.Deliver(line)
	}
	if len(r.history) > 0 {
		p.Deliver(historyDivider)
	}
	r.systemPromptLocked(p.Nickname()+" joined the chat room", p)

	r.logger.Info("participant joined",
		zap.String("room", r.name),
		zap.String("nickname", p.Nickname()),
		zap.Int("members", len(r.members)))
}

// Leave removes p from the membership set. Calling it for an absent
// participant is a no-op, so both the read and write failure paths of a
// session may call it.
func (r *Room) Leave(p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[p.ID()]; !ok {
		return
	}
	delete(r.members, p.ID())

	r.logger.Info("participant left",
		zap.String("room", r.name),
		zap.String("nickname", p.Nickname()),
		zap.Int("members", len(r.members)))
}

// Broadcast formats body as a chat line from sender, records it in the
// history, and delivers it to every member except the sender.
func (r *Room) Broadcast(body string, sender Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := sender.Nickname() + " says: " + body

	r.history = append(r.history, line)
	if len(r.history) > MaxRecent {
		r.history = r.history[len(r.history)-MaxRecent:]
	}

	for id, member := range r.members {
		if id == sender.ID() {
			continue
		}
		member.Deliver(line)
	}
}

// SystemPrompt delivers a system-prefixed line to every member except
// excluded. System lines are not recorded in the history.
func (r *Room) SystemPrompt(msg string, excluded Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.systemPromptLocked(msg, excluded)
}

func (r *Room) systemPromptLocked(msg string, excluded Participant) {
	line := "system prompt: " + msg
	for id, member := range r.members {
		if excluded != nil && id == excluded.ID() {
			continue
		}
		member.Deliver(line)
	}
}

// Members returns the current membership count.
func (r *Room) Members() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// History returns a copy of the current history buffer, oldest first.
func (r *Room) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
