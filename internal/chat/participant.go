// Package chat provides the core chat domain logic shared by all transports.
package chat

// Participant is the capability a room needs from a member: a stable
// identity, a display name, and a way to hand it a message. Sessions
// implement it; the room never depends on the concrete session type.
type Participant interface {
	// ID returns a stable, comparable identifier assigned at session
	// creation. The room keys its membership set by ID, so two
	// participants with the same nickname never collide.
	ID() string

	// Nickname returns the display name. Empty until the participant
	// has authenticated.
	Nickname() string

	// Deliver enqueues a message for the participant. It must not
	// block and must not fail: delivery problems are surfaced through
	// the participant's own transport error path, never to the caller.
	Deliver(msg string)
}
