package bus

import "time"

// Event kinds published by the room service and the terminal client.
// Subscribers filter on the namespace prefix (the part up to and including
// the first dot).
const (
	ParticipantJoined  = "participant.joined"
	ParticipantLeft    = "participant.left"
	MessageCreated     = "message.created"
	TypingChanged      = "typing.changed"
	ClientPhaseChanged = "client.phase_changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// TypingChange is the payload of TypingChanged events.
type TypingChange struct {
	UserID string
	Typing bool
}
