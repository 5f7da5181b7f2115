package session

import "time"

// Kind distinguishes participant-authored messages from system notices.
type Kind string

const (
	KindUser   Kind = "user"
	KindSystem Kind = "system"
)

// Participant is a member of the chat session.
type Participant struct {
	UserID      string
	DisplayName string
	JoinedAt    time.Time
	IsActive    bool
}

// Message is an immutable entry in the session history.
// SenderID and DisplayName are empty for system messages.
type Message struct {
	ID          uint64
	SenderID    string
	DisplayName string
	Content     string
	CreatedAt   time.Time
	Kind        Kind
}

// IsSystem reports whether the message was produced by the session itself.
func (m Message) IsSystem() bool {
	return m.Kind == KindSystem
}
