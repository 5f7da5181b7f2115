// Package session holds the in-memory state of a chat session: the
// participant registry, the append-only message history and the set of
// participants currently typing.
package session

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Store owns the participant registry, message log and typing set.
// All methods are safe for concurrent use; each one is atomic.
type Store struct {
	mu           sync.RWMutex
	participants map[string]Participant
	messages     []Message
	lastID       uint64

	// typing is the membership set, typers keeps insertion order.
	typing map[string]struct{}
	typers []string

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for JoinedAt and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty session store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		participants: make(map[string]Participant),
		typing:       make(map[string]struct{}),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddParticipant registers userID under displayName. An existing record with
// the same id is replaced (re-join); its typing flag is left untouched.
func (s *Store) AddParticipant(userID, displayName string) Participant {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Participant{
		UserID:      userID,
		DisplayName: displayName,
		JoinedAt:    s.now(),
		IsActive:    true,
	}
	s.participants[userID] = p
	return p
}

// RemoveParticipant deletes userID from the registry and the typing set.
// It returns the removed record, or false if the id was unknown.
func (s *Store) RemoveParticipant(userID string) (Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[userID]
	if !ok {
		return Participant{}, false
	}
	delete(s.participants, userID)
	s.setTyping(userID, false)
	return p, true
}

// CreateMessage appends a user message from senderID. The content is trimmed
// and must not be empty. Sending a message clears the sender's typing flag.
func (s *Store) CreateMessage(senderID, content string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[senderID]
	if !ok {
		return Message{}, fmt.Errorf("create message from %q: %w", senderID, ErrUnknownParticipant)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, fmt.Errorf("create message from %q: empty content: %w", senderID, ErrInvalidInput)
	}

	msg := s.appendLocked(Message{
		SenderID:    senderID,
		DisplayName: p.DisplayName,
		Content:     content,
		Kind:        KindUser,
	})
	s.updateTypingLocked(senderID, false)
	return msg, nil
}

// CreateSystemMessage appends a system notice. It always succeeds.
func (s *Store) CreateSystemMessage(content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(Message{
		Content: content,
		Kind:    KindSystem,
	})
}

// UpdateTypingStatus flags or unflags userID as typing. Unknown ids are ignored.
func (s *Store) UpdateTypingStatus(userID string, isTyping bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateTypingLocked(userID, isTyping)
}

// ActiveTypers returns the display names of everyone typing except
// excludeUserID, in the order they started typing.
func (s *Store) ActiveTypers(excludeUserID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.typers))
	for _, id := range s.typers {
		if id == excludeUserID {
			continue
		}
		p, ok := s.participants[id]
		if !ok {
			continue
		}
		names = append(names, p.DisplayName)
	}
	return names
}

// IsTyping reports whether userID is in the typing set.
func (s *Store) IsTyping(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.typing[userID]
	return ok
}

// Participant looks up a single participant.
func (s *Store) Participant(userID string) (Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[userID]
	return p, ok
}

// Participants returns a snapshot ordered by join time, then user id.
func (s *Store) Participants() []Participant {
	s.mu.RLock()
	out := make([]Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Participant) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return out
}

// ParticipantCount returns the number of distinct participants.
func (s *Store) ParticipantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants)
}

// Messages returns a copy of the history in insertion order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

func (s *Store) appendLocked(msg Message) Message {
	s.lastID++
	msg.ID = s.lastID
	msg.CreatedAt = s.now()
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Store) updateTypingLocked(userID string, isTyping bool) {
	if _, ok := s.participants[userID]; !ok {
		return
	}
	s.setTyping(userID, isTyping)
}

func (s *Store) setTyping(userID string, isTyping bool) {
	_, present := s.typing[userID]
	switch {
	case isTyping && !present:
		s.typing[userID] = struct{}{}
		s.typers = append(s.typers, userID)
	case !isTyping && present:
		delete(s.typing, userID)
		s.typers = slices.DeleteFunc(s.typers, func(id string) bool { return id == userID })
	}
}
