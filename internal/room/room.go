// Package room is the façade the terminal client and the simulated
// participants drive. It wraps a session.Store, announces joins and leaves,
// expires typing flags and publishes every change on the bus.
package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/connectchat/internal/bus"
	"github.com/matheus3301/connectchat/internal/session"
	"go.uber.org/zap"
)

// DefaultTypingTimeout is how long a keystroke keeps a user flagged as typing.
const DefaultTypingTimeout = 3 * time.Second

// Timer is the part of *time.Timer the room needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

type typingTimer struct {
	timer Timer
	gen   uint64
}

// Room serializes mutations of one chat session.
type Room struct {
	store  *session.Store
	bus    *bus.Bus
	logger *zap.Logger

	typingTimeout time.Duration
	afterFunc     AfterFunc
	newUserID     func() string

	mu     sync.Mutex
	timers map[string]typingTimer
	gen    uint64
}

// Option configures a Room.
type Option func(*Room)

// WithTypingTimeout overrides DefaultTypingTimeout.
func WithTypingTimeout(d time.Duration) Option {
	return func(r *Room) {
		if d > 0 {
			r.typingTimeout = d
		}
	}
}

// WithAfterFunc replaces the timer source used for typing expiry.
func WithAfterFunc(fn AfterFunc) Option {
	return func(r *Room) {
		r.afterFunc = fn
	}
}

// WithUserIDs replaces the generator of ids handed out by Join.
func WithUserIDs(fn func() string) Option {
	return func(r *Room) {
		r.newUserID = fn
	}
}

// New creates a room around store. b may be nil.
func New(store *session.Store, b *bus.Bus, logger *zap.Logger, opts ...Option) *Room {
	r := &Room{
		store:         store,
		bus:           b,
		logger:        logger,
		typingTimeout: DefaultTypingTimeout,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		newUserID: func() string { return "user_" + uuid.NewString() },
		timers:    make(map[string]typingTimer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Join validates displayName, registers a new participant under a fresh id
// and announces it.
func (r *Room) Join(displayName string) (session.Participant, error) {
	name, err := session.ValidateDisplayName(displayName)
	if err != nil {
		return session.Participant{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.admitLocked(r.newUserID(), name)
	r.announceLocked(fmt.Sprintf("%s joined the conversation", name))
	return p, nil
}

// Admit registers a participant under a caller-chosen id without announcing it.
func (r *Room) Admit(userID, displayName string) session.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admitLocked(userID, displayName)
}

func (r *Room) admitLocked(userID, displayName string) session.Participant {
	p := r.store.AddParticipant(userID, displayName)
	r.logger.Info("participant joined",
		zap.String("user_id", userID),
		zap.String("name", displayName),
		zap.Int("participants", r.store.ParticipantCount()),
	)
	r.bus.Emit(bus.ParticipantJoined, p)
	return p
}

// Leave removes userID and announces the departure. It reports false for
// unknown ids.
func (r *Room) Leave(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasTyping := r.store.IsTyping(userID)
	p, ok := r.store.RemoveParticipant(userID)
	if !ok {
		return false
	}
	r.stopTimerLocked(userID)
	if wasTyping {
		r.bus.Emit(bus.TypingChanged, bus.TypingChange{UserID: userID, Typing: false})
	}
	r.logger.Info("participant left",
		zap.String("user_id", userID),
		zap.Int("participants", r.store.ParticipantCount()),
	)
	r.bus.Emit(bus.ParticipantLeft, p)
	r.announceLocked(fmt.Sprintf("%s left the conversation", p.DisplayName))
	return true
}

// Send posts text from userID. The sender stops typing.
func (r *Room) Send(userID, text string) (session.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasTyping := r.store.IsTyping(userID)
	msg, err := r.store.CreateMessage(userID, text)
	if err != nil {
		r.logger.Debug("message rejected", zap.String("user_id", userID), zap.Error(err))
		return session.Message{}, err
	}
	r.stopTimerLocked(userID)
	if wasTyping {
		r.bus.Emit(bus.TypingChanged, bus.TypingChange{UserID: userID, Typing: false})
	}
	r.logger.Debug("message created", zap.Uint64("id", msg.ID), zap.String("user_id", userID))
	r.bus.Emit(bus.MessageCreated, msg)
	return msg, nil
}

// Announce appends a system message.
func (r *Room) Announce(text string) session.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.announceLocked(text)
}

func (r *Room) announceLocked(text string) session.Message {
	msg := r.store.CreateSystemMessage(text)
	r.bus.Emit(bus.MessageCreated, msg)
	return msg
}

// Keystroke flags userID as typing and restarts its expiry timer.
func (r *Room) Keystroke(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store.Participant(userID); !ok {
		return
	}
	r.setTypingLocked(userID, true)

	r.stopTimerLocked(userID)
	r.gen++
	gen := r.gen
	r.timers[userID] = typingTimer{
		timer: r.afterFunc(r.typingTimeout, func() { r.expire(userID, gen) }),
		gen:   gen,
	}
}

// SetTyping flags or unflags userID without an expiry timer.
func (r *Room) SetTyping(userID string, typing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !typing {
		r.stopTimerLocked(userID)
	}
	r.setTypingLocked(userID, typing)
}

func (r *Room) expire(userID string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[userID]
	if !ok || t.gen != gen {
		return
	}
	delete(r.timers, userID)
	r.setTypingLocked(userID, false)
}

// setTypingLocked updates the store and publishes only on transitions.
func (r *Room) setTypingLocked(userID string, typing bool) {
	if _, ok := r.store.Participant(userID); !ok {
		return
	}
	was := r.store.IsTyping(userID)
	r.store.UpdateTypingStatus(userID, typing)
	if was != typing {
		r.bus.Emit(bus.TypingChanged, bus.TypingChange{UserID: userID, Typing: typing})
	}
}

func (r *Room) stopTimerLocked(userID string) {
	if t, ok := r.timers[userID]; ok {
		t.timer.Stop()
		delete(r.timers, userID)
	}
}

// Typers returns the names of everyone typing except excludeUserID.
func (r *Room) Typers(excludeUserID string) []string {
	return r.store.ActiveTypers(excludeUserID)
}

// Participant looks up a single participant.
func (r *Room) Participant(userID string) (session.Participant, bool) {
	return r.store.Participant(userID)
}

// Participants returns everyone currently in the room.
func (r *Room) Participants() []session.Participant {
	return r.store.Participants()
}

// ParticipantCount returns the number of participants online.
func (r *Room) ParticipantCount() int {
	return r.store.ParticipantCount()
}

// History returns every message in order.
func (r *Room) History() []session.Message {
	return r.store.Messages()
}

// Close cancels all pending typing timers.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.timers {
		t.timer.Stop()
		delete(r.timers, id)
	}
}
