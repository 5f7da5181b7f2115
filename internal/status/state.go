// Package status tracks the phase of the local terminal client.
package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/connectchat/internal/bus"
)

// Phase is where the local user is in the join/chat/leave flow.
type Phase string

const (
	Welcome  Phase = "WELCOME"
	Chatting Phase = "CHATTING"
	Left     Phase = "LEFT"
)

var validTransitions = map[Phase][]Phase{
	Welcome:  {Chatting},
	Chatting: {Left},
	Left:     {Chatting, Welcome},
}

// Machine tracks and enforces client phase transitions.
type Machine struct {
	mu      sync.RWMutex
	current Phase
	bus     *bus.Bus
}

// NewMachine creates a new machine starting at the welcome prompt.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Welcome,
		bus:     b,
	}
}

// Current returns the current phase.
func (m *Machine) Current() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition moves to a new phase. Returns error if the transition is invalid.
func (m *Machine) Transition(to Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Emit(bus.ClientPhaseChanged, PhaseChange{From: from, To: to})
	return nil
}

// PhaseChange is the payload for phase change events.
type PhaseChange struct {
	From Phase
	To   Phase
}
