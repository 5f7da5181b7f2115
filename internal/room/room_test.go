package room

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/connectchat/internal/bus"
	"github.com/matheus3301/connectchat/internal/session"
	"go.uber.org/zap"
)

// fakeTimers hands out timers that only fire when the test says so.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

// fire runs every timer that has not been stopped.
func (ft *fakeTimers) fire() {
	ft.mu.Lock()
	var due []*fakeTimer
	for _, t := range ft.timers {
		if !t.stopped {
			t.stopped = true
			due = append(due, t)
		}
	}
	ft.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

// fireStale runs every timer, stopped or not, simulating a timer that
// fired just as it was being stopped.
func (ft *fakeTimers) fireStale() {
	ft.mu.Lock()
	all := slices.Clone(ft.timers)
	ft.mu.Unlock()
	for _, t := range all {
		t.f()
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("user_%d", n)
	}
}

func newTestRoom(t *testing.T, opts ...Option) (*Room, *bus.Bus, *fakeTimers) {
	t.Helper()
	b := bus.New()
	ft := &fakeTimers{}
	opts = append([]Option{WithAfterFunc(ft.AfterFunc), WithUserIDs(sequentialIDs())}, opts...)
	r := New(session.NewStore(), b, zap.NewNop(), opts...)
	t.Cleanup(r.Close)
	return r, b, ft
}

// drain collects the events currently buffered on ch.
func drain(ch <-chan bus.Event) []bus.Event {
	var out []bus.Event
	for {
		select {
		case evt := <-ch:
			out = append(out, evt)
		default:
			return out
		}
	}
}

func kinds(evts []bus.Event) []string {
	out := make([]string, len(evts))
	for i, e := range evts {
		out[i] = e.Kind
	}
	return out
}

func TestJoinAnnounces(t *testing.T) {
	r, b, _ := newTestRoom(t)
	ch, unsub := b.SubscribeAll(16, "participant.", "message.")
	defer unsub()

	p, err := r.Join("  Alice ")
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if p.UserID != "user_1" || p.DisplayName != "Alice" {
		t.Errorf("participant = %+v, want user_1/Alice", p)
	}
	if r.ParticipantCount() != 1 {
		t.Errorf("ParticipantCount() = %d, want 1", r.ParticipantCount())
	}

	history := r.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if !history[0].IsSystem() || history[0].Content != "Alice joined the conversation" {
		t.Errorf("history[0] = %+v, want system join notice", history[0])
	}

	got := kinds(drain(ch))
	want := []string{bus.ParticipantJoined, bus.MessageCreated}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestJoinRejectsShortNames(t *testing.T) {
	r, _, _ := newTestRoom(t)
	for _, name := range []string{"", " ", "a", " b "} {
		if _, err := r.Join(name); !errors.Is(err, session.ErrInvalidName) {
			t.Errorf("Join(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
	if r.ParticipantCount() != 0 || len(r.History()) != 0 {
		t.Error("rejected join changed room state")
	}
}

func TestJoinDefaultIDs(t *testing.T) {
	r := New(session.NewStore(), nil, zap.NewNop())
	a, err := r.Join("Alice")
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Join("Alice")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(a.UserID, "user_") {
		t.Errorf("UserID = %q, want user_ prefix", a.UserID)
	}
	if a.UserID == b.UserID {
		t.Errorf("two joins share id %q", a.UserID)
	}
	if r.ParticipantCount() != 2 {
		t.Errorf("ParticipantCount() = %d, want 2", r.ParticipantCount())
	}
}

func TestAdmitIsSilent(t *testing.T) {
	r, b, _ := newTestRoom(t)
	ch, unsub := b.SubscribeAll(16, "participant.", "message.")
	defer unsub()

	r.Admit("demo_user_1", "Emma Thompson")
	if len(r.History()) != 0 {
		t.Errorf("Admit() wrote %d messages, want 0", len(r.History()))
	}
	if got := kinds(drain(ch)); !slices.Equal(got, []string{bus.ParticipantJoined}) {
		t.Errorf("events = %v, want [%s]", got, bus.ParticipantJoined)
	}
}

func TestLeave(t *testing.T) {
	r, b, _ := newTestRoom(t)
	p, _ := r.Join("Alice")
	bob, _ := r.Join("Bob")
	r.Keystroke(bob.UserID)

	ch, unsub := b.SubscribeAll(16, "participant.", "message.", "typing.")
	defer unsub()

	if !r.Leave(bob.UserID) {
		t.Fatal("Leave(bob) = false, want true")
	}
	if got := r.Typers(p.UserID); len(got) != 0 {
		t.Errorf("Typers() = %v, want []", got)
	}
	history := r.History()
	last := history[len(history)-1]
	if last.Content != "Bob left the conversation" || !last.IsSystem() {
		t.Errorf("last message = %+v, want leave notice", last)
	}

	got := kinds(drain(ch))
	want := []string{bus.TypingChanged, bus.ParticipantLeft, bus.MessageCreated}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}

	if r.Leave(bob.UserID) {
		t.Error("second Leave(bob) = true, want false")
	}
	if r.Leave("ghost") {
		t.Error("Leave(ghost) = true, want false")
	}
}

func TestSend(t *testing.T) {
	r, b, _ := newTestRoom(t)
	alice, _ := r.Join("Alice")

	ch, unsub := b.Subscribe("message.", 4)
	defer unsub()

	msg, err := r.Send(alice.UserID, "  hi all ")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg.Content != "hi all" || msg.DisplayName != "Alice" || msg.Kind != session.KindUser {
		t.Errorf("msg = %+v", msg)
	}

	select {
	case evt := <-ch:
		got, ok := evt.Payload.(session.Message)
		if !ok || got != msg {
			t.Errorf("payload = %+v, want %+v", evt.Payload, msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message.created")
	}
}

func TestSendRejects(t *testing.T) {
	r, b, _ := newTestRoom(t)
	alice, _ := r.Join("Alice")

	ch, unsub := b.Subscribe("message.", 4)
	defer unsub()

	if _, err := r.Send(alice.UserID, "   "); !errors.Is(err, session.ErrInvalidInput) {
		t.Errorf("Send(blank) error = %v, want ErrInvalidInput", err)
	}
	if _, err := r.Send("ghost", "hello"); !errors.Is(err, session.ErrUnknownParticipant) {
		t.Errorf("Send(ghost) error = %v, want ErrUnknownParticipant", err)
	}
	if evts := drain(ch); len(evts) != 0 {
		t.Errorf("rejected sends published %v", kinds(evts))
	}
}

func TestKeystrokeExpires(t *testing.T) {
	r, b, ft := newTestRoom(t, WithTypingTimeout(5*time.Second))
	alice, _ := r.Join("Alice")
	bob, _ := r.Join("Bob")

	ch, unsub := b.Subscribe("typing.", 16)
	defer unsub()

	r.Keystroke(bob.UserID)
	r.Keystroke(bob.UserID)
	r.Keystroke(bob.UserID)

	if got := r.Typers(alice.UserID); !slices.Equal(got, []string{"Bob"}) {
		t.Errorf("Typers(alice) = %v, want [Bob]", got)
	}
	evts := drain(ch)
	if len(evts) != 1 {
		t.Fatalf("got %d typing events for repeated keystrokes, want 1", len(evts))
	}
	if change := evts[0].Payload.(bus.TypingChange); change.UserID != bob.UserID || !change.Typing {
		t.Errorf("change = %+v, want bob typing", change)
	}
	for _, tm := range ft.timers {
		if tm.d != 5*time.Second {
			t.Errorf("timer duration = %v, want 5s", tm.d)
		}
	}

	ft.fire()
	if got := r.Typers(alice.UserID); len(got) != 0 {
		t.Errorf("Typers(alice) after expiry = %v, want []", got)
	}
	evts = drain(ch)
	if len(evts) != 1 || evts[0].Payload.(bus.TypingChange).Typing {
		t.Errorf("expiry events = %+v, want one typing=false", evts)
	}
}

func TestStaleTimerDoesNotClearNewerKeystroke(t *testing.T) {
	r, _, ft := newTestRoom(t)
	alice, _ := r.Join("Alice")

	r.Keystroke(alice.UserID)
	r.Keystroke(alice.UserID)

	// Run only the first timer even though it was replaced.
	ft.timers[0].f()
	if got := r.Typers(""); !slices.Equal(got, []string{"Alice"}) {
		t.Errorf("Typers() = %v, want [Alice]; superseded timer cleared typing", got)
	}

	ft.fire()
	if got := r.Typers(""); len(got) != 0 {
		t.Errorf("Typers() = %v, want [] after current timer", got)
	}
}

func TestSendClearsTypingAndTimer(t *testing.T) {
	r, b, ft := newTestRoom(t)
	alice, _ := r.Join("Alice")
	r.Keystroke(alice.UserID)

	ch, unsub := b.SubscribeAll(8, "typing.", "message.")
	defer unsub()

	if _, err := r.Send(alice.UserID, "hello"); err != nil {
		t.Fatal(err)
	}
	if got := r.Typers(""); len(got) != 0 {
		t.Errorf("Typers() = %v, want []", got)
	}
	got := kinds(drain(ch))
	if want := []string{bus.TypingChanged, bus.MessageCreated}; !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	for _, tm := range ft.timers {
		if !tm.stopped {
			t.Error("typing timer still armed after send")
		}
	}

	// A late expiry must not publish a second transition.
	ft.fireStale()
	if evts := drain(ch); len(evts) != 0 {
		t.Errorf("stale expiry published %v", kinds(evts))
	}
}

func TestKeystrokeUnknownUser(t *testing.T) {
	r, b, ft := newTestRoom(t)
	ch, unsub := b.Subscribe("typing.", 4)
	defer unsub()

	r.Keystroke("ghost")
	if len(ft.timers) != 0 {
		t.Error("timer armed for unknown user")
	}
	if evts := drain(ch); len(evts) != 0 {
		t.Errorf("events = %v, want none", kinds(evts))
	}
}

func TestSetTyping(t *testing.T) {
	r, b, ft := newTestRoom(t)
	r.Admit("demo_1", "Emma")
	r.Admit("demo_2", "David")

	ch, unsub := b.Subscribe("typing.", 8)
	defer unsub()

	r.SetTyping("demo_1", true)
	r.SetTyping("demo_2", true)
	r.SetTyping("demo_1", true)
	if got := r.Typers(""); !slices.Equal(got, []string{"Emma", "David"}) {
		t.Errorf("Typers() = %v, want [Emma David]", got)
	}
	if len(ft.timers) != 0 {
		t.Error("SetTyping armed an expiry timer")
	}

	r.SetTyping("demo_1", false)
	if got := r.Typers(""); !slices.Equal(got, []string{"David"}) {
		t.Errorf("Typers() = %v, want [David]", got)
	}
	if n := len(drain(ch)); n != 3 {
		t.Errorf("got %d typing events, want 3", n)
	}
}

func TestAnnounce(t *testing.T) {
	r, _, _ := newTestRoom(t)
	msg := r.Announce("Welcome!")
	if msg.ID != 1 || !msg.IsSystem() || msg.Content != "Welcome!" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestCloseStopsTimers(t *testing.T) {
	r, _, ft := newTestRoom(t)
	a, _ := r.Join("Alice")
	b, _ := r.Join("Bob")
	r.Keystroke(a.UserID)
	r.Keystroke(b.UserID)

	r.Close()
	for i, tm := range ft.timers {
		if !tm.stopped {
			t.Errorf("timer %d not stopped", i)
		}
	}
}

func TestKeystrokeRealTimer(t *testing.T) {
	b := bus.New()
	r := New(session.NewStore(), b, zap.NewNop(), WithTypingTimeout(20*time.Millisecond))
	defer r.Close()
	alice, _ := r.Join("Alice")

	ch, unsub := b.Subscribe("typing.", 4)
	defer unsub()

	r.Keystroke(alice.UserID)
	<-ch

	select {
	case evt := <-ch:
		if evt.Payload.(bus.TypingChange).Typing {
			t.Error("expected typing=false after timeout")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("typing flag never expired")
	}
}
