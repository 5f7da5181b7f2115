// Package demo drives the simulated participants that keep an otherwise
// empty room lively.
package demo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/matheus3301/connectchat/internal/bus"
	"github.com/matheus3301/connectchat/internal/config"
	"github.com/matheus3301/connectchat/internal/room"
	"github.com/matheus3301/connectchat/internal/session"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// IDPrefix marks the user ids of simulated participants.
const IDPrefix = "demo_"

// IsDemo reports whether userID belongs to a simulated participant.
func IsDemo(userID string) bool {
	return strings.HasPrefix(userID, IDPrefix)
}

// Responder posts canned replies from demo participants after randomized
// delays. Any message from a real participant pushes the next reply back.
type Responder struct {
	room   *room.Room
	bus    *bus.Bus
	cfg    config.Demo
	rng    *rand.Rand
	logger *zap.Logger

	seeded []string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewResponder creates a responder. rng may be nil.
func NewResponder(r *room.Room, b *bus.Bus, cfg config.Demo, rng *rand.Rand, logger *zap.Logger) *Responder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Responder{
		room:   r,
		bus:    b,
		cfg:    cfg,
		rng:    rng,
		logger: logger,
	}
}

// Seed admits the configured demo participants.
func (d *Responder) Seed() []session.Participant {
	stamp := time.Now().UnixMilli()
	out := make([]session.Participant, 0, len(d.cfg.Participants))
	for i, name := range d.cfg.Participants {
		id := fmt.Sprintf("%suser_%d_%d", IDPrefix, i+1, stamp)
		out = append(out, d.room.Admit(id, name))
		d.seeded = append(d.seeded, id)
	}
	d.logger.Info("demo participants seeded", zap.Int("count", len(out)))
	return out
}

// Start begins the responder loop.
func (d *Responder) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	events, unsub := d.bus.SubscribeAll(64, "participant.", "message.")
	go func() {
		defer close(d.done)
		defer unsub()
		d.loop(ctx, events)
	}()
}

// Stop stops the loop and waits for it to exit.
func (d *Responder) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
}

// pendingReply is a demo participant that is currently "typing".
type pendingReply struct {
	userID string
	text   string
}

func (d *Responder) loop(ctx context.Context, events <-chan bus.Event) {
	greeting := time.NewTimer(d.cfg.GreetingDelay)
	defer greeting.Stop()

	respond := time.NewTimer(time.Hour)
	respond.Stop()
	defer respond.Stop()
	typing := time.NewTimer(time.Hour)
	typing.Stop()
	defer typing.Stop()

	var pending *pendingReply

	for {
		select {
		case <-ctx.Done():
			return

		case <-greeting.C:
			d.greet()

		case evt := <-events:
			if d.triggersReply(evt) {
				respond.Reset(d.between(d.cfg.ResponseDelayMin, d.cfg.ResponseDelayMax))
			}

		case <-respond.C:
			if pending != nil {
				// The reply in flight reschedules once posted.
				continue
			}
			pending = d.startReply()
			if pending != nil {
				typing.Reset(d.between(d.cfg.TypingDelayMin, d.cfg.TypingDelayMax))
			}

		case <-typing.C:
			if pending == nil {
				continue
			}
			if _, err := d.room.Send(pending.userID, pending.text); err != nil {
				d.logger.Debug("demo reply dropped", zap.String("user_id", pending.userID), zap.Error(err))
				pending = nil
				continue
			}
			pending = nil
			respond.Reset(d.between(d.cfg.ResponseDelayMin, d.cfg.ResponseDelayMax))
		}
	}
}

// triggersReply reports whether evt is activity from a real participant.
func (d *Responder) triggersReply(evt bus.Event) bool {
	switch evt.Kind {
	case bus.ParticipantJoined:
		p, ok := evt.Payload.(session.Participant)
		return ok && !IsDemo(p.UserID)
	case bus.MessageCreated:
		m, ok := evt.Payload.(session.Message)
		return ok && !m.IsSystem() && !IsDemo(m.SenderID)
	}
	return false
}

func (d *Responder) greet() {
	if len(d.seeded) == 0 {
		return
	}
	if _, err := d.room.Send(d.seeded[0], d.cfg.GreetingText); err != nil {
		d.logger.Debug("demo greeting skipped", zap.Error(err))
	}
}

// startReply picks a present demo participant and a canned reply, and marks
// the participant as typing. It returns nil when no demo participant is left.
func (d *Responder) startReply() *pendingReply {
	candidates := lo.Filter(d.room.Participants(), func(p session.Participant, _ int) bool {
		return IsDemo(p.UserID)
	})
	if len(candidates) == 0 || len(d.cfg.Responses) == 0 {
		return nil
	}
	p := candidates[d.rng.IntN(len(candidates))]
	text := d.cfg.Responses[d.rng.IntN(len(d.cfg.Responses))]
	d.room.SetTyping(p.UserID, true)
	return &pendingReply{userID: p.UserID, text: text}
}

// between returns a uniformly random duration in [from, to).
func (d *Responder) between(from, to time.Duration) time.Duration {
	if to <= from {
		return from
	}
	return from + time.Duration(d.rng.Int64N(int64(to-from)))
}
