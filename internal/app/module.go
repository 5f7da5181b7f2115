// Package app composes the ConnectChat process with fx.
package app

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/matheus3301/connectchat/internal/bus"
	"github.com/matheus3301/connectchat/internal/config"
	"github.com/matheus3301/connectchat/internal/demo"
	"github.com/matheus3301/connectchat/internal/logging"
	"github.com/matheus3301/connectchat/internal/room"
	"github.com/matheus3301/connectchat/internal/session"
	"github.com/matheus3301/connectchat/internal/status"
	"github.com/matheus3301/connectchat/internal/tui"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// UI is what the lifecycle needs from the terminal client. Stop leaves the
// room on behalf of the local user before ending the event loop.
type UI interface {
	Run() error
	Stop()
}

// Module returns the fx options for a ConnectChat process using cfg.
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Module("connectchat",
			fx.Supply(cfg),
			fx.Provide(
				provideLogger,
				provideBus,
				provideStore,
				provideRoom,
				provideStateMachine,
				provideResponder,
				provideUI,
			),
			fx.Invoke(registerLifecycle),
		),
	)
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.EffectiveLogPath(), cfg.LogLevel)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStore() *session.Store {
	return session.NewStore()
}

func provideRoom(cfg *config.Config, s *session.Store, b *bus.Bus, logger *zap.Logger) *room.Room {
	return room.New(s, b, logger.Named("room"), room.WithTypingTimeout(cfg.TypingTimeout))
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideResponder(cfg *config.Config, r *room.Room, b *bus.Bus, logger *zap.Logger) *demo.Responder {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	return demo.NewResponder(r, b, cfg.Demo, rng, logger.Named("demo"))
}

func provideUI(r *room.Room, b *bus.Bus, m *status.Machine, logger *zap.Logger) UI {
	return tui.NewApp(r, b, m, logger.Named("tui"))
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Room       *room.Room
	Responder  *demo.Responder
	UI         UI
	Logger     *zap.Logger
}

func registerLifecycle(p lifecycleParams) {
	var welcome *time.Timer

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			welcome = time.AfterFunc(p.Config.WelcomeDelay, func() {
				p.Room.Announce(p.Config.WelcomeText)
			})

			if p.Config.Demo.Enabled {
				p.Responder.Seed()
				p.Responder.Start(context.Background())
			}

			go func() {
				if err := p.UI.Run(); err != nil {
					p.Logger.Error("terminal UI error", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = p.Shutdowner.Shutdown()
			}()

			p.Logger.Info("connectchat started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			if welcome != nil {
				welcome.Stop()
			}
			p.UI.Stop()
			p.Responder.Stop()
			p.Room.Close()
			p.Logger.Info("connectchat stopped")
			_ = p.Logger.Sync()
			return nil
		},
	})
}
