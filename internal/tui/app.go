// Package tui is the terminal client: a welcome page asking for a name, the
// chat page and a help page, redrawn from bus events.
package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/connectchat/internal/bus"
	"github.com/matheus3301/connectchat/internal/room"
	"github.com/matheus3301/connectchat/internal/session"
	"github.com/matheus3301/connectchat/internal/status"
	"github.com/matheus3301/connectchat/internal/tui/keys"
	"github.com/matheus3301/connectchat/internal/tui/ui"
	"github.com/matheus3301/connectchat/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageWelcome = "welcome"
	pageChat    = "chat"
	pageHelp    = "help"
)

// InvalidNameNotice is shown when the entered display name is rejected.
const InvalidNameNotice = "Please enter a valid name (minimum 2 characters)"

// refreshInterval paces redraws that no bus event triggers, such as a flash
// notice expiring.
const refreshInterval = time.Second

// App is the main TUI application shell.
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	theme     *ui.Theme
	room      *room.Room
	bus       *bus.Bus
	phase     *status.Machine
	logger    *zap.Logger
	registry  *keys.Registry
	flash     *ui.FlashModel
	welcome   *views.WelcomeView
	msgView   *views.MessageView
	typing    *views.TypingIndicator
	composer  *views.Composer
	statusBar *views.StatusBar
	help      *views.HelpView

	mu       sync.Mutex
	self     session.Participant
	lastPage string

	// redraw schedules render on the UI goroutine.
	redraw func()

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(r *room.Room, b *bus.Bus, phase *status.Machine, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		theme:     theme,
		room:      r,
		bus:       b,
		phase:     phase,
		logger:    logger,
		registry:  keys.NewRegistry(),
		flash:     ui.NewFlashModel(),
		welcome:   views.NewWelcomeView(theme),
		msgView:   views.NewMessageView(theme),
		typing:    views.NewTypingIndicator(theme),
		composer:  views.NewComposer(theme),
		statusBar: views.NewStatusBar(theme),
		help:      views.NewHelpView(theme),
		lastPage:  pageWelcome,
		ctx:       ctx,
		cancel:    cancel,
	}

	a.redraw = func() { a.app.QueueUpdateDraw(a.render) }

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.render()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Name: "quit", Key: tcell.KeyCtrlQ,
		Description: "^Q:quit", Visible: true,
		Handler: a.quit,
	})
	a.registry.AddGlobal(&keys.Action{
		Name: "help", Key: tcell.KeyF1,
		Description: "F1:help", Visible: true,
		Handler: a.showHelp,
	})
	a.registry.AddView(pageChat, &keys.Action{
		Name: "leave", Key: tcell.KeyCtrlL,
		Description: "^L:leave", Visible: true,
		Handler: a.leave,
	})
	a.registry.AddView(pageHelp, &keys.Action{
		Name: "back", Key: tcell.KeyEscape,
		Description: "Esc:back", Visible: true,
		Handler: a.hideHelp,
	})
}

func (a *App) setupCallbacks() {
	a.welcome.SetOnSubmit(a.join)
	a.composer.SetOnSend(a.submit)
	a.composer.SetOnKeystroke(func() {
		if id := a.selfID(); id != "" {
			a.room.Keystroke(id)
		}
	})
}

func (a *App) setupLayout() {
	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.msgView, 0, 1, false).
		AddItem(a.typing, 1, 0, false).
		AddItem(a.composer, 1, 0, true)

	a.pages.AddPage(pageWelcome, a.welcome, true, true)
	a.pages.AddPage(pageChat, chatFlex, true, false)
	a.pages.AddPage(pageHelp, a.help, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)
	a.app.SetFocus(a.welcome.Input())

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.registry.HandleEvent(a.currentPage(), event) {
			return nil
		}
		return event
	})
}

func (a *App) currentPage() string {
	name, _ := a.pages.GetFrontPage()
	return name
}

func (a *App) selfID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.self.UserID
}

func (a *App) join(name string) {
	p, err := a.room.Join(name)
	if err != nil {
		a.logger.Debug("join rejected", zap.String("name", name), zap.Error(err))
		a.welcome.SetNotice(InvalidNameNotice)
		a.flash.Warn(InvalidNameNotice)
		a.render()
		return
	}
	if err := a.phase.Transition(status.Chatting); err != nil {
		a.logger.Error("phase transition failed", zap.Error(err))
	}

	a.mu.Lock()
	a.self = p
	a.mu.Unlock()

	a.flash.Info("Joined as " + p.DisplayName)
	a.welcome.Reset()
	a.showPage(pageChat)
	a.app.SetFocus(a.composer.InputField)
	a.render()
}

func (a *App) submit(text string) {
	if cmd, ok := ParseCommand(text); ok {
		a.runCommand(cmd)
		return
	}
	id := a.selfID()
	if id == "" {
		return
	}
	if _, err := a.room.Send(id, text); err != nil {
		if !errors.Is(err, session.ErrInvalidInput) {
			a.logger.Warn("send failed", zap.Error(err))
			a.flash.Err(err)
		}
	}
	a.render()
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "leave":
		a.leave()
	case "quit", "q":
		a.quit()
	case "help", "h":
		a.showHelp()
	default:
		a.flash.Warn("Unknown command: /" + cmd.Name)
		a.render()
	}
}

// depart removes the local user from the room. It touches no widgets, so it
// is safe off the UI goroutine. It reports false when nobody was joined.
func (a *App) depart() bool {
	a.mu.Lock()
	self := a.self
	a.self = session.Participant{}
	a.mu.Unlock()
	if self.UserID == "" {
		return false
	}

	a.room.Leave(self.UserID)
	if err := a.phase.Transition(status.Left); err != nil {
		a.logger.Error("phase transition failed", zap.Error(err))
	}
	return true
}

// leave announces the local user's departure and returns to the welcome page.
func (a *App) leave() {
	if !a.depart() {
		return
	}

	a.flash.Info("You left the conversation")
	a.composer.SetText("")
	a.welcome.SetNotice("You left the conversation. Enter a name to join again")
	a.showPage(pageWelcome)
	a.app.SetFocus(a.welcome.Input())
	a.render()
}

func (a *App) quit() {
	a.leave()
	a.app.Stop()
}

func (a *App) showHelp() {
	if a.currentPage() == pageHelp {
		return
	}
	a.lastPage = a.currentPage()
	a.showPage(pageHelp)
	a.app.SetFocus(a.help)
}

func (a *App) hideHelp() {
	a.showPage(a.lastPage)
	if a.lastPage == pageChat {
		a.app.SetFocus(a.composer.InputField)
	} else {
		a.app.SetFocus(a.welcome.Input())
	}
}

func (a *App) showPage(name string) {
	a.pages.SwitchToPage(name)
	a.statusBar.SetHints(a.registry.Hints(name))
}

// render copies the room state into the widgets. It must run on the UI
// goroutine once the application is running.
func (a *App) render() {
	self := a.selfID()

	a.msgView.Update(a.room.History(), self)
	if self == "" {
		a.typing.SetTypers(nil)
	} else {
		a.typing.SetTypers(a.room.Typers(self))
	}

	a.mu.Lock()
	name := a.self.DisplayName
	a.mu.Unlock()
	a.statusBar.SetName(name)
	a.statusBar.SetCount(a.room.ParticipantCount())
	a.statusBar.SetHints(a.registry.Hints(a.currentPage()))
	a.statusBar.SetFlash(a.flash.GetMessage())
}

func (a *App) watch(events <-chan bus.Event, ticks <-chan time.Time) {
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticks:
			a.redraw()
		case _, ok := <-events:
			if !ok {
				return
			}
			// Collapse bursts into one redraw.
			for drained := false; !drained; {
				select {
				case <-events:
				default:
					drained = true
				}
			}
			a.redraw()
		}
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	events, unsub := a.bus.SubscribeAll(256, "message.", "typing.", "participant.", "client.")
	defer unsub()
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	go a.watch(events, ticker.C)

	err := a.app.Run()
	a.cancel()
	return err
}

// Stop leaves the room if the local user is still in it, then ends the
// event loop. Safe to call when Run already returned.
func (a *App) Stop() {
	if a.depart() {
		a.logger.Info("left the conversation on shutdown")
	}
	a.cancel()
	a.app.Stop()
}
