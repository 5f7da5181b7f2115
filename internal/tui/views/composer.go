package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/connectchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// Composer is the text input for sending messages.
type Composer struct {
	*tview.InputField
	onSend      func(text string)
	onKeystroke func()
}

// NewComposer creates a new message composer.
func NewComposer(theme *ui.Theme) *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetPlaceholder("Type a message, /help for commands").
		SetFieldWidth(0)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)

	c := &Composer{InputField: input}

	input.SetChangedFunc(func(text string) {
		if text != "" && c.onKeystroke != nil {
			c.onKeystroke()
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			c.submit()
		}
	})

	return c
}

// SetOnSend sets the callback when a message is sent.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// SetOnKeystroke sets the callback fired whenever the draft changes to
// something non-empty.
func (c *Composer) SetOnKeystroke(fn func()) {
	c.onKeystroke = fn
}

func (c *Composer) submit() {
	text := c.GetText()
	if text == "" || c.onSend == nil {
		return
	}
	c.SetText("")
	c.onSend(text)
}
