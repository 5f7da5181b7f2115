package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/connectchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// TypingIndicator shows who else is composing a message.
type TypingIndicator struct {
	*tview.TextView
	theme *ui.Theme
}

// NewTypingIndicator creates an empty typing indicator.
func NewTypingIndicator(theme *ui.Theme) *TypingIndicator {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &TypingIndicator{TextView: tv, theme: theme}
}

// SetTypers replaces the displayed names. An empty list hides the line.
func (ti *TypingIndicator) SetTypers(names []string) {
	ti.Clear()
	text := TypingText(names)
	if text == "" {
		return
	}
	_, _ = fmt.Fprintf(ti, " [%s::i]%s...[-:-:-]", ui.ColorTag(ti.theme.TypingColor), tview.Escape(text))
}

// TypingText phrases the typing line: "Emma is typing" for one name,
// "Emma and David are typing" for two, "Emma, David and Lisa are typing"
// for more. It returns "" for nobody.
func TypingText(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0] + " is typing"
	default:
		head := strings.Join(names[:len(names)-1], ", ")
		return head + " and " + names[len(names)-1] + " are typing"
	}
}
