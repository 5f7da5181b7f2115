package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/connectchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar displays the local user, the online count and key hints.
type StatusBar struct {
	*tview.TextView
	theme *ui.Theme
	name  string
	count int
	hints []string
	flash *ui.FlashMessage
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	sb := &StatusBar{TextView: tv, theme: theme}
	sb.render()
	return sb
}

// SetName updates the local display name. Empty means not joined.
func (sb *StatusBar) SetName(name string) {
	sb.name = name
	sb.render()
}

// SetCount updates the participant counter.
func (sb *StatusBar) SetCount(n int) {
	sb.count = n
	sb.render()
}

// SetHints updates the key hints.
func (sb *StatusBar) SetHints(hints []string) {
	sb.hints = hints
	sb.render()
}

// SetFlash sets a temporary message; nil clears it.
func (sb *StatusBar) SetFlash(msg *ui.FlashMessage) {
	sb.flash = msg
	sb.render()
}

// CountText phrases the online counter.
func CountText(n int) string {
	if n == 1 {
		return "1 participant online"
	}
	return fmt.Sprintf("%d participants online", n)
}

func (sb *StatusBar) render() {
	sb.Clear()

	parts := make([]string, 0, 4)
	if sb.name != "" {
		parts = append(parts, fmt.Sprintf("[::b]%s[-:-:-]", tview.Escape(sb.name)))
	}
	parts = append(parts, fmt.Sprintf("[%s]%s[-]", ui.ColorTag(sb.theme.CounterColor), CountText(sb.count)))
	if len(sb.hints) > 0 {
		parts = append(parts, fmt.Sprintf("[%s]%s[-]", ui.ColorTag(sb.theme.MenuKeyColor), strings.Join(sb.hints, "  ")))
	}
	if flash := ui.FlashMarkup(sb.theme, sb.flash); flash != "" {
		parts = append(parts, flash)
	}

	_, _ = fmt.Fprint(sb, " "+strings.Join(parts, " | "))
}
