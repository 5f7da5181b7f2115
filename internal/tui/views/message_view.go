package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/connectchat/internal/session"
	"github.com/matheus3301/connectchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageView displays the conversation history.
type MessageView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewMessageView creates a new message view.
func NewMessageView(theme *ui.Theme) *MessageView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" ConnectChat ")
	tv.SetBorderColor(theme.BorderColor)
	tv.SetTitleColor(theme.TitleColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)

	return &MessageView{TextView: tv, theme: theme}
}

// Update redraws the history, oldest first. Messages sent by selfID are
// highlighted.
func (mv *MessageView) Update(msgs []session.Message, selfID string) {
	mv.Clear()

	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(FormatMessage(mv.theme, m, selfID))
	}
	_, _ = fmt.Fprint(mv, b.String())

	mv.ScrollToEnd()
}

// FormatMessage renders one message as tview markup.
func FormatMessage(theme *ui.Theme, m session.Message, selfID string) string {
	body := tview.Escape(sanitizeForTerminal(m.Content))
	ts := m.CreatedAt.Format("15:04")

	if m.IsSystem() {
		return fmt.Sprintf("[%s::i]  * %s * [::d]%s[-:-:-]\n\n", ui.ColorTag(theme.SystemColor), body, ts)
	}

	color := ui.ColorTag(theme.SenderColor)
	sender := tview.Escape(sanitizeForTerminal(m.DisplayName))
	if selfID != "" && m.SenderID == selfID {
		color = ui.ColorTag(theme.SelfColor)
		sender += " (you)"
	}
	return fmt.Sprintf("[%s::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n", color, sender, ts, body)
}
