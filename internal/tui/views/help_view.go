package views

import (
	"fmt"

	"github.com/matheus3301/connectchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

func (hv *HelpView) render() {
	kc := ui.ColorTag(hv.theme.MenuKeyColor)

	help := fmt.Sprintf(`
  [::b]Keys[-:-:-]

  [%s]Enter[-:-:-]    Send message / join
  [%s]F1[-:-:-]       Show this help
  [%s]Esc[-:-:-]      Close help
  [%s]Ctrl-L[-:-:-]   Leave the conversation
  [%s]Ctrl-Q[-:-:-]   Quit

  [::b]Commands[-:-:-]

  [%s]/help[-:-:-]    Show this help
  [%s]/leave[-:-:-]   Leave the conversation
  [%s]/quit[-:-:-]    Quit

  Others see you as typing while you edit a draft. The flag clears when you
  send, or after a few seconds without a keystroke.
`,
		kc, kc, kc, kc, kc,
		kc, kc, kc,
	)

	_, _ = fmt.Fprint(hv, help)
}
