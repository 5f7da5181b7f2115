package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Logo displays the ConnectChat banner on the welcome page.
type Logo struct {
	*tview.TextView
	theme *Theme
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(1, 0, 0, 0)

	l := &Logo{
		TextView: tv,
		theme:    theme,
	}
	l.render()
	return l
}

func (l *Logo) render() {
	title := ColorTag(l.theme.TitleColor)
	fg := ColorTag(l.theme.FgColor)

	_, _ = fmt.Fprintf(l,
		"[%s::b]╔═╗┌─┐┌┐┌┌┐┌┌─┐┌─┐┌┬┐  ╔═╗┬ ┬┌─┐┌┬┐[-:-:-]\n"+
			"[%s::b]║  │ │││││││├┤ │   │   ║  ├─┤├─┤ │ [-:-:-]\n"+
			"[%s::b]╚═╝└─┘┘└┘┘└┘└─┘└─┘ ┴   ╚═╝┴ ┴┴ ┴ ┴ [-:-:-]\n"+
			"[%s]Connect with people in real-time[-:-:-]",
		title, title, title, fg,
	)
}
