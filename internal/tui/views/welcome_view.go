package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/connectchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// WelcomeView asks for a display name before joining.
type WelcomeView struct {
	*tview.Flex
	theme    *ui.Theme
	notice   *tview.TextView
	input    *tview.InputField
	onSubmit func(name string)
}

// NewWelcomeView creates the join form.
func NewWelcomeView(theme *ui.Theme) *WelcomeView {
	notice := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	notice.SetBackgroundColor(theme.BgColor)

	input := tview.NewInputField().
		SetLabel(" Your name: ").
		SetFieldWidth(32)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetBackgroundColor(theme.BgColor)

	form := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.NewLogo(theme), 6, 0, false).
		AddItem(notice, 2, 0, false).
		AddItem(input, 1, 0, true)
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetTitle(" Join the conversation ")
	form.SetTitleColor(theme.TitleColor)
	form.SetBackgroundColor(theme.BgColor)

	// Center the form.
	outer := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, 12, 0, true).
			AddItem(nil, 0, 1, false), 56, 0, true).
		AddItem(nil, 0, 1, false)

	wv := &WelcomeView{
		Flex:   outer,
		theme:  theme,
		notice: notice,
		input:  input,
	}
	wv.SetNotice("Enter a display name and press Enter")

	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && wv.onSubmit != nil {
			wv.onSubmit(input.GetText())
		}
	})
	return wv
}

// SetOnSubmit sets the callback run with the raw name on Enter.
func (wv *WelcomeView) SetOnSubmit(fn func(name string)) {
	wv.onSubmit = fn
}

// SetNotice replaces the hint above the input.
func (wv *WelcomeView) SetNotice(text string) {
	wv.notice.Clear()
	_, _ = fmt.Fprintf(wv.notice, "[%s]%s[-]", ui.ColorTag(wv.theme.FgColor), tview.Escape(text))
}

// Notice returns the hint text without markup.
func (wv *WelcomeView) Notice() string {
	return wv.notice.GetText(true)
}

// Input returns the name field so it can take focus.
func (wv *WelcomeView) Input() *tview.InputField {
	return wv.input
}

// Reset clears the typed name.
func (wv *WelcomeView) Reset() {
	wv.input.SetText("")
}
