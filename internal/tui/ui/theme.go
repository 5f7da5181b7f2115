package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor        tcell.Color
	FgColor        tcell.Color
	BorderColor    tcell.Color
	TitleColor     tcell.Color
	MenuKeyColor   tcell.Color
	SenderColor    tcell.Color
	SelfColor      tcell.Color
	SystemColor    tcell.Color
	TypingColor    tcell.Color
	CounterColor   tcell.Color
	FlashInfoColor tcell.Color
	FlashWarnColor tcell.Color
	FlashErrColor  tcell.Color
}

// DefaultTheme returns the dark theme used by the client.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:        tcell.ColorBlack,
		FgColor:        tcell.ColorWhiteSmoke,
		BorderColor:    tcell.ColorDodgerBlue,
		TitleColor:     tcell.ColorFuchsia,
		MenuKeyColor:   tcell.ColorDodgerBlue,
		SenderColor:    tcell.ColorAqua,
		SelfColor:      tcell.ColorLime,
		SystemColor:    tcell.ColorGray,
		TypingColor:    tcell.ColorNavajoWhite,
		CounterColor:   tcell.ColorPapayaWhip,
		FlashInfoColor: tcell.ColorNavajoWhite,
		FlashWarnColor: tcell.ColorOrange,
		FlashErrColor:  tcell.ColorOrangeRed,
	}
}

// ColorTag returns a tview-compatible color name string.
func ColorTag(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
