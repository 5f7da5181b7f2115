package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// FlashMessage is a flash notification with a level and expiry.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the current transient notification.
type FlashModel struct {
	mu      sync.RWMutex
	current FlashMessage
	now     func() time.Time
}

// FlashOption configures a FlashModel.
type FlashOption func(*FlashModel)

// WithFlashClock overrides the time source used for expiry.
func WithFlashClock(now func() time.Time) FlashOption {
	return func(f *FlashModel) {
		f.now = now
	}
}

// NewFlashModel creates a new flash model.
func NewFlashModel(opts ...FlashOption) *FlashModel {
	f := &FlashModel{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Info sets an info-level flash message.
func (f *FlashModel) Info(msg string) {
	f.set(msg, FlashInfo, 5*time.Second)
}

// Warn sets a warn-level flash message.
func (f *FlashModel) Warn(msg string) {
	f.set(msg, FlashWarn, 8*time.Second)
}

// Err sets an error-level flash message.
func (f *FlashModel) Err(err error) {
	f.set(err.Error(), FlashErr, 10*time.Second)
}

// Clear drops the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
}

func (f *FlashModel) set(msg string, level FlashLevel, d time.Duration) {
	f.mu.Lock()
	f.current = FlashMessage{
		Text:    msg,
		Level:   level,
		Expires: f.now().Add(d),
	}
	f.mu.Unlock()
}

// Get returns the current flash message text, or empty if expired.
func (f *FlashModel) Get() string {
	if m := f.GetMessage(); m != nil {
		return m.Text
	}
	return ""
}

// GetMessage returns the current flash message, or nil if expired.
func (f *FlashModel) GetMessage() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Text == "" || f.now().After(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// FlashMarkup renders msg as a colored tview fragment, or "" for nil.
func FlashMarkup(theme *Theme, msg *FlashMessage) string {
	if msg == nil {
		return ""
	}

	var color string
	switch msg.Level {
	case FlashWarn:
		color = ColorTag(theme.FlashWarnColor)
	case FlashErr:
		color = ColorTag(theme.FlashErrColor)
	default:
		color = ColorTag(theme.FlashInfoColor)
	}
	return fmt.Sprintf("[%s]%s[-]", color, tview.Escape(msg.Text))
}
