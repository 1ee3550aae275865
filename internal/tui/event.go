package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Event is something the terminal driver reports to the app loop.
type Event interface {
	isEvent()
}

// EventTick fires at the data refresh cadence.
type EventTick struct{}

// EventFrame fires at the render cadence.
type EventFrame struct{}

// EventResize reports the new terminal size in cells.
type EventResize struct {
	W, H int
}

// EventKey is a single key press.
type EventKey struct {
	Key Key
}

func (EventTick) isEvent()   {}
func (EventFrame) isEvent()  {}
func (EventResize) isEvent() {}
func (EventKey) isEvent()    {}

// Key identifies a key press. Code uses the bubbletea naming ("enter",
// "ctrl+d", "f1", "a"); Runes holds the text typed, if any.
type Key struct {
	Code  string
	Runes []rune
	Alt   bool
}

// String returns the key code so keys work with key.Matches.
func (k Key) String() string {
	return k.Code
}

// IsRune reports whether the key typed printable text.
func (k Key) IsRune() bool {
	return len(k.Runes) > 0 && !k.Alt
}

// NewKey builds a key from its code. Single character codes carry their rune.
func NewKey(code string) Key {
	k := Key{Code: code}
	if r := []rune(code); len(r) == 1 {
		k.Runes = r
	}
	return k
}

// KeyFromMsg converts a bubbletea key message.
func KeyFromMsg(msg tea.KeyMsg) Key {
	k := Key{Code: msg.String(), Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyRunes:
		k.Runes = msg.Runes
		if msg.Paste {
			k.Code = string(msg.Runes)
		}
	case tea.KeySpace:
		k.Runes = []rune{' '}
	}
	return k
}
