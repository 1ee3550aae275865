package ui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/key"

	"github.com/pyaillet/doggy/internal/tui"
)

// Screen is the view currently owned by the app. Exactly one is active; the
// app tears it down before installing its replacement.
type Screen interface {
	Name() string
	// Register hands the screen its action sender. Background workers
	// may be started here and must stop when ctx is done or on Teardown.
	Register(ctx context.Context, tx Sender)
	// Update reacts to an action. Returned errors are shown as toasts.
	Update(ctx context.Context, a Action) error
	View(width, height int) string
	// Bindings lists the screen specific keys for the help popup.
	Bindings() []key.Binding
	// Action maps a key to a screen specific action, or nil.
	Action(k tui.Key) Action
	// Teardown stops every worker the screen owns.
	Teardown() error
}

// Setuper is implemented by screens that need the terminal itself.
type Setuper interface {
	Setup(term Terminal) error
}

// KeyHandler is implemented by screens with their own text input. HandleKey
// reports whether the key was consumed.
type KeyHandler interface {
	HandleKey(k tui.Key) bool
}

// Filterable is implemented by screens accepting a filter prompt.
type Filterable interface {
	CurrentFilter() string
}

// RawTerminal is the terminal handed over by the app while the driver is
// released.
type RawTerminal struct {
	In     io.Reader
	Out    io.Writer
	Width  int
	Height int
}

// Terminal transfers terminal ownership. Release stops the driver and
// returns the raw terminal; Acquire gives it back and restarts the driver.
type Terminal interface {
	Release() (*RawTerminal, error)
	Acquire(raw *RawTerminal) error
}

// screenKey binds a key to a screen action.
type screenKey struct {
	binding key.Binding
	action  Action
}

func newScreenKey(action Action, help string, keys ...string) screenKey {
	return screenKey{
		binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)),
		action:  action,
	}
}

// screenBase provides the plumbing shared by all screens.
type screenBase struct {
	tx   Sender
	keys []screenKey
}

func (b *screenBase) Register(_ context.Context, tx Sender) {
	b.tx = tx
}

func (b *screenBase) send(a Action) {
	if b.tx != nil {
		b.tx.Send(a)
	}
}

func (b *screenBase) Bindings() []key.Binding {
	bindings := make([]key.Binding, 0, len(b.keys))
	for _, k := range b.keys {
		bindings = append(bindings, k.binding)
	}
	return bindings
}

func (b *screenBase) Action(k tui.Key) Action {
	for _, sk := range b.keys {
		if key.Matches(k, sk.binding) {
			return sk.action
		}
	}
	return nil
}

func (b *screenBase) Teardown() error {
	return nil
}
