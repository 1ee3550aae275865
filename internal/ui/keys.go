package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/pyaillet/doggy/internal/tui"
)

// sortKeys is the number of function keys bound to column sorting.
const sortKeys = 7

// globalKeyMap holds the bindings available on every screen.
type globalKeyMap struct {
	Quit     key.Binding
	Suspend  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	All      key.Binding
	Delete   key.Binding
	Ok       key.Binding
	Back     key.Binding
	Change   key.Binding
	Filter   key.Binding
	Help     key.Binding
	Yank     key.Binding
	Sort     []key.Binding
}

func newGlobalKeyMap() globalKeyMap {
	km := globalKeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Suspend:  key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "page down")),
		All:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "show all")),
		Delete:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Ok:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Change:   key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "change resource")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Yank:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	}
	for i := 1; i <= sortKeys; i++ {
		f := fmt.Sprintf("f%d", i)
		km.Sort = append(km.Sort, key.NewBinding(key.WithKeys(f), key.WithHelp(f, fmt.Sprintf("sort column %d", i))))
	}
	return km
}

// action maps a key to a global action, or nil.
func (km globalKeyMap) action(k tui.Key) Action {
	switch {
	case key.Matches(k, km.Quit):
		return QuitMsg{}
	case key.Matches(k, km.Suspend):
		return SuspendMsg{}
	case key.Matches(k, km.Up):
		return UpMsg{}
	case key.Matches(k, km.Down):
		return DownMsg{}
	case key.Matches(k, km.PageUp):
		return PageUpMsg{}
	case key.Matches(k, km.PageDown):
		return PageDownMsg{}
	case key.Matches(k, km.All):
		return AllMsg{}
	case key.Matches(k, km.Delete):
		return DeleteMsg{}
	case key.Matches(k, km.Ok):
		return OkMsg{}
	case key.Matches(k, km.Back):
		return PreviousScreenMsg{}
	case key.Matches(k, km.Change):
		return ChangeMsg{}
	case key.Matches(k, km.Filter):
		return FilterMsg{}
	case key.Matches(k, km.Help):
		return HelpMsg{}
	case key.Matches(k, km.Yank):
		return YankMsg{}
	}
	for i, b := range km.Sort {
		if key.Matches(k, b) {
			return SortColumnMsg{N: i + 1}
		}
	}
	return nil
}

// ShortHelp is shown in the footer.
func (km globalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Help, km.Change, km.Filter, km.Back, km.Quit}
}

// FullHelp is shown in the help popup.
func (km globalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Up, km.Down, km.PageUp, km.PageDown, km.Ok, km.Back},
		{km.Change, km.Filter, km.All, km.Delete, km.Yank},
		{km.Help, km.Suspend, km.Quit},
		km.Sort,
	}
}
