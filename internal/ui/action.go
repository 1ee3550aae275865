package ui

import "fmt"

// Action is a message flowing through the action queue. Every producer
// (terminal input, screens, background workers) talks to the app this way.
type Action interface {
	isAction()
}

// Navigation
type (
	UpMsg       struct{}
	DownMsg     struct{}
	PageUpMsg   struct{}
	PageDownMsg struct{}
)

// Lifecycle
type (
	TickMsg   struct{}
	RenderMsg struct{}
	ResizeMsg struct {
		W, H int
	}
	SuspendMsg struct{}
	ResumeMsg  struct{}
	QuitMsg    struct{}
)

// Screen control
type (
	// ScreenMsg replaces the active screen.
	ScreenMsg struct {
		Screen Screen
	}
	PreviousScreenMsg struct{}
	OkMsg             struct{}
	DeleteMsg         struct{}
	AllMsg            struct{}
	InspectMsg        struct{}
	LogsMsg           struct{}
	ShellMsg          struct{}
	CustomShellMsg    struct{}
	YankMsg           struct{}
)

// Text input
type (
	ChangeMsg struct{}
	FilterMsg struct{}
	// SetFilterMsg applies a filter; a nil Value clears it.
	SetFilterMsg struct {
		Value *string
	}
)

// Popups
type (
	ErrorMsg struct {
		Message string
	}
	HelpMsg struct{}
)

// View tuning
type (
	// SortColumnMsg sorts by column N, counted from 1.
	SortColumnMsg struct {
		N int
	}
	AutoScrollMsg struct{}
	SinceMsg      struct {
		Minutes int
	}
	LineWrapMsg struct{}
)

func (UpMsg) isAction()             {}
func (DownMsg) isAction()           {}
func (PageUpMsg) isAction()         {}
func (PageDownMsg) isAction()       {}
func (TickMsg) isAction()           {}
func (RenderMsg) isAction()         {}
func (ResizeMsg) isAction()         {}
func (SuspendMsg) isAction()        {}
func (ResumeMsg) isAction()         {}
func (QuitMsg) isAction()           {}
func (ScreenMsg) isAction()         {}
func (PreviousScreenMsg) isAction() {}
func (OkMsg) isAction()             {}
func (DeleteMsg) isAction()         {}
func (AllMsg) isAction()            {}
func (InspectMsg) isAction()        {}
func (LogsMsg) isAction()           {}
func (ShellMsg) isAction()          {}
func (CustomShellMsg) isAction()    {}
func (YankMsg) isAction()           {}
func (ChangeMsg) isAction()         {}
func (FilterMsg) isAction()         {}
func (SetFilterMsg) isAction()      {}
func (ErrorMsg) isAction()          {}
func (HelpMsg) isAction()           {}
func (SortColumnMsg) isAction()     {}
func (AutoScrollMsg) isAction()     {}
func (SinceMsg) isAction()          {}
func (LineWrapMsg) isAction()       {}

// Errorf builds an ErrorMsg.
func Errorf(format string, args ...any) ErrorMsg {
	return ErrorMsg{Message: fmt.Sprintf(format, args...)}
}

// describe names an action for the debug log.
func describe(a Action) string {
	switch a := a.(type) {
	case ScreenMsg:
		if a.Screen == nil {
			return "Screen(nil)"
		}
		return "Screen(" + a.Screen.Name() + ")"
	case ErrorMsg:
		return fmt.Sprintf("Error(%q)", a.Message)
	case SetFilterMsg:
		if a.Value == nil {
			return "SetFilter(nil)"
		}
		return fmt.Sprintf("SetFilter(%q)", *a.Value)
	default:
		return fmt.Sprintf("%T", a)
	}
}

func stringPtr(s string) *string {
	return &s
}
