package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/sahilm/fuzzy"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/tui"
	"github.com/pyaillet/doggy/internal/types"
)

// InputMode selects where keys go: the active screen or the line editor.
type InputMode int

const (
	ModeNone InputMode = iota
	ModeChange
	ModeFilter
)

const (
	minWidth  = 60
	minHeight = 12
)

// resources are the names accepted by the change prompt.
var resources = []string{"containers", "images", "networks", "volumes", "composes"}

// App is the controller: it owns the terminal driver, the active screen, the
// input mode and the popup, and dispatches every action.
type App struct {
	env       *Env
	queue     *Queue
	keys      globalKeyMap
	newDriver func() tui.Driver
	driver    tui.Driver
	released  bool

	in  io.Reader
	out io.Writer

	screen Screen
	mode   InputMode
	editor LineEditor
	popup  Popup

	quit    bool
	suspend bool

	width  int
	height int
}

var _ Terminal = (*App)(nil)

// NewApp creates the controller. newDriver is called every time the
// terminal is (re)acquired.
func NewApp(env *Env, newDriver func() tui.Driver, initial Screen) *App {
	a := &App{
		env:       env,
		queue:     NewQueue(),
		keys:      newGlobalKeyMap(),
		newDriver: newDriver,
		released:  true,
		in:        os.Stdin,
		out:       os.Stdout,
		width:     80,
		height:    24,
	}
	a.queue.Send(ScreenMsg{Screen: initial})
	return a
}

// Run takes the terminal and loops until quit or until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.enterDriver(); err != nil {
		return err
	}
	defer a.shutdown()

	if info, err := a.env.Client.Info(ctx); err != nil {
		logging.Warn("App", "unable to get runtime info: %v", err)
	} else {
		a.env.Info = info
	}

	a.drain(ctx)
	for !a.quit {
		ev, err := a.driver.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logging.Info("App", "interrupted")
				return nil
			}
			return fmt.Errorf("terminal driver failed: %w", err)
		}
		a.handleEvent(ev)
		a.drain(ctx)

		if a.suspend {
			if err := a.suspendDriver(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) enterDriver() error {
	driver := a.newDriver()
	if err := driver.Enter(); err != nil {
		return fmt.Errorf("failed to enter terminal: %w", err)
	}
	a.driver = driver
	a.released = false
	return nil
}

func (a *App) exitDriver() error {
	if a.released || a.driver == nil {
		return nil
	}
	a.released = true
	return a.driver.Exit()
}

// suspendDriver stops the process until it is continued, then resumes
// with a fresh driver.
func (a *App) suspendDriver(ctx context.Context) error {
	if !a.released {
		a.released = true
		if err := a.driver.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend: %w", err)
		}
	}
	a.queue.Send(ResumeMsg{})
	a.drain(ctx)
	if a.released {
		return errors.New("terminal was not reacquired after resume")
	}
	return nil
}

func (a *App) shutdown() {
	if a.screen != nil {
		if err := a.screen.Teardown(); err != nil {
			logging.Warn("App", "teardown of %s failed: %v", a.screen.Name(), err)
		}
	}
	if err := a.exitDriver(); err != nil {
		logging.Warn("App", "failed to restore terminal: %v", err)
	}
}

// Release hands the raw terminal over; the driver is stopped until Acquire.
func (a *App) Release() (*RawTerminal, error) {
	if a.released {
		return nil, errors.New("terminal already released")
	}
	if err := a.exitDriver(); err != nil {
		return nil, err
	}
	return &RawTerminal{In: a.in, Out: a.out, Width: a.width, Height: a.height}, nil
}

// Acquire takes the terminal back with a new driver.
func (a *App) Acquire(_ *RawTerminal) error {
	if !a.released {
		return nil
	}
	return a.enterDriver()
}

func (a *App) handleEvent(ev tui.Event) {
	switch ev := ev.(type) {
	case tui.EventTick:
		a.queue.Send(TickMsg{})
	case tui.EventFrame:
		a.queue.Send(RenderMsg{})
	case tui.EventResize:
		a.queue.Send(ResizeMsg{W: ev.W, H: ev.H})
	case tui.EventKey:
		a.handleKey(ev.Key)
	}
}

// handleKey routes a key to the line editor while editing, otherwise to the
// screen and then to the global keymap.
func (a *App) handleKey(k tui.Key) {
	if a.mode != ModeNone {
		a.editKey(k)
		return
	}
	if h, ok := a.screen.(KeyHandler); ok && h.HandleKey(k) {
		return
	}
	if a.screen != nil {
		if act := a.screen.Action(k); act != nil {
			a.queue.Send(act)
			return
		}
	}
	if act := a.keys.action(k); act != nil {
		a.queue.Send(act)
	}
}

func (a *App) editKey(k tui.Key) {
	switch k.Code {
	case "esc":
		a.resetInput()
	case "ctrl+c":
		a.queue.Send(QuitMsg{})
	case "enter":
		text := strings.TrimSpace(a.editor.Value())
		mode := a.mode
		a.resetInput()

		switch mode {
		case ModeFilter:
			if text == "" {
				a.queue.Send(SetFilterMsg{})
			} else {
				a.queue.Send(SetFilterMsg{Value: stringPtr(text)})
			}
		case ModeChange:
			name, ok := matchResource(text)
			if !ok {
				a.queue.Send(Errorf("Unknown resource: %s", text))
				return
			}
			a.queue.Send(ScreenMsg{Screen: a.resourceScreen(name)})
		}
	default:
		a.editor.HandleKey(k)
	}
}

func (a *App) resetInput() {
	a.editor.Reset()
	a.mode = ModeNone
}

// matchResource returns the best fuzzy match for text among resources.
func matchResource(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	matches := fuzzy.Find(text, resources)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}

func (a *App) resourceScreen(name string) Screen {
	switch name {
	case "images":
		return NewImagesScreen(a.env, types.Filter{})
	case "networks":
		return NewNetworksScreen(a.env, types.Filter{})
	case "volumes":
		return NewVolumesScreen(a.env, types.Filter{})
	case "composes":
		return NewComposesScreen(a.env)
	default:
		return NewContainersScreen(a.env, types.Filter{})
	}
}

// drain dispatches every pending action in arrival order.
func (a *App) drain(ctx context.Context) {
	for {
		act, ok := a.queue.TryRecv()
		if !ok {
			return
		}
		a.dispatch(ctx, act)
	}
}

func (a *App) dispatch(ctx context.Context, act Action) {
	if _, noisy := act.(RenderMsg); !noisy {
		logging.Debug("App", "action %s", describe(act))
	}

	consumed := false
	switch act := act.(type) {
	case QuitMsg:
		a.quit = true
	case SuspendMsg:
		a.suspend = true
	case ResumeMsg:
		a.suspend = false
		if a.released {
			if err := a.enterDriver(); err != nil {
				logging.Error("App", err, "unable to resume")
				a.quit = true
			}
		}
	case RenderMsg:
		a.draw()
	case ResizeMsg:
		a.width, a.height = act.W, act.H
		a.draw()
	case ScreenMsg:
		a.install(ctx, act.Screen)
		consumed = true
	case ChangeMsg:
		a.editor.Reset()
		a.mode = ModeChange
	case FilterMsg:
		if f, ok := a.screen.(Filterable); ok {
			a.editor.Set(f.CurrentFilter())
			a.mode = ModeFilter
		}
	case HelpMsg:
		a.popup = Popup{Kind: PopupHelp}
	case ErrorMsg:
		logging.Warn("App", "%s", act.Message)
		a.popup = Popup{Kind: PopupError, Message: act.Message, TTL: a.env.Config.ErrorTicks()}
	case PreviousScreenMsg:
		switch {
		case a.popup.Visible():
			a.popup = Popup{}
			consumed = true
		case a.mode != ModeNone:
			a.resetInput()
			consumed = true
		}
	case TickMsg:
		if a.popup.Kind == PopupError {
			a.popup.TTL--
			if a.popup.TTL <= 0 {
				a.popup = Popup{}
			}
		}
	}

	if consumed || a.mode != ModeNone || a.screen == nil {
		return
	}
	if err := a.update(ctx, act); err != nil {
		a.queue.Send(ErrorMsg{Message: err.Error()})
	}
}

// update forwards to the screen, turning a panic into an error.
func (a *App) update(ctx context.Context, act Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("App", nil, "%s panicked on %s: %v", a.screen.Name(), describe(act), r)
			err = fmt.Errorf("%s: %v", a.screen.Name(), r)
		}
	}()
	return a.screen.Update(ctx, act)
}

// install tears the current screen down before the new one takes over.
func (a *App) install(ctx context.Context, s Screen) {
	if s == nil {
		return
	}
	if a.screen != nil {
		if err := a.screen.Teardown(); err != nil {
			logging.Warn("App", "teardown of %s failed: %v", a.screen.Name(), err)
		}
	}
	a.resetInput()
	a.screen = s
	s.Register(ctx, a.queue)

	if setuper, ok := s.(Setuper); ok {
		if err := setuper.Setup(a); err != nil {
			a.queue.Send(Errorf("Unable to setup %s: %v", s.Name(), err))
		}
	}
	// refresh right away instead of on the next tick
	a.queue.Send(TickMsg{})
}

func (a *App) draw() {
	if a.released || a.driver == nil || a.screen == nil {
		return
	}
	a.driver.Draw(a.render())
}

// render lays out the header, the screen, the footer and the popup.
func (a *App) render() string {
	width := max(a.width, minWidth)
	height := max(a.height, minHeight)

	var b strings.Builder

	title := "doggy › " + a.screen.Name()
	info := a.env.Info.Name
	if a.env.Info.Version != "" {
		info += " " + a.env.Info.Version
	}
	if a.env.Info.Endpoint != "" {
		info += " @ " + a.env.Info.Endpoint
	}
	b.WriteString(NewHeaderComponent(title, info).WithWidth(width).View())

	// header and footer take two lines each
	bodyHeight := height - 4
	b.WriteString(fitLines(a.screen.View(width, bodyHeight), width, bodyHeight))

	footer := NewActionBarComponent().WithWidth(width)
	switch a.mode {
	case ModeChange:
		line := a.editor.View(":", width-4)
		if name, ok := matchResource(strings.TrimSpace(a.editor.Value())); ok {
			line += grayStyle.Render("  → " + name)
		}
		footer = footer.SetStatusMessage(line)
	case ModeFilter:
		footer = footer.SetStatusMessage(a.editor.View("/", width-4))
	default:
		footer = footer.SetActions(help.New().ShortHelpView(a.keys.ShortHelp()))
	}
	b.WriteString(footer.View())

	frame := b.String()
	switch a.popup.Kind {
	case PopupError:
		frame = overlay(frame, errorPopup(a.popup.Message, width), width, height)
	case PopupHelp:
		frame = overlay(frame, helpPopup(a.screen.Bindings(), a.keys), width, height)
	}
	return frame
}

// fitLines pads or cuts s to exactly height lines, each ending in a newline.
func fitLines(s string, width, height int) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, boxLine("", "", max(width-2, 0), normalStyle, normalStyle))
	}
	return strings.Join(lines, "\n") + "\n"
}
