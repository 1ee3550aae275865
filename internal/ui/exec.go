package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/muesli/cancelreader"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/worker"
)

// ExecScreen runs an interactive command in a container. It takes the
// terminal from the app on setup and gives it back once the command ends.
type ExecScreen struct {
	screenBase
	env  *Env
	id   string
	name string
	cmd  []string
	back func() Screen

	term    Terminal
	raw     *RawTerminal
	started bool
}

func NewExecScreen(env *Env, id, name string, cmd []string, back func() Screen) *ExecScreen {
	return &ExecScreen{
		env:  env,
		id:   id,
		name: name,
		cmd:  cmd,
		back: back,
	}
}

func (s *ExecScreen) Name() string {
	return "exec"
}

// Setup releases the terminal before any I/O takes place.
func (s *ExecScreen) Setup(t Terminal) error {
	s.term = t
	raw, err := t.Release()
	if err != nil {
		return err
	}
	s.raw = raw
	return nil
}

// Update runs the session on the first tick, then resumes the app and
// navigates back.
func (s *ExecScreen) Update(ctx context.Context, a Action) error {
	if _, ok := a.(TickMsg); !ok || s.started {
		return nil
	}
	s.started = true

	if s.raw != nil {
		if err := s.run(ctx); err != nil {
			logging.Error("Exec", err, "command %v in %s failed", s.cmd, shortID(s.id))
			s.send(Errorf("Unable to execute command \"%s\" in container \"%s\"\n%s", strings.Join(s.cmd, " "), s.name, err))
		}
	}
	if err := s.restore(); err != nil {
		return err
	}

	s.send(ResumeMsg{})
	if s.back != nil {
		s.send(ScreenMsg{Screen: s.back()})
	}
	return nil
}

func (s *ExecScreen) run(ctx context.Context) error {
	size := runtime.TermSize{Width: uint(max(s.raw.Width, 0)), Height: uint(max(s.raw.Height, 0))}

	in, isTerm := s.raw.In.(*os.File)
	isTerm = isTerm && term.IsTerminal(in.Fd())
	if isTerm {
		if w, h, err := term.GetSize(in.Fd()); err == nil {
			size = runtime.TermSize{Width: uint(w), Height: uint(h)}
		}
	}

	session, err := s.env.Client.ExecInContainer(ctx, s.id, s.cmd, size)
	if err != nil {
		return err
	}
	defer session.Close()

	if isTerm {
		state, err := term.MakeRaw(in.Fd())
		if err != nil {
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(in.Fd(), state)
		}()
		stopResize := watchResize(ctx, in.Fd(), session)
		defer stopResize()
	}

	input, err := cancelreader.NewReader(s.raw.In)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	defer input.Close()

	copier := worker.Spawn(ctx, "exec input "+shortID(s.id), func(ctx context.Context) {
		if _, err := io.Copy(session, input); err != nil && !errors.Is(err, cancelreader.ErrCanceled) {
			logging.Debug("Exec", "input copy ended: %v", err)
		}
		_ = session.CloseWrite()
	})

	if _, err := io.Copy(s.raw.Out, session); err != nil {
		logging.Debug("Exec", "output copy ended: %v", err)
	}

	input.Cancel()
	copier.Stop()
	return nil
}

// restore gives the terminal back if this screen still holds it.
func (s *ExecScreen) restore() error {
	if s.raw == nil {
		return nil
	}
	raw := s.raw
	s.raw = nil
	return s.term.Acquire(raw)
}

func (s *ExecScreen) Teardown() error {
	return s.restore()
}

func (s *ExecScreen) View(width, height int) string {
	title := fmt.Sprintf("Exec %s in %s", strings.Join(s.cmd, " "), s.name)
	return NewDetailViewComponent(title, height).WithWidth(width).View()
}
