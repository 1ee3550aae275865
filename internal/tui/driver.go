// Package tui owns the physical terminal. It turns terminal input and two
// timers into a stream of events and displays the frames it is given.
package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pyaillet/doggy/internal/logging"
)

// ErrDriverClosed is returned by Next once the driver has exited.
var ErrDriverClosed = errors.New("terminal driver closed")

// Driver is the terminal as seen by the app loop.
type Driver interface {
	// Enter takes the terminal: raw mode and alternate screen.
	Enter() error
	// Exit gives the terminal back. A driver cannot be entered again.
	Exit() error
	// Suspend exits and stops the process until it is continued.
	Suspend() error
	// Next blocks until the next event.
	Next(ctx context.Context) (Event, error)
	// Draw sets the frame displayed from now on.
	Draw(frame string)
}

// Options configures a BubbleDriver.
type Options struct {
	TickRate  float64
	FrameRate float64
	Input     io.Reader
	Output    io.Writer
}

func (o Options) interval(rate float64) time.Duration {
	if rate <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / rate)
}

// eventBuffer bounds the events waiting for the app loop.
const eventBuffer = 64

// BubbleDriver runs a bubbletea program whose only job is to forward input
// and render the latest frame.
type BubbleDriver struct {
	opts    Options
	events  chan Event
	done    chan struct{}
	exited  chan struct{}
	program *tea.Program
	runErr  error

	mu    sync.Mutex
	frame string

	closeOnce sync.Once
}

var _ Driver = (*BubbleDriver)(nil)

// NewBubbleDriver creates a driver; call Enter to start it.
func NewBubbleDriver(opts Options) *BubbleDriver {
	return &BubbleDriver{
		opts:   opts,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

func (d *BubbleDriver) Enter() error {
	if d.program != nil {
		return errors.New("terminal driver already entered")
	}

	teaOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}
	if d.opts.Input != nil {
		teaOpts = append(teaOpts, tea.WithInput(d.opts.Input))
	}
	if d.opts.Output != nil {
		teaOpts = append(teaOpts, tea.WithOutput(d.opts.Output))
	}
	d.program = tea.NewProgram(driverModel{d: d}, teaOpts...)

	go func() {
		_, err := d.program.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			logging.Error("Driver", err, "terminal program stopped")
			d.runErr = err
		}
		close(d.exited)
	}()
	return nil
}

func (d *BubbleDriver) Exit() error {
	if d.program == nil {
		return nil
	}
	d.closeOnce.Do(func() { close(d.done) })
	d.program.Quit()
	d.program.Wait()
	return nil
}

func (d *BubbleDriver) Suspend() error {
	if err := d.Exit(); err != nil {
		return err
	}
	return suspendProcess()
}

func (d *BubbleDriver) Next(ctx context.Context) (Event, error) {
	select {
	case ev := <-d.events:
		return ev, nil
	case <-d.exited:
		if d.runErr != nil {
			return nil, d.runErr
		}
		return nil, ErrDriverClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Draw stores the frame; it is displayed on the next render pass, which the
// frame cadence guarantees.
func (d *BubbleDriver) Draw(frame string) {
	d.mu.Lock()
	d.frame = frame
	d.mu.Unlock()
}

func (d *BubbleDriver) view() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// offer drops the event when the app loop is behind.
func (d *BubbleDriver) offer(ev Event) {
	select {
	case d.events <- ev:
	default:
	}
}

// deliver waits for room unless the driver is exiting.
func (d *BubbleDriver) deliver(ev Event) {
	select {
	case d.events <- ev:
	case <-d.done:
	}
}

type (
	tickMsg  struct{}
	frameMsg struct{}
)

type driverModel struct {
	d *BubbleDriver
}

func (m driverModel) tick() tea.Cmd {
	return tea.Tick(m.d.opts.interval(m.d.opts.TickRate), func(time.Time) tea.Msg { return tickMsg{} })
}

func (m driverModel) frameTick() tea.Cmd {
	return tea.Tick(m.d.opts.interval(m.d.opts.FrameRate), func(time.Time) tea.Msg { return frameMsg{} })
}

func (m driverModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.frameTick())
}

func (m driverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.d.offer(EventTick{})
		return m, m.tick()
	case frameMsg:
		m.d.offer(EventFrame{})
		return m, m.frameTick()
	case tea.WindowSizeMsg:
		m.d.deliver(EventResize{W: msg.Width, H: msg.Height})
	case tea.KeyMsg:
		m.d.deliver(EventKey{Key: KeyFromMsg(msg)})
	}
	return m, nil
}

func (m driverModel) View() string {
	return m.d.view()
}
