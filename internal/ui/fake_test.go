package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pyaillet/doggy/internal/config"
	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/tui"
	"github.com/pyaillet/doggy/internal/types"
	"github.com/pyaillet/doggy/internal/worker"
)

// fakeClient is an in-memory runtime.Client.
type fakeClient struct {
	mu sync.Mutex

	containers []types.ContainerSummary
	images     []types.ImageSummary
	networks   []types.NetworkSummary
	volumes    []types.VolumeSummary
	composes   []types.Compose
	details    types.ContainerDetails
	inspect    string

	listErr    error
	detailsErr error
	deleteErr  error
	execErr    error
	deleted    []string

	logSince []int
	logs     []*fakeLogStream

	execCmds   [][]string
	execOutput string
	sessions   []*fakeSession
}

var _ runtime.Client = (*fakeClient)(nil)

func (c *fakeClient) Info(context.Context) (types.RuntimeInfo, error) {
	return types.RuntimeInfo{Name: "fake", Version: "1.0", Endpoint: "memory"}, nil
}

func (c *fakeClient) ValidateFilter(text string) bool {
	key, _, ok := strings.Cut(text, "=")
	return !ok || key == "name" || key == "label" || key == "ancestor"
}

func (c *fakeClient) ListContainers(_ context.Context, all bool, filter types.Filter) ([]types.ContainerSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	var out []types.ContainerSummary
	for _, ctr := range c.containers {
		if !all && ctr.Status != types.StatusRunning {
			continue
		}
		if filter.Key == "name" && !strings.Contains(ctr.Name, filter.Value) {
			continue
		}
		out = append(out, ctr)
	}
	return out, nil
}

func (c *fakeClient) GetContainer(_ context.Context, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inspect == "" {
		return "", errors.New("no such container: " + id)
	}
	return c.inspect, nil
}

func (c *fakeClient) GetContainerDetails(context.Context, string) (types.ContainerDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details, c.detailsErr
}

func (c *fakeClient) remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, id)
	return nil
}

func (c *fakeClient) DeleteContainer(_ context.Context, id string) error {
	return c.remove(id)
}

func (c *fakeClient) GetContainerLogStream(_ context.Context, _ string, since int, _ bool) (runtime.LogStream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := newFakeLogStream()
	c.logSince = append(c.logSince, since)
	c.logs = append(c.logs, s)
	return s, nil
}

func (c *fakeClient) GetContainerStatsStream(context.Context, string, bool) (runtime.StatStream, error) {
	return &fakeStatStream{sample: types.StatSample{CPUPercent: 12.5, MemUsage: 64 << 20}}, nil
}

func (c *fakeClient) ExecInContainer(_ context.Context, _ string, cmd []string, _ runtime.TermSize) (runtime.ExecSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execCmds = append(c.execCmds, cmd)
	if c.execErr != nil {
		return nil, c.execErr
	}
	s := &fakeSession{output: strings.NewReader(c.execOutput)}
	c.sessions = append(c.sessions, s)
	return s, nil
}

func (c *fakeClient) ListImages(context.Context, types.Filter) ([]types.ImageSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images, c.listErr
}

func (c *fakeClient) GetImage(context.Context, string) (string, error) {
	return c.inspect, nil
}

func (c *fakeClient) DeleteImage(_ context.Context, id string) error {
	return c.remove(id)
}

func (c *fakeClient) ListNetworks(context.Context, types.Filter) ([]types.NetworkSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.networks, c.listErr
}

func (c *fakeClient) GetNetwork(context.Context, string) (string, error) {
	return c.inspect, nil
}

func (c *fakeClient) DeleteNetwork(_ context.Context, id string) error {
	return c.remove(id)
}

func (c *fakeClient) ListVolumes(context.Context, types.Filter) ([]types.VolumeSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volumes, c.listErr
}

func (c *fakeClient) GetVolume(context.Context, string) (string, error) {
	return c.inspect, nil
}

func (c *fakeClient) DeleteVolume(_ context.Context, id string) error {
	return c.remove(id)
}

func (c *fakeClient) ListComposeProjects(context.Context) ([]types.Compose, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composes, c.listErr
}

func (c *fakeClient) GetComposeProject(_ context.Context, project string) (types.ComposeDetails, error) {
	return types.ComposeDetails{Project: project}, nil
}

func (c *fakeClient) Close() error {
	return nil
}

func (c *fakeClient) logStreams() ([]int, []*fakeLogStream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.logSince...), append([]*fakeLogStream(nil), c.logs...)
}

// fakeLogStream yields pushed lines until closed.
type fakeLogStream struct {
	lines  chan string
	closed chan struct{}
	once   sync.Once
}

func newFakeLogStream() *fakeLogStream {
	return &fakeLogStream{lines: make(chan string, 16), closed: make(chan struct{})}
}

func (s *fakeLogStream) Next() (string, error) {
	select {
	case l := <-s.lines:
		return l, nil
	case <-s.closed:
		return "", io.EOF
	}
}

func (s *fakeLogStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeLogStream) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

type fakeStatStream struct {
	sample types.StatSample
	done   bool
}

func (s *fakeStatStream) Next() (types.StatSample, error) {
	if s.done {
		return types.StatSample{}, io.EOF
	}
	s.done = true
	return s.sample, nil
}

func (s *fakeStatStream) Close() error {
	return nil
}

// fakeSession replays output and records input.
type fakeSession struct {
	mu          sync.Mutex
	output      io.Reader
	input       bytes.Buffer
	writeClosed bool
	closed      bool
}

func (s *fakeSession) Read(p []byte) (int, error) {
	return s.output.Read(p)
}

func (s *fakeSession) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Write(p)
}

func (s *fakeSession) CloseWrite() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeClosed = true
	return nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) Resize(context.Context, runtime.TermSize) error {
	return nil
}

// driverLog records what every fake driver created by a test did.
type driverLog struct {
	events    []tui.Event
	created   int
	entered   int
	exited    int
	suspended int
	frames    []string
}

type fakeDriver struct {
	log *driverLog
}

func (d *fakeDriver) Enter() error {
	d.log.entered++
	return nil
}

func (d *fakeDriver) Exit() error {
	d.log.exited++
	return nil
}

func (d *fakeDriver) Suspend() error {
	d.log.suspended++
	return d.Exit()
}

func (d *fakeDriver) Next(context.Context) (tui.Event, error) {
	if len(d.log.events) == 0 {
		return nil, tui.ErrDriverClosed
	}
	ev := d.log.events[0]
	d.log.events = d.log.events[1:]
	return ev, nil
}

func (d *fakeDriver) Draw(frame string) {
	d.log.frames = append(d.log.frames, frame)
}

func (l *driverLog) newDriver() tui.Driver {
	l.created++
	return &fakeDriver{log: l}
}

// fakeTerminal hands out an in-memory terminal.
type fakeTerminal struct {
	raw      *RawTerminal
	released int
	acquired int
}

func (t *fakeTerminal) Release() (*RawTerminal, error) {
	t.released++
	return t.raw, nil
}

func (t *fakeTerminal) Acquire(*RawTerminal) error {
	t.acquired++
	return nil
}

// recordingScreen records the actions it receives and owns one worker.
type recordingScreen struct {
	screenBase
	name      string
	actions   []Action
	task      *worker.Task
	teardowns int
	panics    bool
}

func newRecordingScreen(name string) *recordingScreen {
	return &recordingScreen{name: name}
}

func (s *recordingScreen) Name() string {
	return s.name
}

func (s *recordingScreen) Register(ctx context.Context, tx Sender) {
	s.screenBase.Register(ctx, tx)
	s.task = worker.Spawn(ctx, s.name+" worker", func(ctx context.Context) {
		<-ctx.Done()
	})
}

func (s *recordingScreen) Update(_ context.Context, a Action) error {
	s.actions = append(s.actions, a)
	if _, ok := a.(YankMsg); ok && s.panics {
		panic("boom")
	}
	return nil
}

func (s *recordingScreen) received(match func(Action) bool) int {
	n := 0
	for _, a := range s.actions {
		if match(a) {
			n++
		}
	}
	return n
}

func (s *recordingScreen) View(_, _ int) string {
	return s.name
}

func (s *recordingScreen) Teardown() error {
	s.teardowns++
	s.task.Stop()
	return nil
}

// recordingSender collects sent actions.
type recordingSender struct {
	mu   sync.Mutex
	sent []Action
}

func (r *recordingSender) Send(a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, a)
}

func (r *recordingSender) actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.sent...)
}

func newTestEnv(client runtime.Client) (*Env, *string) {
	copied := new(string)
	return &Env{
		Client: client,
		Config: config.DefaultConfig(),
		Info:   types.RuntimeInfo{Name: "fake"},
		Clipboard: func(text string) error {
			*copied = text
			return nil
		},
	}, copied
}

// newTestApp returns an app holding the terminal with screen installed.
// Its input is a pipe that is already at EOF.
func newTestApp(t testing.TB, env *Env, screen Screen) (*App, *driverLog) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	t.Cleanup(func() { _ = r.Close() })

	log := &driverLog{}
	a := NewApp(env, log.newDriver, screen)
	a.in = r
	a.out = &bytes.Buffer{}
	require.NoError(t, a.enterDriver())
	a.drain(context.Background())
	t.Cleanup(a.shutdown)
	return a, log
}

func tuiKey(code string) tui.Key {
	return tui.NewKey(code)
}
