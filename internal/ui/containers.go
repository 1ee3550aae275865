package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/runtime"
	"github.com/pyaillet/doggy/internal/tui"
	"github.com/pyaillet/doggy/internal/types"
	"github.com/pyaillet/doggy/internal/worker"
)

const (
	metricsInterval = time.Second
	// metricsFanOut bounds the concurrent stats requests of one poll.
	metricsFanOut = 8
)

type metricsMap = map[string]*types.ContainerMetrics

// ContainersScreen lists containers with live CPU and memory usage.
type ContainersScreen struct {
	screenBase
	env  *Env
	list listState[types.ContainerSummary]
	all  bool

	metrics *worker.Shared[metricsMap]
	// cache is the last snapshot read from metrics.
	cache  map[string]types.StatSample
	poller *worker.Task

	// shell is the custom shell command prompt, nil when closed.
	shell *LineEditor
}

// NewContainersScreen lists running containers matching filter.
func NewContainersScreen(env *Env, filter types.Filter) *ContainersScreen {
	s := &ContainersScreen{
		env:     env,
		metrics: worker.NewShared(metricsMap{}),
		cache:   map[string]types.StatSample{},
	}
	s.list = listState[types.ContainerSummary]{
		kind: "container",
		columns: []column[types.ContainerSummary]{
			{title: "Id", width: 14, less: func(a, b types.ContainerSummary) bool { return a.ID < b.ID }},
			{title: "Name", less: func(a, b types.ContainerSummary) bool { return a.Name < b.Name }},
			{title: "Image", less: func(a, b types.ContainerSummary) bool { return a.Image < b.Image }},
			{title: "Status", width: 10, less: func(a, b types.ContainerSummary) bool { return a.Status < b.Status }},
			{title: "Age", width: 14, less: func(a, b types.ContainerSummary) bool { return a.Created.After(b.Created) }},
			{title: "CPU", width: 8, less: func(a, b types.ContainerSummary) bool {
				return s.cache[a.ID].CPUPercent < s.cache[b.ID].CPUPercent
			}},
			{title: "MEM", width: 10, less: func(a, b types.ContainerSummary) bool {
				return s.cache[a.ID].MemUsage < s.cache[b.ID].MemUsage
			}},
		},
		sortCol: 1,
		filter:  filter,
		id:      func(c types.ContainerSummary) string { return c.ID },
		label:   func(c types.ContainerSummary) string { return c.Name },
		remove:  env.Client.DeleteContainer,
	}
	s.keys = []screenKey{
		newScreenKey(InspectMsg{}, "inspect", "i"),
		newScreenKey(LogsMsg{}, "logs", "l"),
		newScreenKey(ShellMsg{}, "shell", "s"),
		newScreenKey(CustomShellMsg{}, "custom shell", "S"),
	}
	return s
}

func (s *ContainersScreen) Name() string {
	return "containers"
}

func (s *ContainersScreen) Register(ctx context.Context, tx Sender) {
	s.screenBase.Register(ctx, tx)
	s.poller = worker.Spawn(ctx, "metrics poller", s.pollMetrics)
}

func (s *ContainersScreen) Teardown() error {
	s.poller.Stop()
	return nil
}

func (s *ContainersScreen) CurrentFilter() string {
	return s.list.filterText()
}

// HandleKey feeds the custom shell prompt while it is open.
func (s *ContainersScreen) HandleKey(k tui.Key) bool {
	if s.shell == nil {
		return false
	}
	switch k.Code {
	case "esc":
		s.shell = nil
	case "enter":
		s.runCustomShell()
	case "ctrl+c":
		return false
	default:
		s.shell.HandleKey(k)
	}
	return true
}

func (s *ContainersScreen) Update(ctx context.Context, a Action) error {
	if s.shell != nil {
		switch a.(type) {
		case OkMsg:
			s.runCustomShell()
			return nil
		case PreviousScreenMsg:
			s.shell = nil
			return nil
		}
	}
	if s.list.update(ctx, a, s.env, s.send) {
		return nil
	}

	switch a := a.(type) {
	case TickMsg:
		s.refresh(ctx)
	case AllMsg:
		s.all = !s.all
		s.refresh(ctx)
	case SetFilterMsg:
		if a.Value == nil {
			s.list.filter = types.Filter{}
		} else {
			if !s.env.Client.ValidateFilter(*a.Value) {
				s.send(Errorf("Invalid filter: %s", *a.Value))
				return nil
			}
			s.list.filter = types.ParseFilter(*a.Value)
		}
		s.list.selected = 0
		s.refresh(ctx)
	case PreviousScreenMsg:
		if !s.list.filter.IsZero() {
			s.list.filter = types.Filter{}
			s.refresh(ctx)
		}
	case OkMsg:
		if c, ok := s.list.current(); ok {
			s.send(ScreenMsg{Screen: NewContainerViewScreen(s.env, c.ID, s.backFactory())})
		}
	case InspectMsg:
		if c, ok := s.list.current(); ok {
			openInspect(ctx, s.send, "container", c.ID, c.Name, s.env.Client.GetContainer, s.backFactory())
		}
	case LogsMsg:
		if c, ok := s.list.current(); ok {
			s.send(ScreenMsg{Screen: NewLogsScreen(s.env, c.ID, c.Name, s.backFactory())})
		}
	case ShellMsg:
		if c, ok := s.list.current(); ok {
			s.openShell(c, []string{s.env.Config.DefaultShell})
		}
	case CustomShellMsg:
		if _, ok := s.list.current(); ok {
			s.shell = &LineEditor{}
		}
	}
	return nil
}

func (s *ContainersScreen) refresh(ctx context.Context) {
	containers, err := s.env.Client.ListContainers(ctx, s.all, s.list.filter)
	if err != nil {
		s.send(Errorf("Error getting container list: %v", err))
		return
	}
	s.list.setItems(containers)
}

// backFactory rebuilds this list with the same filter and visibility.
func (s *ContainersScreen) backFactory() func() Screen {
	env, filter, all := s.env, s.list.filter, s.all
	return func() Screen {
		back := NewContainersScreen(env, filter)
		back.all = all
		return back
	}
}

func (s *ContainersScreen) runCustomShell() {
	cmd := strings.Fields(s.shell.Value())
	s.shell = nil
	if len(cmd) == 0 {
		return
	}
	if c, ok := s.list.current(); ok {
		s.openShell(c, cmd)
	}
}

// openShell suspends the app and hands the terminal to an exec session.
func (s *ContainersScreen) openShell(c types.ContainerSummary, cmd []string) {
	s.send(SuspendMsg{})
	s.send(ScreenMsg{Screen: NewExecScreen(s.env, c.ID, c.Name, cmd, s.backFactory())})
}

// pollMetrics samples every running container once per interval.
func (s *ContainersScreen) pollMetrics(ctx context.Context) {
	for {
		s.collectMetrics(ctx)
		if !worker.Sleep(ctx, metricsInterval) {
			return
		}
	}
}

func (s *ContainersScreen) collectMetrics(ctx context.Context) {
	containers, err := s.env.Client.ListContainers(ctx, false, types.Filter{})
	if err != nil {
		logging.Debug("Metrics", "unable to list running containers: %v", err)
		return
	}

	samples := make([]*types.StatSample, len(containers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metricsFanOut)
	for i, c := range containers {
		g.Go(func() error {
			sample, err := sampleStats(gctx, s.env.Client, c.ID)
			if err != nil {
				logging.Debug("Metrics", "no stats for %s: %v", shortID(c.ID), err)
				return nil
			}
			samples[i] = &sample
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		return
	}

	s.metrics.Update(func(m *metricsMap) {
		next := make(metricsMap, len(containers))
		for i, c := range containers {
			entry, ok := (*m)[c.ID]
			if !ok {
				entry = &types.ContainerMetrics{}
			}
			if samples[i] != nil {
				entry.Push(*samples[i])
			}
			next[c.ID] = entry
		}
		*m = next
	})
}

func sampleStats(ctx context.Context, client runtime.Client, id string) (types.StatSample, error) {
	stream, err := client.GetContainerStatsStream(ctx, id, false)
	if err != nil {
		return types.StatSample{}, err
	}
	defer stream.Close()
	return stream.Next()
}

// readMetrics refreshes the cache unless the poller holds the lock.
func (s *ContainersScreen) readMetrics() {
	s.metrics.TryRead(func(m metricsMap) {
		cache := make(map[string]types.StatSample, len(m))
		for id, entry := range m {
			if cpu, mem, ok := entry.Last(); ok {
				cache[id] = types.StatSample{CPUPercent: cpu, MemUsage: mem}
			}
		}
		s.cache = cache
	})
}

func (s *ContainersScreen) row(c types.ContainerSummary) ([]string, lipgloss.Style) {
	cpu, mem := "-", "-"
	if sample, ok := s.cache[c.ID]; ok {
		cpu, mem = formatCPU(sample.CPUPercent), formatMemory(sample.MemUsage)
	}
	cells := []string{shortID(c.ID), c.Name, c.Image, c.Status.String(), formatAge(c.Created), cpu, mem}

	switch c.Status {
	case types.StatusRunning:
		return cells, brightStyle
	case types.StatusExited, types.StatusDead:
		return cells, grayStyle
	default:
		return cells, normalStyle
	}
}

func (s *ContainersScreen) View(width, height int) string {
	s.readMetrics()

	title := "Running containers"
	if s.all {
		title = "All containers"
	}
	body := s.list.view(title, width, height, s.row)

	popup := s.list.confirmView()
	if s.shell != nil {
		popup = popupStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			brightStyle.Bold(true).Render("Custom shell"),
			"",
			s.shell.View("> ", max(width/2, 30)),
			"",
			cyanStyle.Render("[enter] Run  [esc] Cancel"),
		))
	}
	return overlay(body, popup, width, height)
}
