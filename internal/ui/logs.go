package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pyaillet/doggy/internal/logging"
	"github.com/pyaillet/doggy/internal/worker"
)

// maxLogLines bounds the lines kept by a log follower.
const maxLogLines = 10000

// logBuffer is written by the follower of generation gen only.
type logBuffer struct {
	gen   int
	lines []string
}

// LogsScreen follows the logs of a container.
type LogsScreen struct {
	screenBase
	env  *Env
	id   string
	name string
	back func() Screen

	since      int
	autoScroll bool
	wrap       bool
	scroll     int
	page       int

	ctx      context.Context
	gen      int
	buffer   *worker.Shared[logBuffer]
	lines    []string
	follower *worker.Task
}

func NewLogsScreen(env *Env, id, name string, back func() Screen) *LogsScreen {
	s := &LogsScreen{
		env:        env,
		id:         id,
		name:       name,
		back:       back,
		since:      env.Config.LogSinceMinutes,
		autoScroll: true,
		page:       pageSize,
		buffer:     worker.NewShared(logBuffer{}),
	}
	s.keys = []screenKey{
		newScreenKey(SinceMsg{Minutes: 1}, "since 1m", "1"),
		newScreenKey(SinceMsg{Minutes: 3}, "since 3m", "2"),
		newScreenKey(SinceMsg{Minutes: 5}, "since 5m", "3"),
		newScreenKey(SinceMsg{Minutes: 10}, "since 10m", "4"),
		newScreenKey(SinceMsg{Minutes: 15}, "since 15m", "5"),
		newScreenKey(AutoScrollMsg{}, "toggle autoscroll", "s"),
		newScreenKey(LineWrapMsg{}, "toggle wrap", "w"),
	}
	return s
}

func (s *LogsScreen) Name() string {
	return "logs"
}

func (s *LogsScreen) Register(ctx context.Context, tx Sender) {
	s.screenBase.Register(ctx, tx)
	s.ctx = ctx
	s.restart()
}

func (s *LogsScreen) Teardown() error {
	s.follower.Stop()
	return nil
}

// restart replaces the follower: the old one is stopped and the buffer
// cleared before the new one is spawned.
func (s *LogsScreen) restart() {
	s.follower.Stop()

	s.gen++
	gen, since := s.gen, s.since
	s.buffer.Update(func(b *logBuffer) {
		b.gen = gen
		b.lines = nil
	})
	s.lines = nil
	s.scroll = 0

	name := fmt.Sprintf("log follower %s since %dm", shortID(s.id), since)
	s.follower = worker.Spawn(s.ctx, name, func(ctx context.Context) {
		s.follow(ctx, gen, since)
	})
}

func (s *LogsScreen) follow(ctx context.Context, gen, since int) {
	stream, err := s.env.Client.GetContainerLogStream(ctx, s.id, since, true)
	if err != nil {
		if ctx.Err() == nil {
			s.send(Errorf("Unable to get logs of %s: %v", s.name, err))
		}
		return
	}
	stop := context.AfterFunc(ctx, func() {
		_ = stream.Close()
	})
	defer func() {
		if stop() {
			_ = stream.Close()
		}
	}()

	for {
		line, err := stream.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				logging.Debug("Logs", "stream of %s ended: %v", shortID(s.id), err)
			}
			return
		}
		s.buffer.Update(func(b *logBuffer) {
			if b.gen != gen {
				return
			}
			b.lines = append(b.lines, line)
			if len(b.lines) > maxLogLines {
				b.lines = b.lines[len(b.lines)-maxLogLines:]
			}
		})
	}
}

func (s *LogsScreen) Update(_ context.Context, a Action) error {
	switch a := a.(type) {
	case SinceMsg:
		if a.Minutes != s.since {
			s.since = a.Minutes
			s.restart()
		}
	case AutoScrollMsg:
		s.autoScroll = !s.autoScroll
	case LineWrapMsg:
		s.wrap = !s.wrap
	case UpMsg:
		s.autoScroll = false
		s.scroll = max(s.scroll-1, 0)
	case DownMsg:
		s.autoScroll = false
		s.scroll++
	case PageUpMsg:
		s.autoScroll = false
		s.scroll = max(s.scroll-s.page, 0)
	case PageDownMsg:
		s.autoScroll = false
		s.scroll += s.page
	case PreviousScreenMsg:
		if s.back != nil {
			s.send(ScreenMsg{Screen: s.back()})
		}
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (s *LogsScreen) View(width, height int) string {
	s.buffer.TryRead(func(b logBuffer) {
		if b.gen == s.gen {
			s.lines = b.lines
		}
	})

	lines := s.lines
	if s.wrap {
		lines = wrapLines(lines, width-3)
	}

	right := fmt.Sprintf("autoscroll: %s  since: %dm  wrap: %s  [ESC] Back", onOff(s.autoScroll), s.since, onOff(s.wrap))
	detail := NewDetailViewComponent("Logs "+s.name, height).SetRight(right).WithWidth(width)

	s.page = detail.ContentHeight()
	if s.autoScroll {
		s.scroll = len(lines) - s.page
	}
	s.scroll = max(min(s.scroll, len(lines)-s.page), 0)

	if lines == nil {
		lines = []string{}
	}
	return detail.SetLines(prefixLines(stripNewlines(lines))).SetScroll(s.scroll).View()
}

func stripNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l, "\r\n")
	}
	return out
}
