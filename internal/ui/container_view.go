package ui

import (
	"context"
	"fmt"
	"sort"

	"github.com/pyaillet/doggy/internal/types"
)

// ContainerViewScreen shows the decoded details of one container,
// refreshed on every tick.
type ContainerViewScreen struct {
	screenBase
	env     *Env
	id      string
	details *types.ContainerDetails
	scroll  int
	page    int
	back    func() Screen
}

func NewContainerViewScreen(env *Env, id string, back func() Screen) *ContainerViewScreen {
	s := &ContainerViewScreen{
		env:  env,
		id:   id,
		page: pageSize,
		back: back,
	}
	s.keys = []screenKey{
		newScreenKey(InspectMsg{}, "inspect", "i"),
		newScreenKey(LogsMsg{}, "logs", "l"),
	}
	return s
}

func (s *ContainerViewScreen) Name() string {
	return "container"
}

func (s *ContainerViewScreen) Update(ctx context.Context, a Action) error {
	switch a.(type) {
	case TickMsg:
		details, err := s.env.Client.GetContainerDetails(ctx, s.id)
		if err != nil {
			s.send(Errorf("Error getting container details: %v", err))
			return nil
		}
		s.details = &details
	case UpMsg:
		s.scroll = max(s.scroll-1, 0)
	case DownMsg:
		s.scroll++
	case PageUpMsg:
		s.scroll = max(s.scroll-s.page, 0)
	case PageDownMsg:
		s.scroll += s.page
	case InspectMsg:
		openInspect(ctx, s.send, "container", s.id, s.displayName(), s.env.Client.GetContainer, s.self)
	case LogsMsg:
		s.send(ScreenMsg{Screen: NewLogsScreen(s.env, s.id, s.displayName(), s.self)})
	case PreviousScreenMsg:
		if s.back != nil {
			s.send(ScreenMsg{Screen: s.back()})
		}
	}
	return nil
}

func (s *ContainerViewScreen) self() Screen {
	return NewContainerViewScreen(s.env, s.id, s.back)
}

func (s *ContainerViewScreen) displayName() string {
	if s.details != nil && s.details.Name != "" {
		return s.details.Name
	}
	return shortID(s.id)
}

func (s *ContainerViewScreen) lines() []string {
	if s.details == nil {
		return nil
	}
	d := s.details

	lines := []string{
		field("Name", d.Name),
		field("Id", d.ID),
		field("Created", fmt.Sprintf("%s (%s ago)", d.Created.Format("2006-01-02 15:04:05"), formatAge(d.Created))),
		field("Image", fmt.Sprintf("%s (%s)", d.Image, shortID(d.ImageID))),
		field("Status", d.Status.String()),
	}
	if d.Health != "" {
		lines = append(lines, field("Health", d.Health))
	}
	lines = append(lines,
		field("Entrypoint", formatCommand(d.Entrypoint)),
		field("Command", formatCommand(d.Command)),
	)

	keys := make([]string, 0, len(d.Labels))
	for k := range d.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = k + "=" + d.Labels[k]
	}

	lines = append(lines, section("Labels", labels)...)
	lines = append(lines, section("Env", d.Env)...)
	lines = append(lines, section("Ports", d.Ports)...)
	lines = append(lines, section("Networks", d.Networks)...)
	lines = append(lines, section("Mounts", d.Mounts)...)

	procs := make([]string, len(d.Processes))
	for i, p := range d.Processes {
		procs[i] = fmt.Sprintf("%-10s %-8s %s", p.UID, p.PID, p.Command)
	}
	lines = append(lines, section("Processes", procs)...)
	return lines
}

func field(name, value string) string {
	return fmt.Sprintf(" %-12s %s", name+":", value)
}

func section(name string, items []string) []string {
	if len(items) == 0 {
		return []string{field(name, types.None)}
	}
	lines := []string{" " + name + ":"}
	for _, item := range items {
		lines = append(lines, "   "+item)
	}
	return lines
}

func (s *ContainerViewScreen) View(width, height int) string {
	detail := NewDetailViewComponent("Container "+s.displayName(), height).WithWidth(width)
	lines := s.lines()

	s.page = detail.ContentHeight()
	s.scroll = max(min(s.scroll, len(lines)-s.page), 0)
	return detail.SetLines(lines).SetScroll(s.scroll).View()
}
