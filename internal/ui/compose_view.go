package ui

import (
	"context"
	"fmt"
	"sort"

	"github.com/pyaillet/doggy/internal/types"
)

// ComposeViewScreen shows the services, volumes and networks of a project.
type ComposeViewScreen struct {
	screenBase
	env     *Env
	project string
	details *types.ComposeDetails
	scroll  int
	page    int
}

func NewComposeViewScreen(env *Env, project string) *ComposeViewScreen {
	return &ComposeViewScreen{
		env:     env,
		project: project,
		page:    pageSize,
	}
}

func (s *ComposeViewScreen) Name() string {
	return "compose"
}

func (s *ComposeViewScreen) Update(ctx context.Context, a Action) error {
	switch a.(type) {
	case TickMsg:
		details, err := s.env.Client.GetComposeProject(ctx, s.project)
		if err != nil {
			s.send(Errorf("Error getting compose project %s: %v", s.project, err))
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
	case PreviousScreenMsg:
		s.send(ScreenMsg{Screen: NewComposesScreen(s.env)})
	}
	return nil
}

func (s *ComposeViewScreen) lines() []string {
	if s.details == nil {
		return nil
	}
	d := s.details

	lines := []string{
		field("Project", d.Project),
		field("Directory", orNone(d.WorkingDir)),
		field("Config", orNone(d.ConfigFiles)),
		field("Env file", orNone(d.EnvironmentFile)),
		" Services:",
	}

	services := make([]string, 0, len(d.Services))
	for name := range d.Services {
		services = append(services, name)
	}
	sort.Strings(services)
	for _, name := range services {
		lines = append(lines, "   "+name)
		for _, c := range d.Services[name] {
			lines = append(lines, fmt.Sprintf("     %s %s (%s)", shortID(c.ID), c.Name, c.Status))
		}
	}

	volumes := make([]string, len(d.Volumes))
	for i, v := range d.Volumes {
		volumes[i] = fmt.Sprintf("%s (%s)", v.ID, v.Driver)
	}
	lines = append(lines, section("Volumes", volumes)...)

	networks := make([]string, len(d.Networks))
	for i, n := range d.Networks {
		networks[i] = fmt.Sprintf("%s %s (%s)", shortID(n.ID), n.Name, n.Driver)
	}
	lines = append(lines, section("Networks", networks)...)
	return lines
}

func orNone(s string) string {
	if s == "" {
		return types.None
	}
	return s
}

func (s *ComposeViewScreen) View(width, height int) string {
	detail := NewDetailViewComponent("Compose project "+s.project, height).WithWidth(width)
	lines := s.lines()

	s.page = detail.ContentHeight()
	s.scroll = max(min(s.scroll, len(lines)-s.page), 0)
	return detail.SetLines(lines).SetScroll(s.scroll).View()
}
