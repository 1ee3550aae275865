package ui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/pyaillet/doggy/internal/types"
)

type (
	composeContainersMsg struct{}
	composeVolumesMsg    struct{}
	composeNetworksMsg   struct{}
)

func (composeContainersMsg) isAction() {}
func (composeVolumesMsg) isAction()    {}
func (composeNetworksMsg) isAction()   {}

// ComposesScreen lists the compose projects found through resource labels.
type ComposesScreen struct {
	screenBase
	env  *Env
	list listState[types.Compose]
}

func NewComposesScreen(env *Env) *ComposesScreen {
	s := &ComposesScreen{env: env}
	s.list = listState[types.Compose]{
		kind: "compose project",
		columns: []column[types.Compose]{
			{title: "Project", less: func(a, b types.Compose) bool { return a.Project < b.Project }},
			{title: "Containers", width: 12, less: func(a, b types.Compose) bool { return a.Containers < b.Containers }},
			{title: "Volumes", width: 12, less: func(a, b types.Compose) bool { return a.Volumes < b.Volumes }},
			{title: "Networks", width: 12, less: func(a, b types.Compose) bool { return a.Networks < b.Networks }},
		},
		id:    func(c types.Compose) string { return c.Project },
		label: func(c types.Compose) string { return c.Project },
	}
	s.keys = []screenKey{
		newScreenKey(composeContainersMsg{}, "containers", "c"),
		newScreenKey(composeVolumesMsg{}, "volumes", "v"),
		newScreenKey(composeNetworksMsg{}, "networks", "n"),
	}
	return s
}

func (s *ComposesScreen) Name() string {
	return "composes"
}

func (s *ComposesScreen) Update(ctx context.Context, a Action) error {
	if s.list.update(ctx, a, s.env, s.send) {
		return nil
	}

	c, ok := s.list.current()
	switch a.(type) {
	case TickMsg:
		s.refresh(ctx)
	case OkMsg:
		if ok {
			s.send(ScreenMsg{Screen: NewComposeViewScreen(s.env, c.Project)})
		}
	case composeContainersMsg:
		if ok {
			s.send(ScreenMsg{Screen: NewContainersScreen(s.env, projectFilter(c.Project))})
		}
	case composeVolumesMsg:
		if ok {
			s.send(ScreenMsg{Screen: NewVolumesScreen(s.env, projectFilter(c.Project))})
		}
	case composeNetworksMsg:
		if ok {
			s.send(ScreenMsg{Screen: NewNetworksScreen(s.env, projectFilter(c.Project))})
		}
	}
	return nil
}

func projectFilter(project string) types.Filter {
	return types.LabelFilter(types.LabelComposeProject, project)
}

func (s *ComposesScreen) refresh(ctx context.Context) {
	projects, err := s.env.Client.ListComposeProjects(ctx)
	if err != nil {
		s.send(Errorf("Error getting compose list: %v", err))
		return
	}
	s.list.setItems(projects)
}

func (s *ComposesScreen) row(c types.Compose) ([]string, lipgloss.Style) {
	return []string{
		c.Project,
		strconv.Itoa(c.Containers),
		strconv.Itoa(c.Volumes),
		strconv.Itoa(c.Networks),
	}, normalStyle
}

func (s *ComposesScreen) View(width, height int) string {
	return s.list.view("Compose projects", width, height, s.row)
}
