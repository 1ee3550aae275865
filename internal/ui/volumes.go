package ui

import (
	"context"

	"github.com/charmbracelet/lipgloss"

	"github.com/pyaillet/doggy/internal/types"
)

// VolumesScreen lists volumes. A volume is identified by its name.
type VolumesScreen struct {
	screenBase
	env  *Env
	list listState[types.VolumeSummary]
}

func NewVolumesScreen(env *Env, filter types.Filter) *VolumesScreen {
	s := &VolumesScreen{env: env}
	s.list = listState[types.VolumeSummary]{
		kind: "volume",
		columns: []column[types.VolumeSummary]{
			{title: "Id", less: func(a, b types.VolumeSummary) bool { return a.ID < b.ID }},
			{title: "Driver", width: 12, less: func(a, b types.VolumeSummary) bool { return a.Driver < b.Driver }},
			{title: "Size", width: 10, less: func(a, b types.VolumeSummary) bool { return a.Size < b.Size }},
			{title: "Age", width: 14, less: func(a, b types.VolumeSummary) bool { return a.Created.After(b.Created) }},
		},
		filter: filter,
		id:     func(v types.VolumeSummary) string { return v.ID },
		label:  func(v types.VolumeSummary) string { return v.ID },
		remove: env.Client.DeleteVolume,
	}
	s.keys = []screenKey{
		newScreenKey(InspectMsg{}, "inspect", "i"),
	}
	return s
}

func (s *VolumesScreen) Name() string {
	return "volumes"
}

func (s *VolumesScreen) CurrentFilter() string {
	return s.list.filterText()
}

func (s *VolumesScreen) Update(ctx context.Context, a Action) error {
	if s.list.update(ctx, a, s.env, s.send) {
		return nil
	}

	switch a := a.(type) {
	case TickMsg:
		s.refresh(ctx)
	case SetFilterMsg:
		s.list.filter = types.Filter{}
		if a.Value != nil {
			s.list.filter = types.ParseFilter(*a.Value)
		}
		s.list.selected = 0
		s.refresh(ctx)
	case PreviousScreenMsg:
		if !s.list.filter.IsZero() {
			s.list.filter = types.Filter{}
			s.refresh(ctx)
		}
	case InspectMsg:
		if v, ok := s.list.current(); ok {
			env, filter := s.env, s.list.filter
			back := func() Screen { return NewVolumesScreen(env, filter) }
			openInspect(ctx, s.send, "volume", v.ID, v.ID, s.env.Client.GetVolume, back)
		}
	}
	return nil
}

func (s *VolumesScreen) refresh(ctx context.Context) {
	volumes, err := s.env.Client.ListVolumes(ctx, s.list.filter)
	if err != nil {
		s.send(Errorf("Error getting volume list: %v", err))
		return
	}
	s.list.setItems(volumes)
}

func (s *VolumesScreen) row(v types.VolumeSummary) ([]string, lipgloss.Style) {
	return []string{v.ID, v.Driver, formatSize(v.Size), formatAge(v.Created)}, normalStyle
}

func (s *VolumesScreen) View(width, height int) string {
	body := s.list.view("Volumes", width, height, s.row)
	return overlay(body, s.list.confirmView(), width, height)
}
