package ui

import (
	"context"

	"github.com/charmbracelet/lipgloss"

	"github.com/pyaillet/doggy/internal/types"
)

// NetworksScreen lists networks.
type NetworksScreen struct {
	screenBase
	env  *Env
	list listState[types.NetworkSummary]
}

func NewNetworksScreen(env *Env, filter types.Filter) *NetworksScreen {
	s := &NetworksScreen{env: env}
	s.list = listState[types.NetworkSummary]{
		kind: "network",
		columns: []column[types.NetworkSummary]{
			{title: "Id", width: 14, less: func(a, b types.NetworkSummary) bool { return a.ID < b.ID }},
			{title: "Name", less: func(a, b types.NetworkSummary) bool { return a.Name < b.Name }},
			{title: "Driver", width: 12, less: func(a, b types.NetworkSummary) bool { return a.Driver < b.Driver }},
			{title: "Age", width: 14, less: func(a, b types.NetworkSummary) bool { return a.Created.After(b.Created) }},
		},
		sortCol: 1,
		filter:  filter,
		id:      func(n types.NetworkSummary) string { return n.ID },
		label:   func(n types.NetworkSummary) string { return n.Name },
		remove:  env.Client.DeleteNetwork,
	}
	s.keys = []screenKey{
		newScreenKey(InspectMsg{}, "inspect", "i"),
	}
	return s
}

func (s *NetworksScreen) Name() string {
	return "networks"
}

func (s *NetworksScreen) CurrentFilter() string {
	return s.list.filterText()
}

func (s *NetworksScreen) Update(ctx context.Context, a Action) error {
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
		if n, ok := s.list.current(); ok {
			env, filter := s.env, s.list.filter
			back := func() Screen { return NewNetworksScreen(env, filter) }
			openInspect(ctx, s.send, "network", n.ID, n.Name, s.env.Client.GetNetwork, back)
		}
	}
	return nil
}

func (s *NetworksScreen) refresh(ctx context.Context) {
	networks, err := s.env.Client.ListNetworks(ctx, s.list.filter)
	if err != nil {
		s.send(Errorf("Error getting network list: %v", err))
		return
	}
	s.list.setItems(networks)
}

func (s *NetworksScreen) row(n types.NetworkSummary) ([]string, lipgloss.Style) {
	return []string{shortID(n.ID), n.Name, n.Driver, formatAge(n.Created)}, normalStyle
}

func (s *NetworksScreen) View(width, height int) string {
	body := s.list.view("Networks", width, height, s.row)
	return overlay(body, s.list.confirmView(), width, height)
}
