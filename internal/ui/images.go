package ui

import (
	"context"

	"github.com/charmbracelet/lipgloss"

	"github.com/pyaillet/doggy/internal/types"
)

// ImagesScreen lists images.
type ImagesScreen struct {
	screenBase
	env  *Env
	list listState[types.ImageSummary]
}

func NewImagesScreen(env *Env, filter types.Filter) *ImagesScreen {
	s := &ImagesScreen{env: env}
	s.list = listState[types.ImageSummary]{
		kind: "image",
		columns: []column[types.ImageSummary]{
			{title: "Id", width: 14, less: func(a, b types.ImageSummary) bool { return a.ID < b.ID }},
			{title: "Name", less: func(a, b types.ImageSummary) bool { return a.Name < b.Name }},
			{title: "Size", width: 10, less: func(a, b types.ImageSummary) bool { return a.Size < b.Size }},
			{title: "Age", width: 14, less: func(a, b types.ImageSummary) bool { return a.Created.After(b.Created) }},
		},
		sortCol: 3,
		filter:  filter,
		id:      func(i types.ImageSummary) string { return i.ID },
		label:   func(i types.ImageSummary) string { return i.Name },
		remove:  env.Client.DeleteImage,
	}
	s.keys = []screenKey{
		newScreenKey(InspectMsg{}, "inspect", "i"),
		newScreenKey(OkMsg{}, "containers", "c"),
	}
	return s
}

func (s *ImagesScreen) Name() string {
	return "images"
}

func (s *ImagesScreen) CurrentFilter() string {
	return s.list.filterText()
}

func (s *ImagesScreen) Update(ctx context.Context, a Action) error {
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
		if img, ok := s.list.current(); ok {
			openInspect(ctx, s.send, "image", img.ID, img.Name, s.env.Client.GetImage, s.backFactory())
		}
	case OkMsg:
		if img, ok := s.list.current(); ok {
			filter := types.Filter{Key: "ancestor", Value: img.ID}
			s.send(ScreenMsg{Screen: NewContainersScreen(s.env, filter)})
		}
	}
	return nil
}

func (s *ImagesScreen) refresh(ctx context.Context) {
	images, err := s.env.Client.ListImages(ctx, s.list.filter)
	if err != nil {
		s.send(Errorf("Error getting image list: %v", err))
		return
	}
	s.list.setItems(images)
}

func (s *ImagesScreen) backFactory() func() Screen {
	env, filter := s.env, s.list.filter
	return func() Screen {
		return NewImagesScreen(env, filter)
	}
}

func (s *ImagesScreen) row(img types.ImageSummary) ([]string, lipgloss.Style) {
	style := normalStyle
	if img.Name == types.None {
		style = grayStyle
	}
	return []string{shortID(img.ID), img.Name, formatSize(img.Size), formatAge(img.Created)}, style
}

func (s *ImagesScreen) View(width, height int) string {
	body := s.list.view("Images", width, height, s.row)
	return overlay(body, s.list.confirmView(), width, height)
}
