package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/jmespath/go-jmespath"
)

// InspectScreen shows the JSON document of a resource. A JMESPath
// expression entered at the filter prompt narrows the document.
type InspectScreen struct {
	screenBase
	kind   string
	name   string
	raw    string
	lines  []string
	expr   string
	wrap   bool
	scroll int
	page   int
	back   func() Screen
}

// NewInspectScreen creates an inspect screen; back builds the screen
// returned to on PreviousScreen.
func NewInspectScreen(kind, name, detail string, back func() Screen) *InspectScreen {
	s := &InspectScreen{
		kind:  kind,
		name:  name,
		raw:   detail,
		lines: strings.Split(detail, "\n"),
		page:  pageSize,
		back:  back,
	}
	s.keys = []screenKey{
		newScreenKey(LineWrapMsg{}, "toggle wrap", "w"),
	}
	return s
}

// openInspect fetches the document and navigates to its inspect screen.
func openInspect(ctx context.Context, send func(Action), kind, id, name string, get func(context.Context, string) (string, error), back func() Screen) {
	detail, err := get(ctx, id)
	if err != nil {
		send(Errorf("Unable to inspect %s %s: %v", kind, name, err))
		return
	}
	send(ScreenMsg{Screen: NewInspectScreen(kind, name, detail, back)})
}

func (s *InspectScreen) Name() string {
	return "inspect"
}

func (s *InspectScreen) CurrentFilter() string {
	return s.expr
}

func (s *InspectScreen) Update(_ context.Context, a Action) error {
	switch a := a.(type) {
	case UpMsg:
		s.scroll = max(s.scroll-1, 0)
	case DownMsg:
		s.scroll++
	case PageUpMsg:
		s.scroll = max(s.scroll-s.page, 0)
	case PageDownMsg:
		s.scroll += s.page
	case LineWrapMsg:
		s.wrap = !s.wrap
	case SetFilterMsg:
		if a.Value == nil {
			s.expr = ""
			s.lines = strings.Split(s.raw, "\n")
			s.scroll = 0
			return nil
		}
		filtered, err := searchJSON(s.raw, *a.Value)
		if err != nil {
			s.send(Errorf("Invalid filter: %v", err))
			return nil
		}
		s.expr = *a.Value
		s.lines = strings.Split(filtered, "\n")
		s.scroll = 0
	case PreviousScreenMsg:
		if s.back != nil {
			s.send(ScreenMsg{Screen: s.back()})
		}
	}
	return nil
}

// searchJSON evaluates a JMESPath expression against a JSON document and
// returns the indented result.
func searchJSON(doc, expr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return "", fmt.Errorf("document is not JSON: %w", err)
	}
	result, err := jmespath.Search(expr, data)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *InspectScreen) View(width, height int) string {
	detail := NewDetailViewComponent(fmt.Sprintf("Inspect %s %s", s.kind, s.name), height).WithWidth(width)

	lines := s.lines
	if s.wrap {
		lines = wrapLines(lines, width-3)
	}
	s.page = detail.ContentHeight()
	s.scroll = max(min(s.scroll, len(lines)-s.page), 0)

	right := "[ESC] Back"
	if s.expr != "" {
		right = "filter: " + s.expr + " " + right
	}
	return detail.SetRight(right).SetLines(prefixLines(lines)).SetScroll(s.scroll).View()
}

// wrapLines hard wraps every line to width cells.
func wrapLines(lines []string, width int) []string {
	if width < 1 {
		return lines
	}
	wrapped := make([]string, 0, len(lines))
	for _, l := range lines {
		wrapped = append(wrapped, strings.Split(ansi.Hardwrap(l, width, true), "\n")...)
	}
	return wrapped
}

func prefixLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = " " + l
	}
	return out
}
