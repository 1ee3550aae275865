package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pyaillet/doggy/internal/types"
)

// pageSize is the number of rows PageUp and PageDown move by.
const pageSize = 15

// column describes one table column. A zero width column shares the space
// left by the fixed ones.
type column[T any] struct {
	title string
	width int
	less  func(a, b T) bool
}

// listState is the selection, sort and delete confirmation state shared by
// every resource list.
type listState[T any] struct {
	kind    string
	columns []column[T]
	id      func(T) string
	label   func(T) string
	remove  func(ctx context.Context, id string) error

	items    []T
	loaded   bool
	selected int
	offset   int
	sortCol  int
	desc     bool
	filter   types.Filter

	// confirm holds the item waiting for delete confirmation.
	confirm *T
}

// setItems sorts the fresh items and clamps the selection.
func (l *listState[T]) setItems(items []T) {
	l.items = items
	l.loaded = true
	l.sort()
	l.clamp()
}

func (l *listState[T]) sort() {
	if l.sortCol < 0 || l.sortCol >= len(l.columns) || l.columns[l.sortCol].less == nil {
		return
	}
	less := l.columns[l.sortCol].less
	sort.SliceStable(l.items, func(i, j int) bool {
		if l.desc {
			return less(l.items[j], l.items[i])
		}
		return less(l.items[i], l.items[j])
	})
}

func (l *listState[T]) clamp() {
	if l.selected >= len(l.items) {
		l.selected = len(l.items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

func (l *listState[T]) current() (T, bool) {
	var zero T
	if l.selected < 0 || l.selected >= len(l.items) {
		return zero, false
	}
	return l.items[l.selected], true
}

// sortBy sorts by column n, counted from 1. Selecting the active column
// again flips the direction.
func (l *listState[T]) sortBy(n int) {
	col := n - 1
	if col < 0 || col >= len(l.columns) {
		return
	}
	if col == l.sortCol {
		l.desc = !l.desc
	} else {
		l.sortCol = col
		l.desc = false
	}
	l.sort()
}

func (l *listState[T]) up() {
	if len(l.items) == 0 {
		return
	}
	l.selected = (l.selected - 1 + len(l.items)) % len(l.items)
}

func (l *listState[T]) down() {
	if len(l.items) == 0 {
		return
	}
	l.selected = (l.selected + 1) % len(l.items)
}

func (l *listState[T]) pageUp() {
	l.selected -= pageSize
	l.clamp()
}

func (l *listState[T]) pageDown() {
	l.selected = min(l.selected+pageSize, len(l.items)-1)
	l.clamp()
}

// update handles the actions every list understands. It reports whether
// the action was consumed.
func (l *listState[T]) update(ctx context.Context, a Action, env *Env, send func(Action)) bool {
	if l.confirm != nil {
		switch a.(type) {
		case OkMsg:
			l.delete(ctx, send)
			return true
		case PreviousScreenMsg:
			l.confirm = nil
			return true
		case TickMsg:
			return false
		}
		return true
	}

	switch a := a.(type) {
	case UpMsg:
		l.up()
	case DownMsg:
		l.down()
	case PageUpMsg:
		l.pageUp()
	case PageDownMsg:
		l.pageDown()
	case SortColumnMsg:
		l.sortBy(a.N)
	case YankMsg:
		item, ok := l.current()
		if !ok {
			return true
		}
		if err := env.Clipboard(l.id(item)); err != nil {
			send(Errorf("Unable to copy to clipboard: %v", err))
		}
	case DeleteMsg:
		if item, ok := l.current(); ok && l.remove != nil {
			l.confirm = &item
		}
	default:
		return false
	}
	return true
}

// delete removes the confirmed item. A failure leaves the confirmation open.
func (l *listState[T]) delete(ctx context.Context, send func(Action)) {
	id := l.id(*l.confirm)
	if err := l.remove(ctx, id); err != nil {
		send(Errorf("Unable to delete %s %s: %v", l.kind, l.label(*l.confirm), err))
		return
	}
	l.confirm = nil
	send(TickMsg{})
}

// filterText is the filter as the user typed it.
func (l *listState[T]) filterText() string {
	if l.filter.Key == "name" {
		return l.filter.Value
	}
	return l.filter.String()
}

// layout assigns widths to the columns so the table fills width cells.
func (l *listState[T]) layout(width int) []TableHeader {
	inner := max(width-2-(len(l.columns)-1), len(l.columns))

	fixed, flex := 0, 0
	for _, c := range l.columns {
		if c.width > 0 {
			fixed += c.width
		} else {
			flex++
		}
	}

	share, extra := 0, 0
	if flex > 0 {
		rest := max(inner-fixed, flex)
		share, extra = rest/flex, rest%flex
	}

	headers := make([]TableHeader, len(l.columns))
	for i, c := range l.columns {
		w := c.width
		if w == 0 {
			w = share
			if extra > 0 {
				w++
				extra--
			}
		}
		label := c.title
		if i == l.sortCol {
			if l.desc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		headers[i] = TableHeader{Label: label, Width: w}
	}
	return headers
}

// visibleRange returns the window of rows to draw, scrolled so the
// selection stays visible.
func (l *listState[T]) visibleRange(rows int) (start, end int) {
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+rows {
		l.offset = l.selected - rows + 1
	}
	l.offset = max(min(l.offset, len(l.items)-rows), 0)
	return l.offset, min(l.offset+rows, len(l.items))
}

// view renders the status line and the table.
func (l *listState[T]) view(title string, width, height int, row func(T) ([]string, lipgloss.Style)) string {
	var b strings.Builder

	// status line and four table borders
	rows := max(height-5, 1)
	start, end := l.visibleRange(rows)

	var extra []string
	if !l.filter.IsZero() {
		extra = append(extra, "filter: "+l.filter.String())
	}
	if len(l.items) > rows {
		extra = append(extra, fmt.Sprintf("[%d-%d of %d]", start+1, end, len(l.items)))
	}
	status := NewStatusLineComponent(title, len(l.items)).
		SetExtra(strings.Join(extra, " ")).
		WithWidth(width)
	b.WriteString(status.View())

	tableRows := make([]TableRow, len(l.items))
	for i := start; i < end; i++ {
		cells, style := row(l.items[i])
		tableRows[i] = TableRow{Cells: cells, IsSelected: i == l.selected, Style: style}
	}

	table := NewTableComponent(l.layout(width)).
		SetRows(tableRows).
		SetVisibleRange(start, end).
		WithHeight(rows).
		WithWidth(width)
	b.WriteString(table.View())

	return b.String()
}

// confirmView renders the delete confirmation popup, or "" when closed.
func (l *listState[T]) confirmView() string {
	if l.confirm == nil {
		return ""
	}
	title := redStyle.Bold(true).Render("Delete " + l.kind)
	body := fmt.Sprintf("Delete %s %s (%s)?", l.kind, l.label(*l.confirm), shortID(l.id(*l.confirm)))
	hint := cyanStyle.Render("[enter] Confirm  [esc] Cancel")
	return errorPopupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}

// shortID trims an identifier for display.
func shortID(id string) string {
	if _, rest, ok := strings.Cut(id, ":"); ok {
		id = rest
	}
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
