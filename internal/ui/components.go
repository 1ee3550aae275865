package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// HeaderComponent renders the top header bar
type HeaderComponent struct {
	title string
	help  string
	width int
}

func NewHeaderComponent(title, help string) HeaderComponent {
	return HeaderComponent{
		title: title,
		help:  help,
		width: 78,
	}
}

func (h HeaderComponent) WithWidth(width int) HeaderComponent {
	h.width = max(width-2, 0) // borders
	return h
}

func (h HeaderComponent) View() string {
	var b strings.Builder

	b.WriteString(greenStyle.Render("┌" + strings.Repeat("─", h.width) + "┐"))
	b.WriteString("\n")
	b.WriteString(boxLine(" "+h.title, h.help+" ", h.width, brightStyle, greenStyle))
	b.WriteString("\n")

	return b.String()
}

// StatusLineComponent renders a status line with item count
type StatusLineComponent struct {
	label string
	count int
	extra string
	width int
}

func NewStatusLineComponent(label string, count int) StatusLineComponent {
	return StatusLineComponent{
		label: label,
		count: count,
		width: 78,
	}
}

func (s StatusLineComponent) WithWidth(width int) StatusLineComponent {
	s.width = max(width-2, 0)
	return s
}

// SetExtra sets the text shown on the right (filter, scroll position).
func (s StatusLineComponent) SetExtra(extra string) StatusLineComponent {
	s.extra = extra
	return s
}

func (s StatusLineComponent) View() string {
	statusText := fmt.Sprintf(" %s (%d total)", s.label, s.count)
	return boxLine(statusText, s.extra+" ", s.width, cyanStyle, cyanStyle) + "\n"
}

// TableComponent renders a table with headers and rows
type TableComponent struct {
	headers []TableHeader
	rows    []TableRow
	start   int
	end     int
	height  int
	width   int
}

type TableHeader struct {
	Label string
	Width int
}

type TableRow struct {
	Cells      []string
	IsSelected bool
	Style      lipgloss.Style
}

func NewTableComponent(headers []TableHeader) TableComponent {
	return TableComponent{
		headers: headers,
		rows:    []TableRow{},
		width:   78,
	}
}

func (t TableComponent) WithWidth(width int) TableComponent {
	t.width = max(width-2, 0)
	return t
}

// WithHeight sets the number of row lines drawn, padding with blank rows.
func (t TableComponent) WithHeight(height int) TableComponent {
	t.height = height
	return t
}

func (t TableComponent) SetRows(rows []TableRow) TableComponent {
	t.rows = rows
	return t
}

func (t TableComponent) SetVisibleRange(start, end int) TableComponent {
	t.start = start
	t.end = end
	return t
}

func (t TableComponent) divider(cross string) string {
	var b strings.Builder
	b.WriteString("├")
	for i, header := range t.headers {
		b.WriteString(strings.Repeat("─", header.Width))
		if i < len(t.headers)-1 {
			b.WriteString(cross)
		}
	}
	b.WriteString("┤")
	return greenStyle.Render(b.String())
}

func (t TableComponent) View() string {
	var b strings.Builder

	b.WriteString(t.divider("┬"))
	b.WriteString("\n")

	b.WriteString(greenStyle.Render("│"))
	for _, header := range t.headers {
		b.WriteString(normalStyle.Render(padCenter(header.Label, header.Width)))
		b.WriteString(greenStyle.Render("│"))
	}
	b.WriteString("\n")

	b.WriteString(t.divider("┼"))
	b.WriteString("\n")

	drawn := 0
	if len(t.rows) == 0 {
		b.WriteString(boxLine(" No items found", "", t.width, cyanStyle, cyanStyle))
		b.WriteString("\n")
		drawn++
	} else {
		for i := t.start; i < t.end && i < len(t.rows); i++ {
			row := t.rows[i]
			b.WriteString(greenStyle.Render("│"))
			for j, header := range t.headers {
				cell := ""
				if j < len(row.Cells) {
					cell = row.Cells[j]
				}
				cellText := padRight(cell, header.Width)
				if row.IsSelected {
					b.WriteString(yellowStyle.Render(cellText))
				} else {
					b.WriteString(row.Style.Render(cellText))
				}
				b.WriteString(greenStyle.Render("│"))
			}
			b.WriteString("\n")
			drawn++
		}
	}

	for ; drawn < t.height; drawn++ {
		b.WriteString(greenStyle.Render("│"))
		for i, header := range t.headers {
			b.WriteString(strings.Repeat(" ", header.Width))
			if i < len(t.headers)-1 {
				b.WriteString(greenStyle.Render("│"))
			}
		}
		b.WriteString(greenStyle.Render("│"))
		b.WriteString("\n")
	}

	b.WriteString(t.divider("┴"))
	b.WriteString("\n")

	return b.String()
}

// ActionBarComponent renders the action bar at the bottom
type ActionBarComponent struct {
	actions       string
	statusMessage string
	width         int
}

func NewActionBarComponent() ActionBarComponent {
	return ActionBarComponent{
		width: 78,
	}
}

func (a ActionBarComponent) WithWidth(width int) ActionBarComponent {
	a.width = max(width-2, 0)
	return a
}

func (a ActionBarComponent) SetActions(actions string) ActionBarComponent {
	a.actions = actions
	return a
}

// SetStatusMessage replaces the actions, typically with the prompt line.
func (a ActionBarComponent) SetStatusMessage(message string) ActionBarComponent {
	a.statusMessage = message
	return a
}

func (a ActionBarComponent) View() string {
	var b strings.Builder

	switch {
	case a.statusMessage != "":
		b.WriteString(boxLine(" "+a.statusMessage, "", a.width, brightStyle, brightStyle))
	default:
		b.WriteString(boxLine(" "+a.actions, "", a.width, cyanStyle, cyanStyle))
	}
	b.WriteString("\n")

	b.WriteString(greenStyle.Render("└" + strings.Repeat("─", a.width) + "┘"))

	return b.String()
}

// DetailViewComponent renders text content such as logs or inspect output
type DetailViewComponent struct {
	title  string
	right  string
	lines  []string
	scroll int
	height int
	width  int
}

func NewDetailViewComponent(title string, height int) DetailViewComponent {
	return DetailViewComponent{
		title:  title,
		right:  "[ESC] Back",
		height: height,
		width:  78,
	}
}

func (d DetailViewComponent) WithWidth(width int) DetailViewComponent {
	d.width = max(width-2, 0)
	return d
}

// SetRight replaces the text shown at the right of the title line.
func (d DetailViewComponent) SetRight(right string) DetailViewComponent {
	d.right = right
	return d
}

// SetLines sets content already split in display lines.
func (d DetailViewComponent) SetLines(lines []string) DetailViewComponent {
	d.lines = lines
	return d
}

func (d DetailViewComponent) SetScroll(scroll int) DetailViewComponent {
	d.scroll = scroll
	return d
}

// ContentHeight is the number of content lines that fit.
func (d DetailViewComponent) ContentHeight() int {
	return max(d.height-2, 1)
}

func (d DetailViewComponent) View() string {
	var b strings.Builder

	b.WriteString(boxLine(" "+d.title, d.right+" ", d.width, brightStyle, greenStyle))
	b.WriteString("\n")
	b.WriteString(greenStyle.Render("├" + strings.Repeat("─", d.width) + "┤"))
	b.WriteString("\n")

	visible := d.ContentHeight()
	if d.lines == nil {
		b.WriteString(boxLine(" Loading...", "", d.width, cyanStyle, cyanStyle))
		b.WriteString("\n")
		visible--
	} else {
		end := min(d.scroll+visible, len(d.lines))
		for i := d.scroll; i < end; i++ {
			b.WriteString(boxLine(d.lines[i], "", d.width, normalStyle, normalStyle))
			b.WriteString("\n")
		}
		visible -= max(end-d.scroll, 0)
	}

	for ; visible > 0; visible-- {
		b.WriteString(boxLine("", "", d.width, normalStyle, normalStyle))
		b.WriteString("\n")
	}

	return b.String()
}

// boxLine renders "│left   right│" in exactly width inner cells.
func boxLine(left, right string, width int, leftStyle, rightStyle lipgloss.Style) string {
	rightWidth := ansi.StringWidth(right)
	if rightWidth > width {
		right = ""
		rightWidth = 0
	}
	left = ansi.Truncate(left, width-rightWidth, "…")
	spacing := width - ansi.StringWidth(left) - rightWidth

	return greenStyle.Render("│") +
		leftStyle.Render(left) +
		strings.Repeat(" ", max(spacing, 0)) +
		rightStyle.Render(right) +
		greenStyle.Render("│")
}

// padRight pads or truncates s to width cells.
func padRight(s string, width int) string {
	if ansi.StringWidth(s) > width {
		return ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-ansi.StringWidth(s))
}

func padCenter(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	leftPad := (width - w) / 2
	rightPad := width - w - leftPad
	return strings.Repeat(" ", leftPad) + s + strings.Repeat(" ", rightPad)
}
