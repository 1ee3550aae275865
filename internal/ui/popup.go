package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupKind identifies the overlay drawn above the screen.
type PopupKind int

const (
	PopupNone PopupKind = iota
	PopupError
	PopupHelp
)

// Popup is the app level overlay. TTL counts the ticks left before an
// error popup is dismissed.
type Popup struct {
	Kind    PopupKind
	Message string
	TTL     int
}

// Visible reports whether a popup is shown.
func (p Popup) Visible() bool {
	return p.Kind != PopupNone
}

func errorPopup(message string, width int) string {
	title := redStyle.Bold(true).Render("Error")
	body := lipgloss.NewStyle().Width(min(max(width/2, 20), width-4)).Render(message)
	return errorPopupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

func helpPopup(screen []key.Binding, global globalKeyMap) string {
	h := help.New()
	groups := [][]key.Binding{}
	if len(screen) > 0 {
		groups = append(groups, screen)
	}
	groups = append(groups, global.FullHelp()...)

	title := brightStyle.Bold(true).Render("Help")
	hint := grayStyle.Render("esc to close")
	return popupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", h.FullHelpView(groups), "", hint))
}

// overlay draws popup centered above base, which is height lines of width
// cells. Cells covered by the popup are replaced, the rest is kept.
func overlay(base, popup string, width, height int) string {
	if popup == "" {
		return base
	}

	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	popupLines := strings.Split(popup, "\n")

	popupWidth := 0
	for _, l := range popupLines {
		popupWidth = max(popupWidth, ansi.StringWidth(l))
	}
	top := max((height-len(popupLines))/2, 0)
	left := max((width-popupWidth)/2, 0)

	for i, p := range popupLines {
		row := top + i
		if row >= len(lines) {
			break
		}
		line := lines[row]
		prefix := ansi.Truncate(line, left, "")
		if w := ansi.StringWidth(prefix); w < left {
			prefix += strings.Repeat(" ", left-w)
		}
		p += strings.Repeat(" ", popupWidth-ansi.StringWidth(p))
		suffix := ansi.TruncateLeft(line, left+popupWidth, "")
		lines[row] = prefix + p + suffix
	}
	return strings.Join(lines, "\n")
}
