package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	bgColor     = lipgloss.Color("#0a0a0a")
	borderColor = lipgloss.Color("#303030")

	green  = lipgloss.Color("#00FF00")
	yellow = lipgloss.Color("#FFFF00")
	red    = lipgloss.Color("#FF0000")
	cyan   = lipgloss.Color("#00FFFF")

	white    = lipgloss.Color("#FFFFFF")
	grayText = lipgloss.Color("#666666")
	darkGray = lipgloss.Color("#444444")
)

// Styles
var (
	normalStyle = lipgloss.NewStyle().
			Foreground(grayText).
			Background(bgColor)

	brightStyle = lipgloss.NewStyle().
			Foreground(white).
			Background(bgColor)

	greenStyle = lipgloss.NewStyle().
			Foreground(green).
			Background(bgColor)

	yellowStyle = lipgloss.NewStyle().
			Foreground(yellow).
			Background(bgColor).
			Bold(true)

	redStyle = lipgloss.NewStyle().
			Foreground(red).
			Background(bgColor)

	cyanStyle = lipgloss.NewStyle().
			Foreground(cyan).
			Background(bgColor)

	grayStyle = lipgloss.NewStyle().
			Foreground(darkGray).
			Background(bgColor)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	errorPopupStyle = popupStyle.
			BorderForeground(red)
)
