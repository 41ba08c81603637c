package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary   = lipgloss.Color("#00D7FF") // cyan — focus / function
	colorSecondary = lipgloss.Color("#AF87FF") // purple — thinking
	colorSuccess   = lipgloss.Color("#87FF5F") // green — user input
	colorWarning   = lipgloss.Color("#FFD700") // yellow — busy indicator
	colorDanger    = lipgloss.Color("#FF5555") // red — errors
	colorMuted     = lipgloss.Color("#555577") // dim gray — hints
	colorBorder    = lipgloss.Color("#333355")
)

// Viewport border
var logPaneStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder)

// Input bar
var inputBarStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary)

// Status bar (top)
var statusBarStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("#0D0D1A")).
	Foreground(colorPrimary).
	Padding(0, 1)

// User input block — ハイライト背景でユーザー入力を目立たせる
var userBlockStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("#1A1A2E")).
	Foreground(colorSuccess).
	Bold(true).
	Padding(0, 1)

var (
	thinkingStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	functionStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	argsStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle    = lipgloss.NewStyle().Foreground(colorDanger)
	systemStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)
