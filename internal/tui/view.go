package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model and renders the chat console layout.
func (m Model) View() string {
	if !m.ready {
		return "\n  🐘 Starting pgassist...\n"
	}

	statusBar := m.renderStatusBar()

	logPane := logPaneStyle.Width(m.width - 2).Render(m.viewport.View())

	inputBar := m.renderInputBar()

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, logPane, inputBar)
}

// renderStatusBar はアプリ名・モデル名・状態を 1 行で表示する。
func (m Model) renderStatusBar() string {
	appName := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("🐘 PGASSIST")

	var modelInfo string
	if m.modelName != "" {
		modelInfo = lipgloss.NewStyle().Foreground(colorMuted).Render("Model: " + m.modelName)
	}

	var state string
	if m.busy {
		state = lipgloss.NewStyle().Foreground(colorWarning).Render("● 実行中")
	} else {
		state = lipgloss.NewStyle().Foreground(colorSuccess).Render("● 待機中")
	}

	hint := lipgloss.NewStyle().Foreground(colorMuted).Render("[Enter] 送信  [↑↓] スクロール  [Ctrl+C] 終了")

	left := appName + "  " + state
	if modelInfo != "" {
		left += "  " + modelInfo
	}
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(hint)-2))

	return statusBarStyle.Width(m.width).Render(left + gap + hint)
}

// renderInputBar は下部の入力バーをレンダリングする。
func (m Model) renderInputBar() string {
	prefix := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("> ")
	return inputBarStyle.Width(m.width - 2).Render(prefix + m.input.View())
}

// max returns the larger of two integers.
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
