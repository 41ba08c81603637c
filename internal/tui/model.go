// Package tui は PostgreSQL アシスタントのチャットコンソールを実装する。
//
// レイアウト:
//
//	ステータスバー（1行）
//	会話ログ（viewport、Markdown レンダリング付き）
//	入力バー（textinput）
//
// 質問の処理は Bridge に委譲し、進捗は bridge.Event チャネルで受け取る。
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vineetnegi0101/postgresql-mcp-server/internal/bridge"
)

// BridgeEventMsg は Bridge から届く Bubble Tea メッセージ。
type BridgeEventMsg bridge.Event

// answerDoneMsg は 1 つの質問の処理が終わったことを示す。
type answerDoneMsg struct {
	out *bridge.Outcome
	err error
}

// Model is the root Bubble Tea model for the chat console.
type Model struct {
	width  int
	height int
	ready  bool

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	spinning bool

	blocks     []*displayBlock
	busy       bool // 質問処理中は入力を受け付けない
	thinkStart time.Time

	br        *bridge.Bridge
	events    <-chan bridge.Event
	modelName string
}

// BridgeEventCmd は次の Bridge イベントを待つ Bubble Tea コマンド。
func BridgeEventCmd(ch <-chan bridge.Event) tea.Cmd {
	return func() tea.Msg {
		return BridgeEventMsg(<-ch)
	}
}

// New は Model を初期化する。br が nil の場合は表示のみのデモモード。
func New(br *bridge.Bridge, events <-chan bridge.Event, modelName string) Model {
	ti := textinput.New()
	ti.Placeholder = "PostgreSQL への質問を入力..."
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorSecondary)

	return Model{
		input:     ti,
		spinner:   sp,
		br:        br,
		events:    events,
		modelName: modelName,
		blocks: []*displayBlock{
			{typ: blockSystem, text: "質問を入力すると PostgreSQL に対して実行します。Ctrl+C で終了。"},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.events != nil {
		cmds = append(cmds, BridgeEventCmd(m.events))
	}
	return tea.Batch(cmds...)
}

// askCmd は Bridge.Answer を別 goroutine で実行する Bubble Tea コマンド。
// 進捗は events チャネル経由で先に届き、最終結果がこのメッセージで届く。
func (m *Model) askCmd(question string) tea.Cmd {
	br := m.br
	return func() tea.Msg {
		out, err := br.Answer(context.Background(), question)
		return answerDoneMsg{out: out, err: err}
	}
}

// rebuildViewport は会話ログを再レンダリングして末尾へスクロールする。
func (m *Model) rebuildViewport() {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	m.viewport.SetContent(renderBlocks(m.blocks, width, m.spinner.View()))
	m.viewport.GotoBottom()
}

// lastBlock は末尾のブロックを返す（空なら nil）。
func (m *Model) lastBlock() *displayBlock {
	if len(m.blocks) == 0 {
		return nil
	}
	return m.blocks[len(m.blocks)-1]
}

// finishThinking はアクティブな thinking ブロックを完了状態にする。
func (m *Model) finishThinking() {
	for i := len(m.blocks) - 1; i >= 0; i-- {
		b := m.blocks[i]
		if b.typ == blockThinking && !b.done {
			b.done = true
			b.elapsed = time.Since(m.thinkStart)
			return
		}
	}
}
