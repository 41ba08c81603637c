package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vineetnegi0101/postgresql-mcp-server/internal/bridge"
)

// Update implements tea.Model and routes all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		m.ready = true
		m.rebuildViewport()
		return m, nil

	// スピナーティック（thinking アニメーション用）
	case spinner.TickMsg:
		if m.spinning {
			var spinCmd tea.Cmd
			m.spinner, spinCmd = m.spinner.Update(msg)
			m.rebuildViewport()
			return m, spinCmd
		}
		return m, nil

	// Bridge からの進捗イベントを処理する。
	case BridgeEventMsg:
		spinCmd := m.handleBridgeEvent(bridge.Event(msg))
		// 次のイベントを待つコマンドを再登録（Bubble Tea の非同期ループパターン）
		var batch []tea.Cmd
		if spinCmd != nil {
			batch = append(batch, spinCmd)
		}
		if m.events != nil {
			batch = append(batch, BridgeEventCmd(m.events))
		}
		return m, tea.Batch(batch...)

	case answerDoneMsg:
		m.busy = false
		m.spinning = false
		m.finishThinking()
		if msg.err != nil {
			// エラーイベントが既に表示済みでも最終エラーは明示する
			if last := m.lastBlock(); last == nil || last.typ != blockSystem || last.text != msg.err.Error() {
				m.blocks = append(m.blocks, &displayBlock{typ: blockSystem, text: msg.err.Error(), isError: true})
			}
		}
		m.rebuildViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			m.input.SetValue("")
			return m, nil

		case "enter":
			return m.handleSubmit()

		case "up", "down", "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleSubmit は入力バーの内容を質問として Bridge に送る。
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" || m.busy || m.br == nil {
		return m, nil
	}

	m.input.SetValue("")
	m.busy = true
	m.thinkStart = time.Now()
	m.blocks = append(m.blocks,
		&displayBlock{typ: blockUser, text: question},
		&displayBlock{typ: blockThinking},
	)
	m.spinning = true
	m.rebuildViewport()

	return m, tea.Batch(m.askCmd(question), m.spinner.Tick)
}

// handleBridgeEvent は Bridge の進捗イベントを表示ブロックへ反映する。
// スピナー開始が必要な場合はそのコマンドを返す。
func (m *Model) handleBridgeEvent(e bridge.Event) tea.Cmd {
	switch e.Type {
	case bridge.EventThinking:
		// thinking ブロックは handleSubmit で追加済み。表示だけ更新する。

	case bridge.EventFunction:
		m.finishThinking()
		m.blocks = append(m.blocks,
			&displayBlock{
				typ:         blockFunction,
				function:    e.Function,
				argsPreview: formatArgsPreview(e.Args),
			},
			&displayBlock{typ: blockThinking}, // ツール実行中のスピナー
		)
		m.thinkStart = time.Now()

	case bridge.EventResult:
		m.finishThinking()
		if e.Outcome != nil {
			m.blocks = append(m.blocks, &displayBlock{
				typ:     blockResult,
				text:    e.Outcome.Text,
				isError: e.Outcome.IsError,
			})
		}
		m.spinning = false

	case bridge.EventError:
		m.finishThinking()
		m.blocks = append(m.blocks, &displayBlock{typ: blockSystem, text: e.Message, isError: true})
		m.spinning = false
	}

	m.rebuildViewport()
	return nil
}

// handleResize はウィンドウサイズ変更に合わせて各コンポーネントを再配置する。
// 高さの内訳: ステータスバー1 + viewport枠2 + 入力バー3。
func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - 1 - 2 - 3
	if vpHeight < 3 {
		vpHeight = 3
	}
	vpWidth := width - 4
	if vpWidth < 20 {
		vpWidth = 20
	}

	if m.viewport.Width == 0 {
		m.viewport = viewport.New(vpWidth, vpHeight)
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 8
}
