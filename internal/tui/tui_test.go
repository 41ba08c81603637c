package tui

import (
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vineetnegi0101/postgresql-mcp-server/internal/bridge"
)

// stripANSI は ANSI エスケープシーケンスを除去する（テスト用ヘルパー）。
// glamour は単語を別々のカラースパンに分割するため、
// レンダリング結果のアサーションは除去後の文字列に対して行う。
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func TestFormatArgsPreview(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "空マップ",
			args: nil,
			want: "",
		},
		{
			name: "キーはソートされる",
			args: map[string]any{"sql": "SELECT 1", "operation": "create"},
			want: `operation="create", sql="SELECT 1"`,
		},
		{
			name: "非文字列値も JSON 表現になる",
			args: map[string]any{"transactional": false},
			want: "transactional=false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatArgsPreview(tt.args); got != tt.want {
				t.Errorf("formatArgsPreview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "<1s"},
		{12 * time.Second, "12s"},
		{83 * time.Second, "1m23s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestHandleBridgeEvent_BlockSequence(t *testing.T) {
	m := New(nil, nil, "gpt-3.5-turbo")
	m.handleResize(100, 40)
	initial := len(m.blocks)

	// handleSubmit 相当の状態を手で作る
	m.blocks = append(m.blocks, &displayBlock{typ: blockUser, text: "list users"}, &displayBlock{typ: blockThinking})
	m.thinkStart = time.Now()
	m.spinning = true

	m.handleBridgeEvent(bridge.Event{Type: bridge.EventFunction,
		Function: "manage_users", Args: map[string]any{"operation": "list"}})

	// function ブロックと新しい thinking ブロックが追加される
	fn := m.blocks[initial+2]
	if fn.typ != blockFunction || fn.function != "manage_users" {
		t.Errorf("blocks[%d] = %+v, want function block", initial+2, fn)
	}
	if !strings.Contains(fn.argsPreview, `operation="list"`) {
		t.Errorf("argsPreview = %q", fn.argsPreview)
	}
	if m.blocks[initial+3].typ != blockThinking {
		t.Errorf("expected trailing thinking block")
	}
	// 最初の thinking は完了済み
	if !m.blocks[initial+1].done {
		t.Error("first thinking block not finished")
	}

	m.handleBridgeEvent(bridge.Event{Type: bridge.EventResult,
		Outcome: &bridge.Outcome{Text: "2 users", Function: "manage_users"}})

	last := m.lastBlock()
	if last.typ != blockResult || last.text != "2 users" {
		t.Errorf("last block = %+v, want result", last)
	}
	if m.spinning {
		t.Error("spinner still running after result")
	}
}

func TestHandleBridgeEvent_Error(t *testing.T) {
	m := New(nil, nil, "")
	m.handleResize(100, 40)
	m.spinning = true

	m.handleBridgeEvent(bridge.Event{Type: bridge.EventError, Message: "bridge: boom"})

	last := m.lastBlock()
	if last.typ != blockSystem || !last.isError {
		t.Errorf("last block = %+v, want error system block", last)
	}
	if m.spinning {
		t.Error("spinner still running after error")
	}
}

func TestRenderBlocks(t *testing.T) {
	blocks := []*displayBlock{
		{typ: blockUser, text: "how many tables?"},
		{typ: blockThinking, done: true, elapsed: 2 * time.Second},
		{typ: blockFunction, function: "analyze_database", argsPreview: `type="configuration"`},
		{typ: blockResult, text: "42 tables", isError: false},
		{typ: blockSystem, text: "oops", isError: true},
	}

	out := stripANSI(renderBlocks(blocks, 80, "⠋"))
	for _, want := range []string{"how many tables?", "Completed in 2s", "analyze_database", "42 tables", "oops"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderBlocks output missing %q", want)
		}
	}
}

func TestRenderResultBlock_ServerError(t *testing.T) {
	out := stripANSI(renderResultBlock(&displayBlock{typ: blockResult, text: "permission denied", isError: true}, 80))
	if !strings.Contains(out, "permission denied") {
		t.Errorf("output = %q", out)
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m := New(nil, nil, "")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(Model)
	if !got.ready {
		t.Error("ready = false after WindowSizeMsg")
	}
	if got.viewport.Width != 116 {
		t.Errorf("viewport.Width = %d, want 116", got.viewport.Width)
	}
}

func TestUpdate_SubmitWithoutBridgeIsNoop(t *testing.T) {
	m := New(nil, nil, "")
	m.handleResize(100, 40)
	m.ready = true
	m.input.SetValue("hello")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(Model)
	if got.busy || cmd != nil {
		t.Error("submit without bridge should be a no-op")
	}
}
