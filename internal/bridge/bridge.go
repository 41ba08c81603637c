// Package bridge は自然言語の質問を PostgreSQL 操作へ変換するオーケストレーター。
//
// 処理の流れ:
//
//	質問 → brain.SelectFunction → catalog.Resolve / BuildArgs
//	     → mcp.CallTool → テキスト抽出 → Outcome
//
// 経過は Event チャネル経由で TUI に通知する（ノンブロッキング送信）。
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/vineetnegi0101/postgresql-mcp-server/internal/brain"
	"github.com/vineetnegi0101/postgresql-mcp-server/internal/catalog"
	"github.com/vineetnegi0101/postgresql-mcp-server/internal/mcp"
)

// ToolCaller は MCP サーバーに対するツール呼び出し。*mcp.Client が実装する。
type ToolCaller interface {
	CallTool(ctx context.Context, tool string, args map[string]any, timeout time.Duration) (*mcp.CallResult, error)
}

// Outcome は 1 つの質問に対する処理結果。
type Outcome struct {
	Function string         // LLM が選択した論理関数名
	Tool     string         // 実際に呼び出したワイヤツール名（pg_*）
	Args     map[string]any // 実行した引数（静的引数マージ済み）
	Text     string         // サーバー応答から抽出したテキスト
	IsError  bool           // サーバーがエラーを報告した場合 true
}

// Bridge は Brain と MCP クライアントを接続する。
type Bridge struct {
	br      brain.Brain
	client  ToolCaller
	timeout time.Duration // 1 呼び出しあたりのタイムアウト
	events  chan<- Event  // nil 可（ask コマンド等、TUI なしの利用）
}

// New は Bridge を構築する。events は nil でもよい。
func New(br brain.Brain, client ToolCaller, timeout time.Duration, events chan<- Event) *Bridge {
	if timeout <= 0 {
		timeout = mcp.DefaultCallTimeout
	}
	return &Bridge{br: br, client: client, timeout: timeout, events: events}
}

// Answer は質問を処理して結果を返す。ctx のキャンセルで中断する。
func (b *Bridge) Answer(ctx context.Context, question string) (*Outcome, error) {
	b.emit(Event{Type: EventThinking, Message: "関数を選択中..."})

	sel, err := b.br.SelectFunction(ctx, question)
	if err != nil {
		err = fmt.Errorf("bridge: function selection failed: %w", err)
		b.emit(Event{Type: EventError, Message: err.Error()})
		return nil, err
	}

	binding, ok := catalog.Resolve(sel.Function)
	if !ok {
		err = fmt.Errorf("bridge: model selected unknown function %q", sel.Function)
		b.emit(Event{Type: EventError, Message: err.Error()})
		return nil, err
	}

	args := catalog.BuildArgs(sel.Function, sel.Args)
	log.Printf("[bridge] %s -> %s", sel.Function, binding.Tool)
	b.emit(Event{Type: EventFunction, Function: sel.Function, Args: args})

	result, err := b.client.CallTool(ctx, binding.Tool, args, b.timeout)
	if err != nil {
		err = fmt.Errorf("bridge: %s: %w", binding.Tool, err)
		b.emit(Event{Type: EventError, Message: err.Error()})
		return nil, err
	}

	out := &Outcome{
		Function: sel.Function,
		Tool:     binding.Tool,
		Args:     args,
		Text:     resultText(result),
		IsError:  result.IsError,
	}
	b.emit(Event{Type: EventResult, Outcome: out})
	return out, nil
}

// resultText は結果の表示テキストを抽出する。
// テキストブロックがない応答は result ペイロード全体を整形 JSON で表示する
// （ペイロードを黙って捨てない）。
func resultText(result *mcp.CallResult) string {
	if text := result.Text(); text != "" {
		return text
	}
	if len(result.Raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, result.Raw, "", "  "); err != nil {
		return string(result.Raw)
	}
	return buf.String()
}

// emit は Event を TUI に送る（ノンブロッキング、バッファが溢れたら捨てる）。
func (b *Bridge) emit(e Event) {
	if b.events == nil {
		return
	}
	select {
	case b.events <- e:
	default:
		// TUI が処理しきれない場合は捨てる（進捗表示のドロップは許容）
	}
}
