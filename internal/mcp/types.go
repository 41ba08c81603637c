// Package mcp は PostgreSQL MCP サーバーとの JSON-RPC 2.0 over stdio 通信を提供する。
// サーバープロセスの起動・監視、リクエスト/レスポンスの ID 相関、
// 呼び出しごとの接続文字列解決を担当する。
package mcp

import "encoding/json"

// CallResult は MCP tools/call の実行結果
type CallResult struct {
	// Content はレスポンスのコンテンツブロック群
	Content []ContentBlock `json:"content"`
	// IsError はツール実行がエラーだったかどうか
	IsError bool `json:"isError,omitempty"`

	// Raw は result ペイロード全体。テキストブロックを含まない応答を
	// 表示する際のフォールバックに使う。
	Raw json.RawMessage `json:"-"`
}

// ContentBlock は MCP レスポンス内の単一コンテンツブロック
type ContentBlock struct {
	// Type はコンテンツの種類（"text", "image", "resource"）
	Type string `json:"type"`
	// Text はテキストコンテンツ（Type が "text" の場合）
	Text string `json:"text,omitempty"`
}

// Text は Content 内の type="text" ブロックを連結して返す。
// テキストブロックがひとつもない場合は空文字列。
func (r *CallResult) Text() string {
	var out string
	for _, b := range r.Content {
		if b.Type != "text" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += b.Text
	}
	return out
}
