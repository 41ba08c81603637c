package tui

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// blockType は会話ログに表示するブロックの種別。
type blockType int

const (
	blockUser     blockType = iota // ユーザーの質問
	blockThinking                  // 関数選択〜実行中のスピナー
	blockFunction                  // 選択された関数と引数プレビュー
	blockResult                    // ツール実行結果（Markdown レンダリング）
	blockSystem                    // システムメッセージ（エラー含む）
)

// displayBlock は会話ログの 1 ブロック。
type displayBlock struct {
	typ blockType

	text string // blockUser / blockResult / blockSystem の本文

	// blockFunction 用
	function    string
	argsPreview string

	// blockResult 用
	isError bool

	// blockThinking 用
	done    bool
	elapsed time.Duration
}

// formatArgsPreview は引数マップを 1 行のプレビュー文字列に整形する。
// キーをソートして表示を安定させる。
func formatArgsPreview(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, err := json.Marshal(args[k])
		if err != nil {
			continue
		}
		parts = append(parts, k+"="+string(v))
	}
	return strings.Join(parts, ", ")
}
