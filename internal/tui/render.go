package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

// argsPreviewWidth は関数ブロックに表示する引数プレビューの最大表示幅。
const argsPreviewWidth = 80

// renderUserBlock はユーザーの質問をハイライト背景でレンダリングする。
// Format: > text
func renderUserBlock(b *displayBlock) string {
	return userBlockStyle.Render("> "+b.text) + "\n"
}

// renderThinkingBlock は処理中スピナー/完了表示をレンダリングする。
// 処理中: <spinnerFrame> Thinking...
// 完了:   ✻ Completed in Xs
func renderThinkingBlock(b *displayBlock, spinnerFrame string) string {
	if b.done {
		return thinkingStyle.Render(fmt.Sprintf("✻ Completed in %s", formatDuration(b.elapsed))) + "\n"
	}
	return thinkingStyle.Render(spinnerFrame+" Thinking...") + "\n"
}

// renderFunctionBlock は選択された関数と引数プレビューをレンダリングする。
// Format:
//
//	● manage_users
//	  ⎿  operation="create", username="alice"
func renderFunctionBlock(b *displayBlock) string {
	var sb strings.Builder
	sb.WriteString(functionStyle.Render("● " + b.function))
	sb.WriteString("\n")
	if b.argsPreview != "" {
		preview := runewidth.Truncate(b.argsPreview, argsPreviewWidth, "…")
		sb.WriteString(argsStyle.Render("  ⎿  " + preview))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderResultBlock はツール実行結果をレンダリングする。
// サーバーがエラーを報告した場合は赤色プレーン表示、
// 正常結果は glamour で Markdown をターミナル用にレンダリングする。
func renderResultBlock(b *displayBlock, width int) string {
	if b.text == "" {
		return systemStyle.Render("(結果なし)") + "\n"
	}
	if b.isError {
		return errorStyle.Render("⚠ "+b.text) + "\n"
	}

	rendered, err := renderMarkdown(b.text, width)
	if err != nil {
		// フォールバック: プレーンテキスト
		return b.text + "\n"
	}
	return rendered
}

// renderMarkdown は glamour を使って Markdown をターミナル用にレンダリングする。
// ダークスタイルを明示指定（WithAutoStyle は非 TTY 環境で plain に落ちるため使わない）。
// glamour の dark スタイルは左右マージンを追加するため、width を縮小して渡す。
func renderMarkdown(text string, width int) (string, error) {
	wrapWidth := width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

// renderSystemBlock はシステムメッセージ/エラーをレンダリングする。
func renderSystemBlock(b *displayBlock) string {
	if b.isError {
		return errorStyle.Render("⚠ "+b.text) + "\n"
	}
	return systemStyle.Render(b.text) + "\n"
}

// formatDuration は表示用の時間フォーマットを返す (例: "12s", "1m23s")。
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	min := int(d.Minutes())
	sec := int(d.Seconds()) - min*60
	return fmt.Sprintf("%dm%ds", min, sec)
}

// renderBlocks は全ブロックをビューポート用コンテンツにレンダリングする。
// spinnerFrame はアクティブな thinking ブロックに表示するスピナーの現在フレーム。
func renderBlocks(blocks []*displayBlock, width int, spinnerFrame string) string {
	var sb strings.Builder
	for _, b := range blocks {
		switch b.typ {
		case blockUser:
			sb.WriteString(renderUserBlock(b))
		case blockThinking:
			sb.WriteString(renderThinkingBlock(b, spinnerFrame))
		case blockFunction:
			sb.WriteString(renderFunctionBlock(b))
		case blockResult:
			sb.WriteString(renderResultBlock(b, width))
		case blockSystem:
			sb.WriteString(renderSystemBlock(b))
		}
	}
	return sb.String()
}
