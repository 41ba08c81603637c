package mcp

import (
	"fmt"
	"time"
)

// SpawnError は MCP サーバープロセスの起動失敗を表す。
// 実行ファイルが存在しない・権限がない等、このレイヤーではリトライしない致命エラー。
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("mcp: failed to spawn server %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TimeoutError は読み取りループがタイムアウト時間を超過したことを表す。
// プロセスは生かしたままにする（次回の呼び出し時に生存確認される）。
type TimeoutError struct {
	Tool    string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("mcp: no response for tool %s after %s", e.Tool, e.Elapsed.Round(time.Millisecond))
}

// StreamClosedError はマッチするレスポンスが届く前に stdout が EOF に達したことを表す。
// プロセスのクラッシュは呼び出し中にはこのエラーとしてのみ観測される。
type StreamClosedError struct {
	Tool string
}

func (e *StreamClosedError) Error() string {
	return fmt.Sprintf("mcp: server stream closed before response for tool %s", e.Tool)
}
