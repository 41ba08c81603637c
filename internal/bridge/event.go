package bridge

// EventType は Bridge から TUI へ送るイベントの種別。
type EventType string

const (
	// EventThinking は LLM に関数選択を依頼している間の進捗表示。
	EventThinking EventType = "thinking"
	// EventFunction は LLM が関数を選択したとき（実行前）。
	EventFunction EventType = "function"
	// EventResult はツール呼び出しが完了したとき。
	EventResult EventType = "result"
	// EventError は質問の処理がリカバリー不能に失敗したとき。
	EventError EventType = "error"
)

// Event は Bridge の処理経過を TUI へ送るメッセージ。
type Event struct {
	Type     EventType
	Message  string         // EventThinking / EventError 時に使用
	Function string         // EventFunction 時: 選択された関数名
	Args     map[string]any // EventFunction 時: 実行する引数（接続文字列注入前）
	Outcome  *Outcome       // EventResult 時に使用
}
