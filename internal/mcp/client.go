package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCallTimeout は Call のデフォルトタイムアウト
const DefaultCallTimeout = 10 * time.Second

// DebugLogging を有効にすると送受信ペイロードをログに出力する
var DebugLogging bool

// JSON-RPC 2.0 メッセージ型

type jsonRPCRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Method  string         `json:"method"`
	Params  toolCallParams `json:"params"`
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *jsonRPCError) Error() string {
	return fmt.Sprintf("mcp: JSON-RPC error %d: %s", e.Code, e.Message)
}

// Client は MCP サーバーへの tools/call 呼び出しを直列化するファサード。
//
// ひとつの Client インスタンスがひとつのサブプロセスを排他的に所有し、
// 同時に in-flight にできるリクエストは常に1件のみ。ワイヤプロトコルには
// 並行リクエストを多重化する手段がないため、スループットよりも
// レスポンスの誤帰属防止を優先する。
type Client struct {
	command string
	args    []string
	env     []string
	conn    ConnSettings

	mu     sync.Mutex // 呼び出し全体（解決→起動確認→往復）の排他制御
	proc   *process
	nextID atomic.Int64 // プロセス再起動をまたいで単調増加する
	closed atomic.Bool
}

// NewClient はサーバーの起動コマンドと接続設定からクライアントを作成する。
// プロセスは最初の Call まで起動しない（遅延起動）。
func NewClient(command string, args []string, env []string, conn ConnSettings) *Client {
	if len(env) > 0 {
		env = append(os.Environ(), env...)
	}
	return &Client{
		command: command,
		args:    args,
		env:     env,
		conn:    conn,
	}
}

// newClientFromPipes はテスト用に io.Pipe ベースのクライアントを作成する
func newClientFromPipes(stdin io.WriteCloser, stdout io.ReadCloser, conn ConnSettings) *Client {
	return &Client{
		conn: conn,
		proc: newProcessFromPipes(stdin, stdout),
	}
}

// Call は MCP サーバーのツールを呼び出し、JSON-RPC の result ペイロードを返す。
//
// 呼び出しごとに接続文字列を解決して args["connectionString"] を上書きする
// （呼び出し元が指定した値はヒントとしてのみ使われ、実際の接続先には使わない）。
// timeout はリクエスト書き込み直後から計測し、超過時は *TimeoutError を返す。
// プロセスは生かしたまま放棄し、次の呼び出しの起動確認で生存検査される。
func (c *Client) Call(ctx context.Context, tool string, args map[string]any, timeout time.Duration) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, fmt.Errorf("mcp: client is closed")
	}
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	if args == nil {
		args = map[string]any{}
	}

	// 接続文字列は毎回作り直す（解決先データベースは呼び出しごとに変わりうる）
	args["connectionString"] = c.conn.Resolve(args)

	if err := c.ensureRunning(); err != nil {
		return nil, err
	}

	id := c.nextID.Add(1)
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  "tools/call",
		Params: toolCallParams{
			Name:      tool,
			Arguments: args,
		},
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("mcp: failed to marshal request: %w", err)
	}
	data = append(data, '\n')

	if DebugLogging {
		log.Printf("[mcp] send: %s", data[:len(data)-1])
	}

	if _, err := c.proc.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("mcp: failed to write request: %w", err)
	}

	return c.awaitResponse(ctx, tool, id, timeout)
}

// CallTool は Call の結果を CallResult としてパースして返す
func (c *Client) CallTool(ctx context.Context, tool string, args map[string]any, timeout time.Duration) (*CallResult, error) {
	raw, err := c.Call(ctx, tool, args, timeout)
	if err != nil {
		return nil, err
	}

	var result CallResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("mcp: failed to parse tools/call response: %w", err)
	}
	result.Raw = raw
	return &result, nil
}

// awaitResponse は ID が一致するレスポンス行が届くまで読み取りチャネルを待つ。
//
// JSON としてパースできない行（サーバーのバナー出力等）と ID が一致しない行
// （放棄された過去の呼び出しへの遅延レスポンス）は黙って読み捨てる。
// in-flight リクエストは常に1件のみなので、不一致行を後のマッチング用に
// バッファする必要はない。読み捨て行数に上限は設けない — タイムアウトが
// 壁時計時間での唯一の上限になる。
func (c *Client) awaitResponse(ctx context.Context, tool string, id int64, timeout time.Duration) (json.RawMessage, error) {
	start := time.Now()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer.C:
			return nil, &TimeoutError{Tool: tool, Elapsed: time.Since(start)}

		case line, ok := <-c.proc.lines:
			if !ok {
				// マッチ前に stdout が EOF に達した。タイムアウトとは区別して報告する。
				return nil, &StreamClosedError{Tool: tool}
			}

			if DebugLogging {
				log.Printf("[mcp] recv: %s", line)
			}

			// 非 JSON 行をスキップ
			if len(line) == 0 || line[0] != '{' {
				continue
			}
			var resp jsonRPCResponse
			if err := json.Unmarshal(line, &resp); err != nil {
				continue
			}
			if resp.ID != id {
				continue
			}

			if resp.Error != nil {
				return nil, resp.Error
			}
			return resp.Result, nil
		}
	}
}

// ensureRunning は呼び出し前に生きたプロセスの存在を保証する。
// ハンドルがない、または前回のハンドルの終了が観測されている場合のみ起動する
// （冪等: 生きたプロセスがあれば何もしない）。起動自体の失敗は *SpawnError
// として呼び出し元へ伝播し、このレイヤーではリトライしない。
func (c *Client) ensureRunning() error {
	if c.proc != nil && c.proc.alive() {
		return nil
	}

	if c.proc != nil {
		// 死んだハンドルの後始末。エラーは握りつぶす。
		c.proc.shutdown()
	}

	proc, err := spawnProcess(c.command, c.args, c.env)
	if err != nil {
		return err
	}
	c.proc = proc
	return nil
}

// Close はクライアントを閉じ、サブプロセスを終了させる。
// 多重呼び出しは安全で、2回目以降は何もしない。
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.proc != nil {
		c.proc.shutdown()
	}
	return nil
}
