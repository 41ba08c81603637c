package mcp

import (
	"bufio"
	"io"
	"log"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

const (
	// gracefulShutdownTimeout は SIGTERM 後に SIGKILL まで待つ猶予時間
	gracefulShutdownTimeout = 5 * time.Second

	// maxLineSize はレスポンス1行の最大サイズ。大きなクエリ結果にも対応する。
	maxLineSize = 4 * 1024 * 1024

	// lineBufferSize は stdout 読み取りチャネルのバッファ長。
	// タイムアウトで放棄された呼び出しの残留行はここに溜まり、
	// 次の呼び出しが ID 不一致として読み捨てる。
	lineBufferSize = 256
)

// process は MCP サーバーのサブプロセスハンドル。
// stdin（書き込み専用）・stdout（読み取り専用）と生存状態をラップし、
// 所有権は Client が排他的に持つ。
type process struct {
	cmd    *exec.Cmd // パイプ注入モード（テスト）時は nil
	stdin  io.WriteCloser
	stdout io.ReadCloser

	// lines は stdout の行を配送するチャネル。EOF で close される。
	lines chan []byte
	// done はプロセス終了時に close される
	done chan struct{}
	// quit は shutdown 時に close され、ブロック中の読み取りゴルーチンを解放する
	quit chan struct{}

	// eof は stdout の EOF を観測した時点で true になる。
	// done（cmd.Wait の完了）より先に立つため、ストリーム切断を
	// プロセス死として即座に扱える。
	eof atomic.Bool

	shutdownOnce sync.Once
}

// spawnProcess は MCP サーバーをサブプロセスとして起動する。
// stdin/stdout はパイプ接続し、stderr は診断用に別系統でログへ中継する
// （stdout に混ぜるとレスポンスのフレーミングが壊れるため）。
func spawnProcess(command string, args []string, env []string) (*process, error) {
	cmd := exec.Command(command, args...) // nosemgrep: go.lang.security.audit.dangerous-exec-command.dangerous-exec-command -- command は設定ファイルから読み込まれる（ユーザー入力ではない）
	if len(env) > 0 {
		cmd.Env = env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &SpawnError{Command: command, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		return nil, &SpawnError{Command: command, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdin.Close()
		return nil, &SpawnError{Command: command, Err: err}
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, &SpawnError{Command: command, Err: err}
	}

	p := &process{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		lines:  make(chan []byte, lineBufferSize),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}

	go p.readLines()
	go relayStderr(stderr)

	// プロセス終了の監視。Wait は終了コードの回収も兼ねる。
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

// newProcessFromPipes はテスト用に io.Pipe ベースのハンドルを作成する。
// サブプロセスがないため、done は stdout の EOF で close される。
func newProcessFromPipes(stdin io.WriteCloser, stdout io.ReadCloser) *process {
	p := &process{
		stdin:  stdin,
		stdout: stdout,
		lines:  make(chan []byte, lineBufferSize),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
	go func() {
		p.readLines()
		close(p.done)
	}()
	return p
}

// readLines は stdout を1行ずつ読み、lines チャネルへ配送する。
// 読み取りゴルーチンはハンドルごとに1本のみで、同一呼び出しの読み取りが
// 重複することはない。EOF または読み取りエラーで eof を立ててから lines を
// close する（close を観測した側が alive() で即座に死を検知できる順序）。
// バッファ満杯で送信がブロックしている間に shutdown された場合は quit で抜ける。
func (p *process) readLines() {
	defer func() {
		p.eof.Store(true)
		close(p.lines)
	}()
	scanner := bufio.NewScanner(p.stdout)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		// Scanner は内部バッファを使い回すためコピーを渡す
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		select {
		case p.lines <- line:
		case <-p.quit:
			return
		}
	}
}

// relayStderr はサーバーの診断出力をログへ中継する。内容は解析しない。
func relayStderr(stderr io.ReadCloser) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		log.Printf("[mcp] server: %s", scanner.Text())
	}
}

// alive はプロセスがまだ呼び出しに使えるかどうかを返す。
// stdout の EOF はプロセス本体の終了（cmd.Wait の完了 = done の close）より
// 先に観測されるため、eof も死として扱う。そうしないとクラッシュ直後の
// 次の呼び出しが死んだハンドルを再利用してしまう。
func (p *process) alive() bool {
	if p.eof.Load() {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// shutdown はプロセスを確実に停止させる。
// stdin close（サーバーへの読み取り停止シグナル）→ SIGTERM → 猶予時間待機 →
// SIGKILL の順に実行し、途中のエラーはすべて握りつぶす。
// shutdown が呼び出し元を失敗させることはない。
func (p *process) shutdown() {
	p.shutdownOnce.Do(func() {
		close(p.quit)
		_ = p.stdin.Close()

		if p.cmd == nil || p.cmd.Process == nil {
			// パイプ注入モード: stdout を閉じて読み取りゴルーチンを解放する
			_ = p.stdout.Close()
			return
		}

		_ = p.cmd.Process.Signal(syscall.SIGTERM)

		select {
		case <-p.done:
			// 猶予時間内に終了した
		case <-time.After(gracefulShutdownTimeout):
			_ = p.cmd.Process.Kill()
			<-p.done
		}
	})
}
