package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vineetnegi0101/postgresql-mcp-server/internal/brain"
	"github.com/vineetnegi0101/postgresql-mcp-server/internal/bridge"
	"github.com/vineetnegi0101/postgresql-mcp-server/internal/config"
	"github.com/vineetnegi0101/postgresql-mcp-server/internal/mcp"
	"github.com/vineetnegi0101/postgresql-mcp-server/internal/tui"
)

// Version information (set at build time via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

var (
	flagModel   string
	flagConfig  string
	flagDebug   bool
	flagTimeout int
)

var rootCmd = &cobra.Command{
	Use:   "pgassist",
	Short: "Natural-language assistant for PostgreSQL over MCP",
	Long: `pgassist は自然言語の質問を PostgreSQL 操作へ変換するアシスタント。

質問を LLM に渡してデータベース操作関数を選択させ、
MCP サーバー（stdio 上の JSON-RPC）経由で PostgreSQL に対して実行する。

サブコマンドなしで起動するとチャット TUI が開く。
'pgassist ask' で 1 つの質問を非対話で実行できる。`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	RunE:    runTUI,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "OpenAI モデル名（デフォルト: OPENAI_MODEL または gpt-3.5-turbo）")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config/config.yaml", "設定ファイルのパス")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "MCP の送受信ペイロードをログに出力する")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "ツール呼び出しのタイムアウト秒数（0 = 設定ファイルの値）")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app は CLI コマンドが共有する組み立て済みコンポーネント。
type app struct {
	cfg     *config.AppConfig
	client  *mcp.Client
	bridge  *bridge.Bridge
	events  chan bridge.Event
	timeout time.Duration
}

// buildApp は設定・Brain・MCP クライアント・Bridge を組み立てる。
// withEvents が true の場合は TUI 用の進捗イベントチャネルを接続する。
func buildApp(withEvents bool) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagTimeout > 0 {
		cfg.CallTimeoutSeconds = flagTimeout
	}
	mcp.DebugLogging = flagDebug

	brainCfg, err := brain.LoadConfig(brain.ConfigHint{Model: cfg.Model})
	if err != nil {
		return nil, err
	}
	br, err := brain.New(brainCfg)
	if err != nil {
		return nil, err
	}

	client := mcp.NewClient(cfg.Server.Command, cfg.Server.Args, cfg.ServerEnv(), mcp.ConnSettings{
		User:      cfg.Conn.User,
		Password:  cfg.Conn.Password,
		Host:      cfg.Conn.Host,
		Port:      cfg.Conn.Port,
		DefaultDB: cfg.Conn.Database,
	})

	timeout := time.Duration(cfg.CallTimeoutSeconds) * time.Second

	var events chan bridge.Event
	if withEvents {
		events = make(chan bridge.Event, 64)
	}

	return &app{
		cfg:     cfg,
		client:  client,
		bridge:  bridge.New(br, client, timeout, events),
		events:  events,
		timeout: timeout,
	}, nil
}

// runTUI はチャットコンソールを起動する（ブロッキング）。
func runTUI(cmd *cobra.Command, args []string) error {
	a, err := buildApp(true)
	if err != nil {
		return err
	}
	defer a.client.Close()

	// TUI 表示を壊さないよう、ログはファイルか破棄先へ逃がす
	if flagDebug {
		f, err := os.OpenFile("/tmp/pgassist-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer f.Close()
			log.SetOutput(f)
		}
	} else {
		log.SetOutput(io.Discard)
	}

	m := tui.New(a.bridge, a.events, a.cfg.Model)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
