// Package brain は LLM による関数選択ステップを抽象化する。
// ユーザーの自然言語の質問をカタログの関数スキーマとともに LLM へ渡し、
// 呼び出すべき関数名と引数オブジェクトを得る。
package brain

import (
	"context"
	"errors"
	"os"

	"github.com/vineetnegi0101/postgresql-mcp-server/internal/catalog"
)

// Selection は LLM が選択した関数呼び出し
type Selection struct {
	// Function はカタログ上の論理関数名（例: manage_users）
	Function string
	// Args は LLM が生成した引数オブジェクト
	Args map[string]any
}

// Brain は LLM との対話インターフェース
type Brain interface {
	// SelectFunction は質問を LLM に渡し、実行すべき関数呼び出しを返す。
	// LLM が関数を選択しなかった場合はエラーを返す（プレーンテキスト応答は許可しない）。
	SelectFunction(ctx context.Context, question string) (*Selection, error)
}

// Config は Brain の設定を保持する
type Config struct {
	Model     string
	Token     string
	BaseURL   string // テスト時にモックサーバーを指定するために使う（空なら公式エンドポイント）
	Functions []catalog.FunctionSchema
}

// ConfigHint は LoadConfig へのヒント（モデル・ベース URL）を保持する。
// 認証情報は環境変数から自動解決する。
type ConfigHint struct {
	Model   string
	BaseURL string
}

// LoadConfig は環境変数から認証情報を解決して Config を返す
func LoadConfig(hint ConfigHint) (Config, error) {
	cfg := Config{
		Model:     hint.Model,
		BaseURL:   hint.BaseURL,
		Functions: catalog.Schemas(),
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Token = key
		return cfg, nil
	}
	return cfg, errors.New("brain: OPENAI_API_KEY is not set\n  export OPENAI_API_KEY=sk-...")
}

// New は Config に基づいて Brain 実装を返す
func New(cfg Config) (Brain, error) {
	if cfg.Token == "" {
		return nil, errors.New("brain: token must not be empty (set OPENAI_API_KEY)")
	}
	return newOpenAIBrain(cfg)
}
