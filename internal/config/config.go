// Package config はアプリケーション設定の読み込みを提供する。
// 設定は .env ファイル（godotenv）→ 環境変数 → config.yaml の順に解決される。
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ServerConfig は MCP サーバープロセスの起動設定
type ServerConfig struct {
	// Command は起動するコマンド
	Command string `yaml:"command"`
	// Args はコマンドライン引数
	Args []string `yaml:"args"`
	// Env はサーバーに渡す環境変数（${VAR} はホスト環境から展開される）
	Env map[string]string `yaml:"env,omitempty"`
}

// ConnConfig は接続文字列テンプレートの固定部分
type ConnConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string // デフォルトのデータベース名
}

// AppConfig は config.yaml と環境変数の統合設定構造
type AppConfig struct {
	// Model は OpenAI のモデル名
	Model string `yaml:"model"`
	// CallTimeoutSeconds は MCP 呼び出しのタイムアウト（秒）
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
	// Server は MCP サーバーの起動設定
	Server ServerConfig `yaml:"server"`

	// 以下は環境変数からのみ解決される
	OpenAIAPIKey string     `yaml:"-"`
	Conn         ConnConfig `yaml:"-"`
}

// applyDefaults はゼロ値のフィールドにデフォルト値を適用する
func (c *AppConfig) applyDefaults() {
	if c.Model == "" {
		c.Model = getenvDefault("OPENAI_MODEL", "")
	}
	if c.CallTimeoutSeconds == 0 {
		c.CallTimeoutSeconds = 10
	}
	if c.Server.Command == "" {
		c.Server.Command = "node"
		c.Server.Args = []string{"build/index.js"}
	}
}

// loadEnv は環境変数から認証情報と接続設定を解決する
func (c *AppConfig) loadEnv() {
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.Conn = ConnConfig{
		User:     getenvDefault("PG_USER", "postgres"),
		Password: getenvDefault("PG_PASSWORD", "mysecretpassword"),
		Host:     getenvDefault("PG_HOST", "localhost"),
		Port:     getenvDefault("PG_PORT", "5432"),
		Database: getenvDefault("DB_NAME", "postgres"),
	}
}

// Load は .env と指定パスの config.yaml を読み込む。
// .env と config.yaml はどちらも存在しなくてよい（graceful skip）。
// server.env の値に含まれる ${VAR} はホスト環境変数から展開される。
func Load(path string) (*AppConfig, error) {
	// .env があればホスト環境へロードする（既存の環境変数は上書きしない）
	_ = godotenv.Load()

	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	expandEnvVars(cfg.Server.Env)
	cfg.loadEnv()
	cfg.applyDefaults()

	return cfg, nil
}

// ServerEnv は MCP サーバーへ渡す環境変数を "KEY=VALUE" 形式で返す
func (c *AppConfig) ServerEnv() []string {
	if len(c.Server.Env) == 0 {
		return nil
	}
	env := make([]string, 0, len(c.Server.Env))
	for k, v := range c.Server.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// expandEnvVars は map 内の値に含まれる ${VAR} をホスト環境変数で展開する
func expandEnvVars(env map[string]string) {
	for k, v := range env {
		env[k] = envVarPattern.ReplaceAllStringFunc(v, func(match string) string {
			varName := match[2 : len(match)-1]
			return os.Getenv(varName)
		})
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
