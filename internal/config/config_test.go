package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Command != "node" {
		t.Errorf("Server.Command = %q, want node", cfg.Server.Command)
	}
	if len(cfg.Server.Args) != 1 || cfg.Server.Args[0] != "build/index.js" {
		t.Errorf("Server.Args = %v, want [build/index.js]", cfg.Server.Args)
	}
	if cfg.CallTimeoutSeconds != 10 {
		t.Errorf("CallTimeoutSeconds = %d, want 10", cfg.CallTimeoutSeconds)
	}
}

func TestLoad_EnvDefaults(t *testing.T) {
	for _, key := range []string{"PG_USER", "PG_PASSWORD", "PG_HOST", "PG_PORT", "DB_NAME"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := ConnConfig{
		User:     "postgres",
		Password: "mysecretpassword",
		Host:     "localhost",
		Port:     "5432",
		Database: "postgres",
	}
	if cfg.Conn != want {
		t.Errorf("Conn = %+v, want %+v", cfg.Conn, want)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PG_USER", "admin")
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("DB_NAME", "analytics")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Conn.User != "admin" || cfg.Conn.Host != "db.internal" || cfg.Conn.Database != "analytics" {
		t.Errorf("env overrides not applied: %+v", cfg.Conn)
	}
	if cfg.OpenAIAPIKey != "sk-from-env" {
		t.Errorf("OpenAIAPIKey = %q", cfg.OpenAIAPIKey)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("PG_SERVER_TOKEN", "secret-token")

	path := writeConfigFile(t, `
model: gpt-4o
call_timeout_seconds: 30
server:
  command: npx
  args: ["-y", "@example/postgres-mcp"]
  env:
    MCP_TOKEN: ${PG_SERVER_TOKEN}
    MCP_LOG: quiet
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.CallTimeoutSeconds != 30 {
		t.Errorf("CallTimeoutSeconds = %d", cfg.CallTimeoutSeconds)
	}
	if cfg.Server.Command != "npx" || len(cfg.Server.Args) != 2 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	// ${VAR} が展開されていること
	if cfg.Server.Env["MCP_TOKEN"] != "secret-token" {
		t.Errorf("Server.Env[MCP_TOKEN] = %q, want secret-token", cfg.Server.Env["MCP_TOKEN"])
	}

	env := cfg.ServerEnv()
	if len(env) != 2 {
		t.Errorf("ServerEnv() = %v, want 2 entries", env)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [broken")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestServerEnv_EmptyReturnsNil(t *testing.T) {
	cfg := &AppConfig{}
	if env := cfg.ServerEnv(); env != nil {
		t.Errorf("ServerEnv() = %v, want nil", env)
	}
}
