package brain_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vineetnegi0101/postgresql-mcp-server/internal/brain"
	"github.com/vineetnegi0101/postgresql-mcp-server/internal/catalog"
)

// mockOpenAIServer は OpenAI Chat Completions API の最低限のモックを提供する。
// 受信したリクエストボディは lastBody に保存される。
func mockOpenAIServer(t *testing.T, responseJSON string, lastBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			http.Error(w, "missing auth", http.StatusUnauthorized)
			return
		}
		if lastBody != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			*lastBody = body
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(responseJSON)) //nolint:errcheck -- テスト専用 httptest サーバー
	}))
}

// functionCallResponse は function_call 付きの Chat Completions レスポンスを組み立てる
func functionCallResponse(name, argsJSON string) string {
	escaped, _ := json.Marshal(argsJSON)
	return `{
		"id": "chatcmpl-test",
		"object": "chat.completion",
		"choices": [{
			"index": 0,
			"message": {
				"role": "assistant",
				"content": null,
				"function_call": {"name": "` + name + `", "arguments": ` + string(escaped) + `}
			},
			"finish_reason": "function_call"
		}]
	}`
}

func newTestBrain(t *testing.T, baseURL string) brain.Brain {
	t.Helper()
	b, err := brain.New(brain.Config{
		Model:     "gpt-3.5-turbo",
		Token:     "sk-test",
		BaseURL:   baseURL,
		Functions: catalog.Schemas(),
	})
	if err != nil {
		t.Fatalf("brain.New failed: %v", err)
	}
	return b
}

func TestOpenAIBrain_SelectFunction(t *testing.T) {
	var lastBody map[string]any
	srv := mockOpenAIServer(t, functionCallResponse("manage_users", `{"operation":"list"}`), &lastBody)
	defer srv.Close()

	b := newTestBrain(t, srv.URL)

	sel, err := b.SelectFunction(context.Background(), "list all database users")
	if err != nil {
		t.Fatalf("SelectFunction failed: %v", err)
	}
	if sel.Function != "manage_users" {
		t.Errorf("function = %q, want manage_users", sel.Function)
	}
	if sel.Args["operation"] != "list" {
		t.Errorf("args = %v, want operation=list", sel.Args)
	}

	// リクエストに関数スキーマとシステムプロンプトが含まれること
	if lastBody["function_call"] != "auto" {
		t.Errorf("function_call = %v, want auto", lastBody["function_call"])
	}
	funcs, ok := lastBody["functions"].([]any)
	if !ok || len(funcs) != len(catalog.Schemas()) {
		t.Errorf("expected %d function schemas in request, got %v", len(catalog.Schemas()), lastBody["functions"])
	}
	msgs, _ := lastBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	sys, _ := msgs[0].(map[string]any)
	if sys["role"] != "system" || !strings.Contains(sys["content"].(string), "PostgreSQL database assistant") {
		t.Errorf("unexpected system message: %v", sys)
	}
}

func TestOpenAIBrain_SelectFunction_EmptyArguments(t *testing.T) {
	srv := mockOpenAIServer(t, functionCallResponse("monitor_database", ""), nil)
	defer srv.Close()

	b := newTestBrain(t, srv.URL)

	sel, err := b.SelectFunction(context.Background(), "how is the database doing")
	if err != nil {
		t.Fatalf("SelectFunction failed: %v", err)
	}
	if sel.Function != "monitor_database" {
		t.Errorf("function = %q", sel.Function)
	}
	if len(sel.Args) != 0 {
		t.Errorf("expected empty args, got %v", sel.Args)
	}
}

// モデルが関数を選択せずテキストで答えた場合はエラー
func TestOpenAIBrain_SelectFunction_NoFunctionCall(t *testing.T) {
	srv := mockOpenAIServer(t, `{
		"choices": [{
			"message": {"role": "assistant", "content": "Sure, here are your users..."},
			"finish_reason": "stop"
		}]
	}`, nil)
	defer srv.Close()

	b := newTestBrain(t, srv.URL)

	_, err := b.SelectFunction(context.Background(), "list users")
	if err == nil {
		t.Fatal("expected error when model answers with plain text")
	}
	if !strings.Contains(err.Error(), "did not select a function") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOpenAIBrain_SelectFunction_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b := newTestBrain(t, srv.URL)

	_, err := b.SelectFunction(context.Background(), "list users")
	if err == nil {
		t.Fatal("expected error on API failure")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

// BaseURL が /v1 で終わる場合もパスが二重にならないこと
func TestOpenAIBrain_BaseURLWithV1Suffix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(functionCallResponse("execute_query", `{"operation":"select","query":"SELECT 1"}`))) //nolint:errcheck
	}))
	defer srv.Close()

	b := newTestBrain(t, srv.URL+"/v1")

	if _, err := b.SelectFunction(context.Background(), "run select 1"); err != nil {
		t.Fatalf("SelectFunction failed: %v", err)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("request path = %q, want /v1/chat/completions", gotPath)
	}
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := brain.New(brain.Config{Model: "gpt-3.5-turbo"})
	if err == nil {
		t.Fatal("expected error for empty token")
	}
}
