package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenAIBaseURL   = "https://api.openai.com"
	openAIChatCompletePath = "/v1/chat/completions"

	defaultModel = "gpt-3.5-turbo"
)

// systemPrompt はモデルに必ず関数呼び出しで応答させるための指示。
// プレーンテキスト応答は後段のブリッジで処理できないため禁止する。
const systemPrompt = "You are a PostgreSQL database assistant. " +
	"You MUST ALWAYS use a function/tool call for every user request. " +
	"Never answer with plain text. If you cannot answer with a function/tool call, return an error. " +
	"If the user asks for a database query, listing, or modification, " +
	"ALWAYS use the most appropriate function/tool. " +
	"If you do not use a function/tool call, you are not following instructions."

type openAIBrain struct {
	cfg    Config
	client *http.Client
}

func newOpenAIBrain(cfg Config) (*openAIBrain, error) {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &openAIBrain{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (b *openAIBrain) SelectFunction(ctx context.Context, question string) (*Selection, error) {
	body := map[string]any{
		"model": b.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": question},
		},
		"functions":     b.cfg.Functions,
		"function_call": "auto",
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("brain: marshal request: %w", err)
	}

	baseURL := b.cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	// BaseURL が既に /v1 で終わっている場合は /chat/completions のみ付加
	base := strings.TrimRight(baseURL, "/")
	var url string
	if strings.HasSuffix(base, "/v1") {
		url = base + "/chat/completions"
	} else {
		url = base + openAIChatCompletePath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("brain: create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.cfg.Token)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brain: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("brain: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brain: API error %d: %s", resp.StatusCode, string(respBytes))
	}

	return parseFunctionCall(respBytes)
}

// openAIResponse は Chat Completions API のレスポンス構造体（必要最小限）
type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content      string `json:"content"`
			FunctionCall *struct {
				Name      string `json:"name"`
				Arguments string `json:"arguments"`
			} `json:"function_call"`
		} `json:"message"`
	} `json:"choices"`
}

func parseFunctionCall(data []byte) (*Selection, error) {
	var resp openAIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("brain: unmarshal response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("brain: empty choices in response")
	}

	fc := resp.Choices[0].Message.FunctionCall
	if fc == nil || fc.Name == "" {
		// システムプロンプトで禁止しているが、モデルがテキストで答えてしまうことはある
		return nil, fmt.Errorf("brain: model did not select a function call")
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(fc.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return nil, fmt.Errorf("brain: parse function arguments: %w", err)
		}
	}

	return &Selection{Function: fc.Name, Args: args}, nil
}
