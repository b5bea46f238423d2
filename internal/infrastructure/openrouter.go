package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wavebot/internal/interfaces"
)

// OpenRouterClient talks to an OpenAI-compatible chat completions endpoint.
type OpenRouterClient struct {
	BaseURL string
	APIKey  string
	Referer string
	Title   string
	HTTP    *http.Client
}

func NewOpenRouterClient(baseURL, apiKey, referer string) *OpenRouterClient {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &OpenRouterClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Referer: referer,
		Title:   "RelationshipOS",
		HTTP:    &http.Client{Timeout: 90 * time.Second},
	}
}

type chatToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatCompletionRequest struct {
	Model       string                    `json:"model"`
	Messages    []interfaces.ChatMessage  `json:"messages"`
	Tools       []chatTool                `json:"tools,omitempty"`
	Temperature float64                   `json:"temperature,omitempty"`
	MaxTokens   int                       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *OpenRouterClient) Complete(ctx context.Context, req interfaces.CompletionRequest) (interfaces.CompletionResult, error) {
	body := chatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, t := range req.Tools {
		body.Tools = append(body.Tools, chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	b, err := json.Marshal(body)
	if err != nil {
		return interfaces.CompletionResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return interfaces.CompletionResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	// These headers help OpenRouter identify the app.
	if c.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.Referer)
	}
	if c.Title != "" {
		httpReq.Header.Set("X-Title", c.Title)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return interfaces.CompletionResult{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return interfaces.CompletionResult{}, err
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return interfaces.CompletionResult{}, fmt.Errorf("decode completion response (status %d): %w", resp.StatusCode, err)
	}

	if out.Error != nil {
		return interfaces.CompletionResult{}, fmt.Errorf("completion error (%s): %s", out.Error.Type, out.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return interfaces.CompletionResult{}, fmt.Errorf("completion request failed with status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return interfaces.CompletionResult{}, fmt.Errorf("no choice returned from the model")
	}

	msg := out.Choices[0].Message
	result := interfaces.CompletionResult{Content: msg.Content}
	if len(msg.ToolCalls) > 0 {
		result.ToolCall = &interfaces.ToolCall{
			Name:      msg.ToolCalls[0].Function.Name,
			Arguments: msg.ToolCalls[0].Function.Arguments,
		}
	}
	return result, nil
}
