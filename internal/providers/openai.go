// Package providers implements the LLM backends.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/neocortex/neocortex/internal/schema"
)

// APIError is a failed call to the model backend. It is a soft per-turn
// error: the turn ends, nothing is appended to the transcript.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// IsAPIError reports whether err is (or wraps) an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// OpenAIProvider makes direct HTTP calls to any OpenAI-compatible
// chat-completions endpoint.
type OpenAIProvider struct {
	apiKey       string
	apiBase      string
	defaultModel string
	httpClient   *http.Client
}

// NewOpenAIProvider constructs a provider. apiBase defaults to the OpenAI
// endpoint when empty.
func NewOpenAIProvider(apiKey, apiBase, defaultModel string) *OpenAIProvider {
	if apiBase == "" {
		apiBase = "https://api.openai.com/v1"
	}
	return &OpenAIProvider{
		apiKey:       apiKey,
		apiBase:      strings.TrimRight(apiBase, "/"),
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider.
func (p *OpenAIProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}

	body := map[string]any{
		"model":       model,
		"messages":    messages.Messages,
		"max_tokens":  maxTokens,
		"temperature": opts.Temperature,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return schema.LLMResponse{}, &APIError{
			StatusCode: resp.StatusCode,
			Message:    friendlyHTTPError(resp.StatusCode, raw),
		}
	}

	return parseResponse(raw)
}

// parseResponse extracts the first choice from an OpenAI-format response.
func parseResponse(raw []byte) (schema.LLMResponse, error) {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return schema.LLMResponse{}, fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("response contains no choices")
	}

	choice := parsed.Choices[0]
	return schema.LLMResponse{
		Content:      strings.TrimSpace(choice.Message.Content),
		FinishReason: choice.FinishReason,
		Usage: map[string]int{
			"input_tokens":  parsed.Usage.PromptTokens,
			"output_tokens": parsed.Usage.CompletionTokens,
		},
	}, nil
}

// friendlyHTTPError turns common status codes into actionable messages,
// falling back to the server's own error body.
func friendlyHTTPError(status int, raw []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	detail := ""
	if json.Unmarshal(raw, &parsed) == nil {
		detail = parsed.Error.Message
	}
	if detail == "" {
		detail = string(bytes.TrimSpace(raw))
	}

	switch status {
	case http.StatusUnauthorized:
		return "invalid API key — check your keys file (" + detail + ")"
	case http.StatusTooManyRequests:
		return "rate limited or out of quota (" + detail + ")"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return "the model backend is having trouble, try again later (" + detail + ")"
	default:
		return detail
	}
}
