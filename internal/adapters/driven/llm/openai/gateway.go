// Package openai provides a model gateway adapter using the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/fintab-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/fintab-cli/internal/core/domain"
	"github.com/custodia-labs/fintab-cli/internal/core/ports/driven"
)

// Ensure Gateway implements the interface.
var _ driven.ModelGateway = (*Gateway)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the OpenAI gateway.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o).
	Model string

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration

	// Limiter paces requests. Optional; nil means no pacing.
	Limiter *llm.RateLimiter
}

// Gateway submits extraction conversations to the OpenAI chat completions
// API. Requests run in JSON mode at temperature 0 so replies are
// machine-parseable and repeatable.
type Gateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *llm.RateLimiter
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
// Temperature deliberately has no omitempty: zero must go on the wire.
type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatCompletionMsg `json:"messages"`
	ResponseFormat responseFormat      `json:"response_format"`
	Temperature    float64             `json:"temperature"`
}

// responseFormat selects the provider's JSON mode.
type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new OpenAI gateway.
func New(cfg Config) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Gateway{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: cfg.Limiter,
	}, nil
}

// Extract submits the conversation and parses the model's JSON reply into a
// record. Transport failures and unparseable replies are both errors; the
// caller does not distinguish them.
func (g *Gateway) Extract(ctx context.Context, conv domain.Conversation) (domain.Record, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	content, err := g.chatCompletion(ctx, conv)
	if err != nil {
		return nil, err
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	return rec, nil
}

// chatCompletion runs one POST against /chat/completions.
func (g *Gateway) chatCompletion(ctx context.Context, conv domain.Conversation) (string, error) {
	turns := conv.Turns()
	messages := make([]chatCompletionMsg, len(turns))
	for i, turn := range turns {
		messages[i] = chatCompletionMsg{
			Role:    string(turn.Role),
			Content: turn.Content,
		}
	}

	reqBody := chatCompletionRequest{
		Model:          g.model,
		Messages:       messages,
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    0,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if g.limiter != nil {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			g.limiter.RecordRateLimitError(retryAfter)
		}
		return "", fmt.Errorf("openai: %w", domain.ErrRateLimited)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ModelName returns the identifier of the model being used.
func (g *Gateway) ModelName() string {
	return g.model
}
