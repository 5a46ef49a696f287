package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// Message is a single chat message sent to the completion API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single-shot chat completion request.
type Request struct {
	Messages    []Message
	Temperature float64
}

// Client is a hosted chat-completion API. Implementations make exactly one
// outbound call per Complete invocation; nothing is retried.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ProviderType selects the completion backend.
type ProviderType string

const (
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderGemini     ProviderType = "gemini"
)

const (
	openRouterAPI  = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel   = "openai/gpt-4o-mini"
	requestTimeout = 120 * time.Second
)

// NewClientFromEnv creates a completion client from environment variables.
// LLM_PROVIDER selects the backend (default "openrouter"), LLM_MODEL the
// model identifier.
func NewClientFromEnv() (Client, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = string(ProviderOpenRouter)
	}

	model := os.Getenv("LLM_MODEL")

	switch ProviderType(provider) {
	case ProviderOpenRouter:
		apiKey := os.Getenv("OPENROUTER_API_KEY")
		if apiKey == "" {
			log.Println("Warning: OPENROUTER_API_KEY not set")
		}
		if model == "" {
			model = defaultModel
		}
		return NewOpenRouterClient(apiKey, model), nil

	case ProviderGemini:
		return NewGeminiClient(context.Background(), os.Getenv("GEMINI_API_KEY"), model)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}

// OpenRouterClient calls an OpenAI-compatible chat-completions endpoint
// directly over HTTP.
type OpenRouterClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewOpenRouterClient creates a client for the OpenRouter completions API.
func NewOpenRouterClient(apiKey, model string) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:     apiKey,
		model:      model,
		endpoint:   openRouterAPI,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Complete submits the messages and returns the first choice's content,
// trimmed of surrounding whitespace.
func (c *OpenRouterClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OPENROUTER_API_KEY not set")
	}

	reqBody := map[string]interface{}{
		"model":       c.model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("Completion API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason,omitempty"`
		} `json:"choices"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		log.Printf("Failed to decode completion response. Body: %s", string(bodyBytes))
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}

	if len(apiResp.Choices) == 0 {
		log.Printf("Completion API returned no choices. Full response: %s", string(bodyBytes))
		return "", errors.New("API returned no choices")
	}

	content := strings.TrimSpace(apiResp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("API returned empty content")
	}

	return content, nil
}
