package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ChatCompletionsClient implements Client for OpenAI-compatible chat completions
// endpoints (Groq by default).
type ChatCompletionsClient struct {
	apiKey  string
	baseURL string
	config  *Config
	http    *http.Client
}

// NewChatCompletionsClient creates a client for an OpenAI-compatible provider
func NewChatCompletionsClient(config *Config, apiKey string) (*ChatCompletionsClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGroqConfig()
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}

	return &ChatCompletionsClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		config:  config,
		http:    &http.Client{Timeout: config.Timeout},
	}, nil
}

type chatRequest struct {
	Model       string          `json:"model"`
	Messages    []Message       `json:"messages"`
	Temperature float32         `json:"temperature"`
	TopP        float32         `json:"top_p,omitempty"`
	MaxTokens   int             `json:"max_completion_tokens,omitempty"`
	Stream      bool            `json:"stream"`
	Format      *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateContent sends a non-streaming chat completion request
func (c *ChatCompletionsClient) GenerateContent(ctx context.Context, req *Request) (string, error) {
	body, err := c.do(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", c.transportError("failed to read response", 0, err)
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", c.transportError("failed to decode response", 0, err)
	}
	if resp.Error != nil {
		return "", c.transportError(resp.Error.Message, 0, nil)
	}
	if len(resp.Choices) == 0 {
		return "", c.transportError("no choices in response", 0, nil)
	}

	return resp.Choices[0].Message.Content, nil
}

// StreamContent sends a streaming request and parses the server-sent event frames
func (c *ChatCompletionsClient) StreamContent(ctx context.Context, req *Request, onChunk func(chunk string)) (string, error) {
	body, err := c.do(ctx, req, true)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}

		var frame chatResponse
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			return full.String(), c.transportError("malformed stream frame", 0, err)
		}
		if frame.Error != nil {
			return full.String(), c.transportError(frame.Error.Message, 0, nil)
		}

		for _, choice := range frame.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			full.WriteString(choice.Delta.Content)
			if onChunk != nil {
				onChunk(choice.Delta.Content)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return full.String(), c.transportError("stream interrupted", 0, err)
	}
	return full.String(), nil
}

// GetModel returns the model name for a tier
func (c *ChatCompletionsClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases idle connections
func (c *ChatCompletionsClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *ChatCompletionsClient) do(ctx context.Context, req *Request, stream bool) (io.ReadCloser, error) {
	model := c.config.GetModel(req.Tier)
	if model == "" {
		return nil, fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	payload := chatRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
	if req.JSON {
		payload.Format = &responseFormat{Type: "json_object"}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.transportError("request failed", 0, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, c.transportError(strings.TrimSpace(string(raw)), resp.StatusCode, nil)
	}

	return resp.Body, nil
}

func (c *ChatCompletionsClient) transportError(message string, status int, cause error) *TransportError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &TransportError{Provider: c.config.Provider, Message: message, StatusCode: status, Cause: cause}
}
