package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a role-tagged chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single generation call
type Request struct {
	Messages    []Message
	Tier        ModelTier
	Temperature float32
	TopP        float32 // 0 leaves the provider default
	MaxTokens   int     // 0 leaves the provider default
	Stream      bool
	JSON        bool // Ask the provider for a JSON response where supported
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent returns the complete response text for the request
	GenerateContent(ctx context.Context, req *Request) (string, error)
	// StreamContent delivers response chunks to onChunk in arrival order and
	// returns their concatenation once the stream ends
	StreamContent(ctx context.Context, req *Request, onChunk func(chunk string)) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderGroq, ProviderOpenAI:
		return NewChatCompletionsClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates the full response for the request
func (c *GeminiClient) GenerateContent(ctx context.Context, req *Request) (string, error) {
	ctx, cancel := withTimeout(ctx, c.config)
	defer cancel()

	session, last, err := c.startChat(req)
	if err != nil {
		return "", err
	}

	resp, err := session.SendMessage(ctx, last...)
	if err != nil {
		return "", &TransportError{Provider: ProviderGemini, Message: "failed to generate content", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &TransportError{Provider: ProviderGemini, Message: "malformed response", Cause: err}
	}
	if req.JSON {
		return CleanJSONBlock(text), nil
	}
	return text, nil
}

// StreamContent streams the response, calling onChunk for every text part received
func (c *GeminiClient) StreamContent(ctx context.Context, req *Request, onChunk func(chunk string)) (string, error) {
	ctx, cancel := withTimeout(ctx, c.config)
	defer cancel()

	session, last, err := c.startChat(req)
	if err != nil {
		return "", err
	}

	iter := session.SendMessageStream(ctx, last...)
	var full strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return full.String(), &TransportError{Provider: ProviderGemini, Message: "stream interrupted", Cause: err}
		}
		chunk, err := extractTextFromResponse(resp)
		if err != nil {
			// Safety or metadata-only frames carry no text
			continue
		}
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	return full.String(), nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// startChat configures a model for the request and loads all but the final message as history.
func (c *GeminiClient) startChat(req *Request) (*genai.ChatSession, []genai.Part, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return nil, nil, fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(req.Temperature)
	if req.TopP > 0 {
		model.SetTopP(req.TopP)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	system, contents := geminiContents(req.Messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(contents) == 0 {
		return nil, nil, fmt.Errorf("request has no user or assistant messages")
	}

	session := model.StartChat()
	session.History = contents[:len(contents)-1]
	return session, contents[len(contents)-1].Parts, nil
}

// geminiContents splits out system messages and maps the rest onto Gemini's
// user/model roles. Consecutive messages with the same role are merged and the
// conversation always opens with a user turn, both of which Gemini requires.
func geminiContents(messages []Message) (string, []*genai.Content) {
	var system []string
	var contents []*genai.Content

	for _, msg := range messages {
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			continue
		}
		if msg.Role == RoleSystem {
			system = append(system, text)
			continue
		}

		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}

		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.Text(text))
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(text)}})
	}

	if len(contents) > 0 && contents[0].Role != "user" {
		primer := &genai.Content{Role: "user", Parts: []genai.Part{genai.Text("Let's begin.")}}
		contents = append([]*genai.Content{primer}, contents...)
	}
	if n := len(contents); n > 0 && contents[n-1].Role != "user" {
		contents = append(contents, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text("Please continue.")}})
	}

	return strings.Join(system, "\n\n"), contents
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

func withTimeout(ctx context.Context, config *Config) (context.Context, context.CancelFunc) {
	if config == nil || config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, config.Timeout)
}
