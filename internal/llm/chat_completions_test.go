package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatClient(t *testing.T, handler http.HandlerFunc) *ChatCompletionsClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultGroqConfig()
	config.BaseURL = server.URL
	client, err := NewChatCompletionsClient(config, "test-key")
	require.NoError(t, err)
	return client
}

func TestNewChatCompletionsClient_RequiresKey(t *testing.T) {
	_, err := NewChatCompletionsClient(DefaultGroqConfig(), "")
	assert.Error(t, err)
}

func TestChatCompletions_GenerateContent(t *testing.T) {
	var captured chatRequest
	client := newTestChatClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"COMPLETE"}}]}`)
	})

	text, err := client.GenerateContent(context.Background(), &Request{
		Messages:    []Message{{Role: RoleUser, Content: "enough?"}},
		Tier:        TierLite,
		Temperature: 0.3,
		MaxTokens:   10,
		JSON:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", text)

	assert.Equal(t, "llama-3.1-8b-instant", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, 10, captured.MaxTokens)
	require.NotNil(t, captured.Format)
	assert.Equal(t, "json_object", captured.Format.Type)
}

func TestChatCompletions_StreamContent(t *testing.T) {
	client := newTestChatClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"<think>hm</think>"}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"Where did "}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"you study?"}}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var chunks []string
	full, err := client.StreamContent(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Tier:     TierStandard,
		Stream:   true,
	}, func(chunk string) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"<think>hm</think>", "Where did ", "you study?"}, chunks)
	assert.Equal(t, "<think>hm</think>Where did you study?", full)
}

func TestChatCompletions_HTTPErrorIsTransportError(t *testing.T) {
	client := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"slow down"}}`)
	})

	_, err := client.StreamContent(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}, nil)
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusTooManyRequests, transportErr.StatusCode)
	assert.True(t, transportErr.RateLimited())
	assert.Contains(t, transportErr.Error(), "slow down")
}

func TestChatCompletions_MalformedFrame(t *testing.T) {
	client := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"ok"}}]}`+"\n\n")
		fmt.Fprint(w, "data: {not json\n\n")
	})

	full, err := client.StreamContent(context.Background(), &Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}, nil)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "ok", full)
}
