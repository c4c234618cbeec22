package interview

import (
	"context"
	"sync"

	"github.com/jonathan/resume-interviewer/internal/llm"
)

// fakeClient is a scripted llm.Client. Unset hooks fall back to a
// well-behaved reasoning model.
type fakeClient struct {
	mu            sync.Mutex
	stream        func(req *llm.Request, onChunk func(string)) (string, error)
	generate      func(req *llm.Request) (string, error)
	streamCalls   int
	generateCalls int
	requests      []*llm.Request
}

var defaultChunks = []string{"<think>they mentioned python", "</think>", "What did ", "you study?"}

func (f *fakeClient) GenerateContent(_ context.Context, req *llm.Request) (string, error) {
	f.mu.Lock()
	f.generateCalls++
	f.requests = append(f.requests, req)
	generate := f.generate
	f.mu.Unlock()

	if generate == nil {
		return `{}`, nil
	}
	return generate(req)
}

func (f *fakeClient) StreamContent(_ context.Context, req *llm.Request, onChunk func(string)) (string, error) {
	f.mu.Lock()
	f.streamCalls++
	f.requests = append(f.requests, req)
	stream := f.stream
	f.mu.Unlock()

	if stream != nil {
		return stream(req, onChunk)
	}
	return emit(defaultChunks, onChunk), nil
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string {
	return "fake-" + string(tier)
}

func (f *fakeClient) Close() error {
	return nil
}

func (f *fakeClient) calls() (stream, generate int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamCalls, f.generateCalls
}

func emit(chunks []string, onChunk func(string)) string {
	full := ""
	for _, chunk := range chunks {
		full += chunk
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return full
}
