package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeReasoning(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no markup", input: "What did you build?", expected: "What did you build?"},
		{name: "paired span", input: "<think>plan the question</think>What did you build?", expected: "What did you build?"},
		{name: "span in the middle", input: "Hi <think>hmm</think>there", expected: "Hi there"},
		{name: "multiple spans", input: "a<think>x</think>b<think>y</think>c", expected: "abc"},
		{name: "whole text is reasoning", input: "<think>only thoughts</think>", expected: ""},
		{name: "unmatched open hides the rest", input: "Question?<think>still thinking", expected: "Question?"},
		{name: "unmatched close hides the prefix", input: "leaked reasoning</think>Real question", expected: "Real question"},
		{name: "stray close after pair", input: "<think>a</think>b</think>c", expected: "c"},
		{name: "finished text keeps trailing fragment", input: "Is it 3<", expected: "Is it 3<"},
		{name: "finished text keeps partial marker", input: "Tell me more <thi", expected: "Tell me more <thi"},
		{name: "partial close inside span", input: "<think>abc</thi", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeReasoning(tt.input))
		})
	}
}

func TestSanitizePartialReasoning(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "partial open marker held back", input: "Tell me more <thi", expected: "Tell me more "},
		{name: "lone angle bracket at end", input: "x <", expected: "x "},
		{name: "complete text untouched", input: "What did you build?", expected: "What did you build?"},
		{name: "paired span", input: "<think>a</think>Hello", expected: "Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePartialReasoning(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, SanitizePartialReasoning(got))
		})
	}
}

func TestSanitizeReasoning_Idempotent(t *testing.T) {
	inputs := []string{
		"<think>a</think>b",
		"<thi<think>x</think>nk>tail",
		"a</think>b<think>c",
		"<think><think>x</think></think>y",
		"a<<",
		"plain text",
	}

	for _, input := range inputs {
		once := SanitizeReasoning(input)
		assert.Equal(t, once, SanitizeReasoning(once), "input %q", input)
		assert.NotContains(t, once, ReasoningOpenTag)
		assert.NotContains(t, once, ReasoningCloseTag)
	}
}

func TestSanitizeReasoning_GrowingPrefix(t *testing.T) {
	full := "<think>The user mentioned Python.</think>Which Python frameworks have you used?"

	var last string
	for i := 0; i <= len(full); i++ {
		prefix := SanitizePartialReasoning(full[:i])
		assert.NotContains(t, prefix, "<")
		assert.False(t, strings.Contains(prefix, "The user mentioned"), "reasoning leaked at %d", i)
		last = prefix
	}

	assert.Equal(t, "Which Python frameworks have you used?", last)
}
