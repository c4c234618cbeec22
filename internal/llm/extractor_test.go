package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt(t *testing.T) {
	schema := ExtractionSchema{
		Name:        "ResumeExtraction",
		Description: "Extract structured resume data.",
		InputLabel:  "Conversation",
		Fields: []SchemaField{
			{Name: "skills", Type: `["string"]`, Description: "skills mentioned", Required: true},
			{Name: "achievements", Type: `["string"]`},
		},
	}

	prompt := BuildExtractionPrompt(schema, "user: I know SQL")

	assert.Contains(t, prompt, "Extract structured resume data.")
	assert.Contains(t, prompt, `"skills": ["string"] (required) // skills mentioned,`)
	assert.Contains(t, prompt, `"achievements": ["string"]`)
	assert.Contains(t, prompt, "Conversation:\n\"\"\"\nuser: I know SQL\n\"\"\"")
}

func TestBuildExtractionPrompt_DefaultLabel(t *testing.T) {
	prompt := BuildExtractionPrompt(ExtractionSchema{Description: "x"}, "text")
	assert.Contains(t, prompt, "Input text:")
}
