package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-interviewer/internal/interview"
	"github.com/jonathan/resume-interviewer/internal/llm"
	"github.com/jonathan/resume-interviewer/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// scriptedClient streams the same question each turn and returns a fixed
// extraction on finalization.
type scriptedClient struct {
	mu         sync.Mutex
	streamErr  error
	extraction string
	streams    int
}

func (c *scriptedClient) GenerateContent(_ context.Context, _ *llm.Request) (string, error) {
	if c.extraction == "" {
		return `{}`, nil
	}
	return c.extraction, nil
}

func (c *scriptedClient) StreamContent(_ context.Context, _ *llm.Request, onChunk func(string)) (string, error) {
	c.mu.Lock()
	c.streams++
	err := c.streamErr
	c.mu.Unlock()
	if err != nil {
		return "", err
	}
	chunks := []string{"<think>next</think>", "What else ", "should we add?"}
	for _, chunk := range chunks {
		onChunk(chunk)
	}
	return strings.Join(chunks, ""), nil
}

func (c *scriptedClient) GetModel(tier llm.ModelTier) string { return "scripted-" + string(tier) }
func (c *scriptedClient) Close() error { return nil }

func testSetup() *types.SetupRequest {
	return &types.SetupRequest{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		StudentType: types.StudentTypeProfessional,
		Age:         "28-35",
		Style:       "technical",
		TargetRole:  "Backend Engineer",
	}
}

func runScripted(t *testing.T, client llm.Client, input string) (types.ResumeData, string, error) {
	t.Helper()
	settings := interview.DefaultSettings()
	settings.CompletionThreshold = 100
	session, err := interview.New(client, settings)
	require.NoError(t, err)

	var out bytes.Buffer
	c := newChat(strings.NewReader(input), &out, func() (*types.SetupRequest, error) { return testSetup(), nil })
	record, err := c.run(context.Background(), session)
	return record, out.String(), err
}

func TestChat_AnswerThenFinish(t *testing.T) {
	client := &scriptedClient{extraction: `{"education": [{"institution": "State U", "degree": "BS"}]}`}

	record, out, err := runScripted(t, client, "I build APIs in python at Acme Corp.\n\n/finish\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "What else should we add?")
	assert.Equal(t, 1, strings.Count(out, "What else should we add?"))
	assert.Contains(t, out, "RESUME SUMMARY")
	assert.Contains(t, record.Skills, "python")
	require.Len(t, record.Education, 1)
	assert.Equal(t, "State U", record.Education[0].Institution)
}

func TestChat_EndOfInputFinishes(t *testing.T) {
	record, out, err := runScripted(t, &scriptedClient{extraction: "no json"}, "")
	require.NoError(t, err)

	assert.Contains(t, out, "NOTICE")
	assert.Contains(t, out, "Could not process")
	assert.Equal(t, "Backend Engineer", record.TargetRole)
}

func TestChat_FallbackQuestion(t *testing.T) {
	client := &scriptedClient{streamErr: &llm.TransportError{Provider: llm.ProviderGroq, Message: "unavailable"}}

	_, out, err := runScripted(t, client, "I worked at Acme Corp.\n/finish\n")
	require.NoError(t, err)

	assert.Contains(t, out, interview.NoticeFallbackQuestion)
	assert.NotContains(t, out, "What else should we add?")
}

func TestChat_ResetStartsOver(t *testing.T) {
	client := &scriptedClient{}

	record, out, err := runScripted(t, client, "I know docker and kubernetes.\n/reset\n/finish\n")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "Hello Ada Lovelace!"))
	assert.NotContains(t, record.Skills, "docker")
}

func TestChat_Quit(t *testing.T) {
	_, _, err := runScripted(t, &scriptedClient{}, "/quit\n")
	assert.ErrorIs(t, err, errQuit)
}

func TestChat_Help(t *testing.T) {
	_, out, err := runScripted(t, &scriptedClient{}, "/help\n/finish\n")
	require.NoError(t, err)
	assert.Contains(t, out, "leave without saving")
}

func TestLoadSetup(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "setup.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"name": " Sam ", "email": "sam@example.com", "studentType": "highschool", "grade": "11th", "school": "Lincoln High", "graduationYear": "2026", "style": "Student", "targetRole": "Intern"}`), 0o644))

	setup, err := loadSetup(valid)
	require.NoError(t, err)
	assert.Equal(t, "Sam", setup.Name)
	assert.Equal(t, "student", setup.Style)
	assert.True(t, setup.IsHighSchool())

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"name": "Sam", "studentType": "highschool", "style": "modern", "targetRole": "Intern"}`), 0o644))

	_, err = loadSetup(invalid)
	require.Error(t, err)
	assert.Equal(t, "invalid setup: email is required; grade is required; graduationYear is required; school is required", err.Error())

	_, err = loadSetup(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
