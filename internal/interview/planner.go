package interview

import (
	"strconv"
	"strings"

	"github.com/jonathan/resume-interviewer/internal/llm"
	"github.com/jonathan/resume-interviewer/internal/prompts"
	"github.com/jonathan/resume-interviewer/internal/types"
)

// Generation parameters for interview questions.
const (
	questionTemperature = 0.7
	questionTopP        = 0.95
	questionMaxTokens   = 300
)

// Focus is the topic the next question should cover.
type Focus string

// Focus values in priority order.
const (
	FocusExperience Focus = "experience"
	FocusEducation  Focus = "education"
	FocusSkills     Focus = "skills"
	FocusProjects   Focus = "projects"
	FocusClosing    Focus = "closing"
)

// QuestionRequest is a planned question: the generation request and the
// deterministic question to use when generation fails.
type QuestionRequest struct {
	Focus    Focus
	Request  *llm.Request
	Fallback string
}

// QuestionPlanner decides what to ask next.
type QuestionPlanner struct {
	// MinSkills is the skill count below which skills stay the focus
	MinSkills int
	// HistoryTurns is how many trailing transcript turns are sent with the request
	HistoryTurns int
	// MaxTurns is reported to the model so it can pace the interview
	MaxTurns int
}

// NextFocus returns the first uncovered topic: experience, then education,
// then skills below the minimum, then projects or achievements, then a
// closing question.
func (p QuestionPlanner) NextFocus(record types.ResumeData) Focus {
	switch {
	case len(record.Experience) == 0:
		return FocusExperience
	case len(record.Education) == 0:
		return FocusEducation
	case len(record.Skills) < p.MinSkills:
		return FocusSkills
	case len(record.Projects) == 0 && len(record.Achievements) == 0:
		return FocusProjects
	default:
		return FocusClosing
	}
}

// PlanNext builds the streamed request for the next question from the record
// and the tail of the transcript.
func (p QuestionPlanner) PlanNext(record types.ResumeData, transcript []types.Turn, turnCount int) QuestionRequest {
	focus := p.NextFocus(record)
	variant := promptVariant(record)

	focusText, err := prompts.GetVariant(prompts.Interview, "focus-"+string(focus), variant)
	if err != nil {
		focusText = string(focus)
	}

	system := prompts.Format(mustPrompt("planner-system", variant), map[string]string{
		"Name":           valueOr(record.PersonalInfo.Name, "the candidate"),
		"TargetRole":     valueOr(record.TargetRole, "an unspecified role"),
		"Style":          valueOr(record.Style, "any"),
		"Grade":          valueOr(record.PersonalInfo.Grade, "a student"),
		"School":         valueOr(record.PersonalInfo.School, "their school"),
		"GraduationYear": valueOr(record.PersonalInfo.GraduationYear, "soon"),
		"Questions":      strconv.Itoa(turnCount),
		"MaxQuestions":   strconv.Itoa(p.MaxTurns),
		"Covered":        coveredSummary(record),
		"Focus":          focusText,
	})

	messages := []llm.Message{{Role: llm.RoleSystem, Content: system}}
	messages = append(messages, toMessages(tail(transcript, p.HistoryTurns))...)

	return QuestionRequest{
		Focus: focus,
		Request: &llm.Request{
			Messages:    messages,
			Tier:        llm.TierStandard,
			Temperature: questionTemperature,
			TopP:        questionTopP,
			MaxTokens:   questionMaxTokens,
			Stream:      true,
		},
		Fallback: p.Fallback(record),
	}
}

// Fallback returns the deterministic question for the record's current focus.
// It never calls the model.
func (p QuestionPlanner) Fallback(record types.ResumeData) string {
	focus := p.NextFocus(record)
	return prompts.Format(mustPrompt("fallback-"+string(focus), promptVariant(record)), map[string]string{
		"TargetRole": valueOr(record.TargetRole, "your target role"),
	})
}

// WelcomeQuestion returns the fixed opening question seeded from the setup form.
func WelcomeQuestion(record types.ResumeData) string {
	variant := ""
	if record.IsHighSchoolStudent && record.PersonalInfo.School != "" {
		variant = "student"
	}
	return prompts.Format(mustPrompt("welcome", variant), map[string]string{
		"Name":       valueOr(record.PersonalInfo.Name, "there"),
		"TargetRole": valueOr(record.TargetRole, "your next role"),
		"School":     record.PersonalInfo.School,
	})
}

func promptVariant(record types.ResumeData) string {
	if record.IsHighSchoolStudent {
		return "student"
	}
	return ""
}

func mustPrompt(key, variant string) string {
	prompt, err := prompts.GetVariant(prompts.Interview, key, variant)
	if err != nil {
		panic(err)
	}
	return prompt
}

func coveredSummary(record types.ResumeData) string {
	var covered []string
	if n := len(record.Experience); n > 0 {
		covered = append(covered, strconv.Itoa(n)+" experience")
	}
	if n := len(record.Education); n > 0 {
		covered = append(covered, strconv.Itoa(n)+" education")
	}
	if len(record.Skills) > 0 {
		covered = append(covered, "skills ("+strings.Join(record.Skills, ", ")+")")
	}
	if n := len(record.Projects); n > 0 {
		covered = append(covered, strconv.Itoa(n)+" projects")
	}
	if n := len(record.Achievements); n > 0 {
		covered = append(covered, strconv.Itoa(n)+" achievements")
	}
	if len(covered) == 0 {
		return "nothing yet"
	}
	return strings.Join(covered, "; ")
}

func tail(transcript []types.Turn, n int) []types.Turn {
	if n <= 0 || len(transcript) <= n {
		return transcript
	}
	return transcript[len(transcript)-n:]
}

func toMessages(turns []types.Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		role := llm.RoleUser
		if turn.Role == types.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	return messages
}

// transcriptText renders turns as "role: content" lines.
func transcriptText(turns []types.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, string(turn.Role)+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
