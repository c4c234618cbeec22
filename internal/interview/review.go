package interview

import (
	"strings"

	"github.com/jonathan/resume-interviewer/internal/llm"
	"github.com/jonathan/resume-interviewer/internal/prompts"
	"github.com/jonathan/resume-interviewer/internal/types"
)

const (
	reviewTemperature = 0.3
	reviewMaxTokens   = 10
)

// Review verdicts returned by the model.
const (
	VerdictContinue = "CONTINUE"
	VerdictComplete = "COMPLETE"
)

// ReviewRequest asks the model whether the last turns hold enough for a resume.
func ReviewRequest(transcript []types.Turn) *llm.Request {
	prompt := prompts.Format(mustPrompt("review", ""), map[string]string{
		"Conversation": transcriptText(tail(transcript, DefaultReviewWindow)),
	})
	return &llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Tier:        llm.TierLite,
		Temperature: reviewTemperature,
		MaxTokens:   reviewMaxTokens,
	}
}

// ReviewComplete reports whether a review reply says the interview is done.
// Only an unambiguous COMPLETE ends the interview.
func ReviewComplete(reply string) bool {
	verdict := strings.ToUpper(strings.TrimSpace(llm.SanitizeReasoning(reply)))
	return strings.Contains(verdict, VerdictComplete) && !strings.Contains(verdict, VerdictContinue)
}
