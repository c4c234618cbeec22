package interview

import (
	"fmt"
)

// Default thresholds. The welcome question counts as the first turn, so
// MaxTurns is also the number of questions asked.
const (
	DefaultMaxTurns            = 10
	DefaultCompletionThreshold = 85
	DefaultSectionCeiling      = 70
	DefaultMinSkills           = 3
	DefaultEarlyFinishAfter    = 8
	DefaultHistoryTurns        = 6
	DefaultReviewWindow        = 8
)

// Settings holds the tunable thresholds of an interview.
type Settings struct {
	// MaxTurns caps the number of assistant questions, welcome included
	MaxTurns int `mapstructure:"max_turns"`
	// CompletionThreshold is the progress score at which the interview may end early
	CompletionThreshold int `mapstructure:"completion_threshold"`
	// SectionCeiling is the share of the score earned by section coverage
	SectionCeiling int `mapstructure:"section_ceiling"`
	// MinSkills is the skill count that counts as "skills covered"
	MinSkills int `mapstructure:"min_skills"`
	// EarlyFinishAfter is the turn after which hosts may offer a finish control
	EarlyFinishAfter int `mapstructure:"early_finish_after"`
	// ReviewAfterTurns enables the model completion review from this turn on; 0 disables it
	ReviewAfterTurns int `mapstructure:"review_after_turns"`
	// HistoryTurns is how many trailing turns the question planner sends
	HistoryTurns int `mapstructure:"history_turns"`
	// Vocabulary is the skill keyword list; empty means DefaultVocabulary
	Vocabulary []string `mapstructure:"vocabulary"`
}

// DefaultSettings returns the default interview settings.
func DefaultSettings() Settings {
	return Settings{
		MaxTurns:            DefaultMaxTurns,
		CompletionThreshold: DefaultCompletionThreshold,
		SectionCeiling:      DefaultSectionCeiling,
		MinSkills:           DefaultMinSkills,
		EarlyFinishAfter:    DefaultEarlyFinishAfter,
		HistoryTurns:        DefaultHistoryTurns,
	}
}

// Validate checks that the settings describe a terminating interview.
func (s Settings) Validate() error {
	if s.MaxTurns < 1 {
		return fmt.Errorf("max_turns must be at least 1, got %d", s.MaxTurns)
	}
	if s.CompletionThreshold < 0 || s.CompletionThreshold > 100 {
		return fmt.Errorf("completion_threshold must be between 0 and 100, got %d", s.CompletionThreshold)
	}
	if s.SectionCeiling < 0 || s.SectionCeiling > 100 {
		return fmt.Errorf("section_ceiling must be between 0 and 100, got %d", s.SectionCeiling)
	}
	if s.MinSkills < 0 {
		return fmt.Errorf("min_skills must not be negative, got %d", s.MinSkills)
	}
	if s.EarlyFinishAfter < 0 {
		return fmt.Errorf("early_finish_after must not be negative, got %d", s.EarlyFinishAfter)
	}
	if s.ReviewAfterTurns < 0 {
		return fmt.Errorf("review_after_turns must not be negative, got %d", s.ReviewAfterTurns)
	}
	if s.HistoryTurns < 1 {
		return fmt.Errorf("history_turns must be at least 1, got %d", s.HistoryTurns)
	}
	return nil
}

func (s Settings) vocabulary() []string {
	if len(s.Vocabulary) == 0 {
		return DefaultVocabulary
	}
	return s.Vocabulary
}
