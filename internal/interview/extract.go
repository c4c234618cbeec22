package interview

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/resume-interviewer/internal/types"
)

// minAchievementLength is the shortest sentence considered as an achievement.
const minAchievementLength = 20

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

	outcomePattern = regexp.MustCompile(`(?i)\b(increased|reduced|improved|managed|generated|grew|saved|cut|boosted|led|delivered|launched|built|decreased|raised|achieved)\b.*?(\d|%|\$)`)

	awardPattern = regexp.MustCompile(`(?i)\b(awards?|awarded|won|recogni[sz]ed|honou?red|scholarship|dean'?s list|promoted|certified|winner|first place|medal)`)

	employmentPattern = regexp.MustCompile(`(?i)\b(worked|working|employed|job|intern|internship|position|role|company)\b`)

	// Company names are the capitalized words following at/for/with.
	companyPattern = regexp.MustCompile(`\b([Aa]t|[Ff]or|[Ww]ith)\s+([A-Z][\w&.-]*(?:\s+[A-Z][\w&.-]*)*)`)
)

// Update is the additive delta extracted from one answer. Every entry is new
// with respect to the record it was extracted against.
type Update struct {
	Skills       []string
	Achievements []string
	Experience   []types.Experience
}

// Empty reports whether the update carries nothing.
func (u Update) Empty() bool {
	return len(u.Skills) == 0 && len(u.Achievements) == 0 && len(u.Experience) == 0
}

type keyword struct {
	skill      string
	normalized string
}

// Extractor scans answers for skills, achievements and an opening experience entry.
type Extractor struct {
	keywords []keyword // longest normalized form first
	order    map[string]int
}

// NewExtractor builds an extractor over a skill vocabulary. Blank and
// duplicate keywords are skipped.
func NewExtractor(vocabulary []string) *Extractor {
	e := &Extractor{order: make(map[string]int)}
	seen := make(map[string]bool)
	for _, skill := range vocabulary {
		skill = strings.TrimSpace(skill)
		norm := normalize(skill)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		e.order[skill] = len(e.keywords)
		e.keywords = append(e.keywords, keyword{skill: skill, normalized: norm})
	}
	sort.SliceStable(e.keywords, func(i, j int) bool {
		return len(e.keywords[i].normalized) > len(e.keywords[j].normalized)
	})
	return e
}

// Extract scans an answer against the current record. It is pure: the
// record is only read, to avoid returning facts it already holds.
func (e *Extractor) Extract(utterance string, record types.ResumeData) Update {
	var update Update
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return update
	}

	for _, skill := range e.matchSkills(utterance) {
		if !record.HasSkill(skill) {
			update.Skills = append(update.Skills, skill)
		}
	}

	for _, sentence := range splitSentences(utterance) {
		if len(sentence) < minAchievementLength {
			continue
		}
		if !outcomePattern.MatchString(sentence) && !awardPattern.MatchString(sentence) {
			continue
		}
		if record.HasAchievement(sentence) || containsFold(update.Achievements, sentence) {
			continue
		}
		update.Achievements = append(update.Achievements, sentence)
	}

	if len(record.Experience) == 0 && employmentPattern.MatchString(utterance) {
		if company := e.findCompany(utterance); company != "" {
			update.Experience = append(update.Experience, types.Experience{
				Company:     company,
				Description: []string{utterance},
			})
		}
	}

	return update
}

// matchSkills returns vocabulary skills found in the text, in vocabulary order.
// Longer keywords are matched first and masked out, so "javascript" does not
// also report "java".
func (e *Extractor) matchSkills(text string) []string {
	haystack := normalize(text)
	var found []string
	for _, kw := range e.keywords {
		if !strings.Contains(haystack, kw.normalized) {
			continue
		}
		found = append(found, kw.skill)
		haystack = strings.ReplaceAll(haystack, kw.normalized, "|")
	}
	sort.SliceStable(found, func(i, j int) bool {
		return e.order[found[i]] < e.order[found[j]]
	})
	return found
}

// Apply merges an update into the record: set union for skills and
// achievements, append for experience stubs. Nothing is ever removed.
func Apply(record *types.ResumeData, update Update) {
	for _, skill := range update.Skills {
		if !record.HasSkill(skill) {
			record.Skills = append(record.Skills, skill)
		}
	}
	for _, achievement := range update.Achievements {
		if !record.HasAchievement(achievement) {
			record.Achievements = append(record.Achievements, achievement)
		}
	}
	record.Experience = append(record.Experience, update.Experience...)
}

// normalize lowercases text and keeps only letters, digits, '+' and '#'.
func normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func splitSentences(text string) []string {
	var sentences []string
	for _, part := range sentenceBoundary.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// findCompany returns the first capitalized phrase after "at" or "for",
// falling back to one after "with". Phrases that name a known skill are
// skipped, so "worked with Python" does not become a company.
func (e *Extractor) findCompany(text string) string {
	var withCandidate string
	for _, match := range companyPattern.FindAllStringSubmatch(text, -1) {
		company := strings.TrimRight(match[2], ".-&")
		if company == "" || e.isSkill(company) {
			continue
		}
		if !strings.EqualFold(match[1], "with") {
			return company
		}
		if withCandidate == "" {
			withCandidate = company
		}
	}
	return withCandidate
}

func (e *Extractor) isSkill(phrase string) bool {
	norm := normalize(phrase)
	for _, kw := range e.keywords {
		if kw.normalized == norm {
			return true
		}
	}
	return false
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}
