package interview

import (
	"math"

	"github.com/jonathan/resume-interviewer/internal/types"
)

// sectionCount is the number of sections scored by the estimator:
// experience, education, skills, and projects-or-achievements.
const sectionCount = 4

// ProgressEstimator scores how ready a record is for finalization.
type ProgressEstimator struct {
	// SectionCeiling is the part of 100 earned by section coverage; turns earn the rest
	SectionCeiling int
}

// Estimate returns a 0..100 completion score. It is non-decreasing in both
// section coverage and turn count, and a fully covered record at maxTurns
// scores 100.
func (p ProgressEstimator) Estimate(record types.ResumeData, turnCount, maxTurns int) int {
	ceiling := clamp(p.SectionCeiling, 0, 100)

	coverage := float64(CoveredSections(record)) / sectionCount * float64(ceiling)

	var turns float64
	if maxTurns > 0 && turnCount > 0 {
		turns = math.Min(float64(turnCount)/float64(maxTurns), 1) * float64(100-ceiling)
	}

	return clamp(int(math.Round(coverage+turns)), 0, 100)
}

// CoveredSections counts the scored sections holding at least one entry.
func CoveredSections(record types.ResumeData) int {
	covered := 0
	if len(record.Experience) > 0 {
		covered++
	}
	if len(record.Education) > 0 {
		covered++
	}
	if len(record.Skills) > 0 {
		covered++
	}
	if len(record.Projects) > 0 || len(record.Achievements) > 0 {
		covered++
	}
	return covered
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
