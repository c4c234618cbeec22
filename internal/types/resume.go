// Package types provides type definitions for structured data used throughout the resume interviewer.
package types

import (
	"strings"
	"time"
)

// PersonalInfo holds contact details and, for high school students, school details.
type PersonalInfo struct {
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Location       string `json:"location,omitempty"`
	LinkedIn       string `json:"linkedin,omitempty"`
	GitHub         string `json:"github,omitempty"`
	Website        string `json:"website,omitempty"`
	Grade          string `json:"grade,omitempty"`
	School         string `json:"school,omitempty"`
	GraduationYear string `json:"graduationYear,omitempty"`
}

// Experience represents a single position. EndDate may be the literal "present".
type Experience struct {
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description []string `json:"description"`
	Location    string   `json:"location,omitempty"`
	IsVolunteer bool     `json:"isVolunteer,omitempty"`
}

// Education represents a degree, diploma or program.
type Education struct {
	Institution    string   `json:"institution"`
	Degree         string   `json:"degree"`
	Field          string   `json:"field"`
	GraduationDate string   `json:"graduationDate"`
	GPA            string   `json:"gpa,omitempty"`
	Honors         []string `json:"honors,omitempty"`
	IsHighSchool   bool     `json:"isHighSchool,omitempty"`
}

// Project represents a personal, academic or professional project.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Highlights   []string `json:"highlights"`
	Link         string   `json:"link,omitempty"`
}

// ResumeData is the structured record assembled over the course of an interview.
type ResumeData struct {
	PersonalInfo        PersonalInfo `json:"personalInfo"`
	Style               string       `json:"style"`
	TargetRole          string       `json:"targetRole"`
	Experience          []Experience `json:"experience"`
	Education           []Education  `json:"education"`
	Skills              []string     `json:"skills"`
	Projects            []Project    `json:"projects"`
	Achievements        []string     `json:"achievements"`
	Extracurriculars    []string     `json:"extracurriculars,omitempty"`
	VolunteerWork       []Experience `json:"volunteerWork,omitempty"`
	IsHighSchoolStudent bool         `json:"isHighSchoolStudent,omitempty"`
}

// NewResumeData returns a blank record with non-nil lists so it always encodes as arrays.
func NewResumeData() ResumeData {
	return ResumeData{
		Experience:   []Experience{},
		Education:    []Education{},
		Skills:       []string{},
		Projects:     []Project{},
		Achievements: []string{},
	}
}

// HasSkill reports whether the skill is already present, ignoring case and surrounding space.
func (r *ResumeData) HasSkill(skill string) bool {
	return containsFold(r.Skills, skill)
}

// HasAchievement reports whether the achievement is already present, ignoring case.
func (r *ResumeData) HasAchievement(achievement string) bool {
	return containsFold(r.Achievements, achievement)
}

// Clone returns a deep copy of the record.
func (r ResumeData) Clone() ResumeData {
	out := r
	out.Experience = cloneExperience(r.Experience)
	out.Education = make([]Education, len(r.Education))
	for i, edu := range r.Education {
		edu.Honors = cloneStrings(edu.Honors)
		out.Education[i] = edu
	}
	out.Skills = cloneStrings(r.Skills)
	out.Projects = make([]Project, len(r.Projects))
	for i, p := range r.Projects {
		p.Technologies = cloneStrings(p.Technologies)
		p.Highlights = cloneStrings(p.Highlights)
		out.Projects[i] = p
	}
	out.Achievements = cloneStrings(r.Achievements)
	if r.Extracurriculars != nil {
		out.Extracurriculars = cloneStrings(r.Extracurriculars)
	}
	if r.VolunteerWork != nil {
		out.VolunteerWork = cloneExperience(r.VolunteerWork)
	}
	return out
}

func cloneExperience(in []Experience) []Experience {
	out := make([]Experience, len(in))
	for i, exp := range in {
		exp.Description = cloneStrings(exp.Description)
		out[i] = exp
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func containsFold(list []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), value) {
			return true
		}
	}
	return false
}

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleAssistant marks interviewer questions
	RoleAssistant Role = "assistant"
	// RoleUser marks candidate answers
	RoleUser Role = "user"
)

// Turn is one assistant question or one user answer in the transcript.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
