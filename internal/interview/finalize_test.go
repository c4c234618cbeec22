package interview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-interviewer/internal/llm"
	"github.com/jonathan/resume-interviewer/internal/schemas"
	"github.com/jonathan/resume-interviewer/internal/types"
)

func TestParseExtraction(t *testing.T) {
	tests := []struct {
		name     string
		response string
		skills   []string
	}{
		{name: "surrounding prose", response: `Here you go: {"skills":["sql"]} thanks!`, skills: []string{"sql"}},
		{name: "reasoning markup", response: "<think>the user said {sql}</think>{\"skills\":[\"go\"]}", skills: []string{"go"}},
		{name: "code fence", response: "```json\n{\"skills\": [\"docker\"]}\n```", skills: []string{"docker"}},
		{name: "braces in strings", response: `{"skills":["c{++}"], "achievements":["a } b"]}`, skills: []string{"c{++}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extracted, err := ParseExtraction(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.skills, extracted.Skills)
		})
	}
}

func TestParseExtraction_LooseTypes(t *testing.T) {
	response := `{
		"skills": ["sql", "docker"],
		"experience": [{"company": "Acme", "position": "Engineer", "startDate": 2020, "description": "Built APIs"}],
		"education": [{"institution": "MIT", "gpa": 3.9, "honors": "Dean's List"}],
		"projects": [{"name": "Tracker", "technologies": ["Go", 7], "highlights": null}],
		"achievements": "Won a hackathon"
	}`

	extracted, err := ParseExtraction(response)
	require.NoError(t, err)

	assert.Equal(t, []string{"sql", "docker"}, extracted.Skills)
	require.Len(t, extracted.Experience, 1)
	assert.Equal(t, "2020", extracted.Experience[0].StartDate)
	assert.Equal(t, []string{"Built APIs"}, extracted.Experience[0].Description)
	require.Len(t, extracted.Education, 1)
	assert.Equal(t, "3.9", extracted.Education[0].GPA)
	assert.Equal(t, []string{"Dean's List"}, extracted.Education[0].Honors)
	require.Len(t, extracted.Projects, 1)
	assert.Equal(t, []string{"Go", "7"}, extracted.Projects[0].Technologies)
	assert.Empty(t, extracted.Projects[0].Highlights)
	assert.Equal(t, []string{"Won a hackathon"}, extracted.Achievements)

	merged := MergeExtracted(types.NewResumeData(), extracted)
	assert.Equal(t, []string{"sql", "docker"}, merged.Skills)
	assert.Equal(t, "MIT", merged.Education[0].Institution)
}

func TestParseExtraction_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		schema   bool
	}{
		{name: "no object", response: "Sorry, I cannot help with that."},
		{name: "unbalanced", response: `{"skills": ["sql"`},
		{name: "wrong types", response: `{"education": "MIT"}`, schema: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraction(tt.response)
			require.Error(t, err)

			var parseErr *ExtractionParseError
			require.True(t, errors.As(err, &parseErr))

			var validationErr *schemas.ValidationError
			assert.Equal(t, tt.schema, errors.As(err, &validationErr))
		})
	}
}

func localRecord() types.ResumeData {
	record := types.NewResumeData()
	record.PersonalInfo = types.PersonalInfo{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}
	record.TargetRole = "Data Engineer"
	record.Style = "modern"
	record.Skills = []string{"python", "docker"}
	record.Achievements = []string{"Increased throughput by 40%"}
	record.Experience = []types.Experience{{Company: "Acme Corp", Description: []string{"I worked at Acme Corp"}}}
	return record
}

func TestMergeExtracted_SkillsScenario(t *testing.T) {
	local := localRecord()
	extracted, err := ParseExtraction(`Here you go: {"skills":["sql"]} thanks!`)
	require.NoError(t, err)

	merged := MergeExtracted(local, extracted)

	assert.Equal(t, []string{"python", "docker", "sql"}, merged.Skills)

	expected := localRecord()
	expected.Skills = merged.Skills
	assert.Equal(t, expected, merged, "nothing but skills may change")
	assert.Equal(t, []string{"python", "docker"}, local.Skills, "input record is not mutated")
}

func TestMergeExtracted_ReplaceIfPresent(t *testing.T) {
	extracted := &ExtractedResume{
		PersonalInfo: &ExtractedPersonalInfo{Name: "  ", Email: "", Location: "Berlin", LinkedIn: "linkedin.com/in/ada"},
		Experience: []types.Experience{
			{Company: " ", Position: "", Description: []string{""}},
			{Company: "Acme Corp", Position: "Backend Engineer", StartDate: "2020-01", EndDate: "present", Description: []string{"Built APIs", " "}},
		},
		Education:    []types.Education{{Institution: "State U", Degree: "BS", Field: "CS"}},
		Skills:       []string{"Python", "", "SQL"},
		Projects:     []types.Project{{}},
		Achievements: []string{"increased throughput by 40%", "Won a hackathon"},
	}

	merged := MergeExtracted(localRecord(), extracted)

	assert.Equal(t, "Ada", merged.PersonalInfo.Name, "blank extracted name keeps the local one")
	assert.Equal(t, "ada@example.com", merged.PersonalInfo.Email)
	assert.Equal(t, "555-0100", merged.PersonalInfo.Phone)
	assert.Equal(t, "Berlin", merged.PersonalInfo.Location)
	assert.Equal(t, "linkedin.com/in/ada", merged.PersonalInfo.LinkedIn)

	require.Len(t, merged.Experience, 1, "blank entries are dropped")
	assert.Equal(t, "Backend Engineer", merged.Experience[0].Position)
	assert.Equal(t, []string{"Built APIs"}, merged.Experience[0].Description)

	assert.Len(t, merged.Education, 1)
	assert.Empty(t, merged.Projects, "an all-blank project list does not replace local projects")

	assert.Equal(t, []string{"python", "docker", "SQL"}, merged.Skills)
	assert.Equal(t, []string{"Increased throughput by 40%", "Won a hackathon"}, merged.Achievements)
	assert.Equal(t, "Data Engineer", merged.TargetRole)
	assert.Equal(t, "modern", merged.Style)
}

func TestMergeExtracted_HighSchool(t *testing.T) {
	local := localRecord()
	local.IsHighSchoolStudent = true

	merged := MergeExtracted(local, &ExtractedResume{
		Education:        []types.Education{{Institution: "Lincoln High"}},
		Extracurriculars: []string{"Robotics club", "robotics club", "Soccer"},
	})

	require.Len(t, merged.Education, 1)
	assert.True(t, merged.Education[0].IsHighSchool)
	assert.Equal(t, []string{"Robotics club", "Soccer"}, merged.Extracurriculars)
}

func TestMergeExtracted_Nil(t *testing.T) {
	assert.Equal(t, localRecord(), MergeExtracted(localRecord(), nil))
}

func TestFinalizeRequest(t *testing.T) {
	record := localRecord()
	transcript := []types.Turn{
		{Role: types.RoleAssistant, Content: "Where do you work?"},
		{Role: types.RoleUser, Content: "Acme Corp."},
	}

	req := FinalizeRequest(record, transcript)

	assert.False(t, req.Stream)
	assert.True(t, req.JSON)
	assert.Equal(t, llm.TierAdvanced, req.Tier)
	assert.Equal(t, 2000, req.MaxTokens)
	require.Len(t, req.Messages, 1)

	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "assistant: Where do you work?\nuser: Acme Corp.")
	assert.Contains(t, prompt, "Ada")
	assert.Contains(t, prompt, "Data Engineer")
	assert.Contains(t, prompt, `"skills"`)
	assert.NotContains(t, prompt, "extracurriculars")

	record.IsHighSchoolStudent = true
	assert.Contains(t, FinalizeRequest(record, transcript).Messages[0].Content, "extracurriculars")
}

func TestReviewComplete(t *testing.T) {
	assert.True(t, ReviewComplete("COMPLETE"))
	assert.True(t, ReviewComplete("<think>enough data</think> complete."))
	assert.False(t, ReviewComplete("CONTINUE"))
	assert.False(t, ReviewComplete("Not sure: CONTINUE or COMPLETE"))
	assert.False(t, ReviewComplete(""))
}

func TestReviewRequest_Window(t *testing.T) {
	var transcript []types.Turn
	for i := 0; i < 12; i++ {
		transcript = append(transcript, types.Turn{Role: types.RoleUser, Content: string(rune('a' + i))})
	}

	req := ReviewRequest(transcript)
	assert.Equal(t, llm.TierLite, req.Tier)
	assert.Equal(t, 10, req.MaxTokens)
	prompt := req.Messages[0].Content
	assert.NotContains(t, prompt, "user: d\n")
	assert.Contains(t, prompt, "user: e\n")
	assert.Contains(t, prompt, "user: l")
}
