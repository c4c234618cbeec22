package interview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-interviewer/internal/llm"
	"github.com/jonathan/resume-interviewer/internal/prompts"
	"github.com/jonathan/resume-interviewer/internal/schemas"
	"github.com/jonathan/resume-interviewer/internal/types"
)

const (
	finalizeTemperature = 0.3
	finalizeMaxTokens   = 2000
)

// ExtractedPersonalInfo is the contact block of a finalization response.
type ExtractedPersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

// ExtractedResume is the finalization response. Every field is optional and
// absent fields decode to their zero value.
type ExtractedResume struct {
	PersonalInfo     *ExtractedPersonalInfo `json:"personalInfo"`
	Experience       []types.Experience     `json:"experience"`
	Education        []types.Education      `json:"education"`
	Skills           []string               `json:"skills"`
	Projects         []types.Project        `json:"projects"`
	Achievements     []string               `json:"achievements"`
	Extracurriculars []string               `json:"extracurriculars"`
}

var extractionSchema = llm.ExtractionSchema{
	Name:       "ResumeExtraction",
	InputLabel: "Conversation",
	Fields: []llm.SchemaField{
		{Name: "personalInfo", Type: `{"name": "", "email": "", "phone": "", "location": "", "linkedin": "", "github": ""}`},
		{Name: "experience", Type: `[{"company": "", "position": "", "startDate": "", "endDate": "", "description": [""], "location": ""}]`, Description: `endDate may be "present"`},
		{Name: "education", Type: `[{"institution": "", "degree": "", "field": "", "graduationDate": "", "gpa": "", "honors": [""]}]`},
		{Name: "skills", Type: `[""]`},
		{Name: "projects", Type: `[{"name": "", "description": "", "technologies": [""], "highlights": [""]}]`},
		{Name: "achievements", Type: `[""]`, Description: "measurable results, awards and recognition"},
	},
}

// FinalizeRequest builds the one-shot extraction request over the full transcript.
func FinalizeRequest(record types.ResumeData, transcript []types.Turn) *llm.Request {
	schema := extractionSchema
	schema.Description = prompts.Format(mustPrompt("finalize-description", ""), map[string]string{
		"Name":       valueOr(record.PersonalInfo.Name, "unknown"),
		"TargetRole": valueOr(record.TargetRole, "unspecified"),
	})
	if record.IsHighSchoolStudent {
		schema.Fields = append(schema.Fields, llm.SchemaField{Name: "extracurriculars", Type: `[""]`, Description: "clubs, sports and activities"})
	}

	return &llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: llm.BuildExtractionPrompt(schema, transcriptText(transcript))}},
		Tier:        llm.TierAdvanced,
		Temperature: finalizeTemperature,
		MaxTokens:   finalizeMaxTokens,
		JSON:        true,
	}
}

// ParseExtraction finds the first balanced JSON object in a model response,
// validates it against the extraction schema and decodes it. Reasoning
// markup, code fences and surrounding prose are tolerated.
func ParseExtraction(response string) (*ExtractedResume, error) {
	text := llm.CleanJSONBlock(strings.TrimSpace(llm.SanitizeReasoning(response)))

	object, ok := llm.ExtractJSONObject(text)
	if !ok {
		return nil, &ExtractionParseError{Message: "no JSON object in response"}
	}

	if err := schemas.ValidateResumeExtraction(object); err != nil {
		return nil, &ExtractionParseError{Message: "response does not match the extraction schema", Cause: err}
	}

	var wire extractionWire
	if err := json.Unmarshal([]byte(object), &wire); err != nil {
		return nil, &ExtractionParseError{Message: "failed to decode extraction", Cause: err}
	}
	return wire.resume(), nil
}

// MergeExtracted folds an extraction into the locally collected record.
// Scalars and entry lists replace local values only when the extracted value
// is non-empty. Skills, achievements and extracurriculars are unioned.
func MergeExtracted(record types.ResumeData, extracted *ExtractedResume) types.ResumeData {
	merged := record.Clone()
	if extracted == nil {
		return merged
	}

	if info := extracted.PersonalInfo; info != nil {
		p := &merged.PersonalInfo
		p.Name = replaceIfPresent(p.Name, info.Name)
		p.Email = replaceIfPresent(p.Email, info.Email)
		p.Phone = replaceIfPresent(p.Phone, info.Phone)
		p.Location = replaceIfPresent(p.Location, info.Location)
		p.LinkedIn = replaceIfPresent(p.LinkedIn, info.LinkedIn)
		p.GitHub = replaceIfPresent(p.GitHub, info.GitHub)
		p.Website = replaceIfPresent(p.Website, info.Website)
	}

	if experience := cleanExperience(extracted.Experience); len(experience) > 0 {
		merged.Experience = experience
	}
	if education := cleanEducation(extracted.Education); len(education) > 0 {
		if merged.IsHighSchoolStudent {
			for i := range education {
				education[i].IsHighSchool = true
			}
		}
		merged.Education = education
	}
	if projects := cleanProjects(extracted.Projects); len(projects) > 0 {
		merged.Projects = projects
	}

	merged.Skills = union(merged.Skills, extracted.Skills)
	merged.Achievements = union(merged.Achievements, extracted.Achievements)
	if len(extracted.Extracurriculars) > 0 {
		merged.Extracurriculars = union(merged.Extracurriculars, extracted.Extracurriculars)
	}

	return merged
}

func replaceIfPresent(local, extracted string) string {
	if v := strings.TrimSpace(extracted); v != "" {
		return v
	}
	return local
}

// union appends the non-blank values missing from base, ignoring case.
func union(base, values []string) []string {
	out := append([]string{}, base...)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || containsFold(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func nonBlank(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func cleanExperience(entries []types.Experience) []types.Experience {
	var out []types.Experience
	for _, e := range entries {
		e.Description = nonBlank(e.Description)
		if strings.TrimSpace(e.Company) == "" && strings.TrimSpace(e.Position) == "" && len(e.Description) == 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

func cleanEducation(entries []types.Education) []types.Education {
	var out []types.Education
	for _, e := range entries {
		e.Honors = nonBlank(e.Honors)
		if strings.TrimSpace(e.Institution) == "" && strings.TrimSpace(e.Degree) == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func cleanProjects(entries []types.Project) []types.Project {
	var out []types.Project
	for _, p := range entries {
		p.Technologies = nonBlank(p.Technologies)
		p.Highlights = nonBlank(p.Highlights)
		if strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Description) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// looseText decodes a string, number or boolean as text. Models often send a
// GPA or a year as a bare number.
type looseText string

func (t *looseText) UnmarshalJSON(data []byte) error {
	text, err := scalarText(data)
	*t = looseText(text)
	return err
}

// looseList decodes a list of scalars, or a single scalar as a one-element list.
type looseList []string

func (l *looseList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		text, err := scalarText(data)
		if err != nil {
			return err
		}
		*l = nil
		if text != "" {
			*l = looseList{text}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(looseList, 0, len(items))
	for _, item := range items {
		text, err := scalarText(item)
		if err != nil {
			return err
		}
		if text != "" {
			out = append(out, text)
		}
	}
	*l = out
	return nil
}

func scalarText(data []byte) (string, error) {
	var v interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return "", err
	}
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case json.Number:
		return value.String(), nil
	case bool:
		return strconv.FormatBool(value), nil
	default:
		return "", fmt.Errorf("expected a scalar value, got %s", bytes.TrimSpace(data))
	}
}

type extractionWire struct {
	PersonalInfo *struct {
		Name     looseText `json:"name"`
		Email    looseText `json:"email"`
		Phone    looseText `json:"phone"`
		Location looseText `json:"location"`
		LinkedIn looseText `json:"linkedin"`
		GitHub   looseText `json:"github"`
		Website  looseText `json:"website"`
	} `json:"personalInfo"`
	Experience []struct {
		Company     looseText `json:"company"`
		Position    looseText `json:"position"`
		StartDate   looseText `json:"startDate"`
		EndDate     looseText `json:"endDate"`
		Description looseList `json:"description"`
		Location    looseText `json:"location"`
		IsVolunteer *bool     `json:"isVolunteer"`
	} `json:"experience"`
	Education []struct {
		Institution    looseText `json:"institution"`
		Degree         looseText `json:"degree"`
		Field          looseText `json:"field"`
		GraduationDate looseText `json:"graduationDate"`
		GPA            looseText `json:"gpa"`
		Honors         looseList `json:"honors"`
	} `json:"education"`
	Skills   looseList `json:"skills"`
	Projects []struct {
		Name         looseText `json:"name"`
		Description  looseText `json:"description"`
		Technologies looseList `json:"technologies"`
		Highlights   looseList `json:"highlights"`
		Link         looseText `json:"link"`
	} `json:"projects"`
	Achievements     looseList `json:"achievements"`
	Extracurriculars looseList `json:"extracurriculars"`
}

func (w extractionWire) resume() *ExtractedResume {
	out := &ExtractedResume{
		Skills:           []string(w.Skills),
		Achievements:     []string(w.Achievements),
		Extracurriculars: []string(w.Extracurriculars),
	}
	if p := w.PersonalInfo; p != nil {
		out.PersonalInfo = &ExtractedPersonalInfo{
			Name:     string(p.Name),
			Email:    string(p.Email),
			Phone:    string(p.Phone),
			Location: string(p.Location),
			LinkedIn: string(p.LinkedIn),
			GitHub:   string(p.GitHub),
			Website:  string(p.Website),
		}
	}
	for _, e := range w.Experience {
		out.Experience = append(out.Experience, types.Experience{
			Company:     string(e.Company),
			Position:    string(e.Position),
			StartDate:   string(e.StartDate),
			EndDate:     string(e.EndDate),
			Description: []string(e.Description),
			Location:    string(e.Location),
			IsVolunteer: e.IsVolunteer != nil && *e.IsVolunteer,
		})
	}
	for _, e := range w.Education {
		out.Education = append(out.Education, types.Education{
			Institution:    string(e.Institution),
			Degree:         string(e.Degree),
			Field:          string(e.Field),
			GraduationDate: string(e.GraduationDate),
			GPA:            string(e.GPA),
			Honors:         []string(e.Honors),
		})
	}
	for _, p := range w.Projects {
		out.Projects = append(out.Projects, types.Project{
			Name:         string(p.Name),
			Description:  string(p.Description),
			Technologies: []string(p.Technologies),
			Highlights:   []string(p.Highlights),
			Link:         string(p.Link),
		})
	}
	return out
}
