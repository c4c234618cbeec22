package rendering

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-interviewer/internal/types"
)

func sampleRecord() types.ResumeData {
	record := types.NewResumeData()
	record.PersonalInfo = types.PersonalInfo{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Phone:    "555-0100",
		LinkedIn: "linkedin.com/in/ada",
	}
	record.Style = "modern"
	record.TargetRole = "R&D Engineer"
	record.Experience = []types.Experience{
		{Company: "Babbage & Co", Position: "Analyst", StartDate: "2018-03", EndDate: "2020-01", Description: []string{"Cut costs by 40% & more"}},
		{Company: "Acme Corp", Position: "Backend Engineer", StartDate: "2020-02", EndDate: "present", Description: []string{"Built <fast> APIs"}},
	}
	record.Education = []types.Education{{Institution: "State U", Degree: "BS", Field: "Mathematics", GraduationDate: "2017-05", GPA: "3.9"}}
	record.Skills = []string{"python", "c#", "sql"}
	record.Projects = []types.Project{{Name: "Engine", Description: "A difference engine", Technologies: []string{"Go"}, Highlights: []string{"1_000 users"}, Link: "https://example.com/engine"}}
	record.Achievements = []string{"Increased throughput by 40%"}
	return record
}

func TestRenderLaTeX(t *testing.T) {
	out, err := RenderLaTeX(sampleRecord(), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `\documentclass`))
	assert.Contains(t, out, `\end{document}`)
	assert.Contains(t, out, `Ada Lovelace`)
	assert.Contains(t, out, `R\&D Engineer`)
	assert.Contains(t, out, `Cut costs by 40\% \& more`)
	assert.Contains(t, out, `python, c\#, sql`)
	assert.Contains(t, out, `1\_000 users`)
	assert.Contains(t, out, `Feb 2020 - Present`)
	assert.NotContains(t, out, "<<")
	assert.NotContains(t, out, "40% &")

	// most recent first
	assert.Less(t, strings.Index(out, "Acme Corp"), strings.Index(out, `Babbage \& Co`))
}

func TestRenderLaTeX_SkipsEmptySections(t *testing.T) {
	record := types.NewResumeData()
	record.PersonalInfo.Name = "Sam"

	out, err := RenderLaTeX(record, "")
	require.NoError(t, err)
	assert.NotContains(t, out, `\section*{Experience}`)
	assert.NotContains(t, out, `\section*{Skills}`)
	assert.NotContains(t, out, `\begin{itemize}`)
}

func TestRenderLaTeX_CustomTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.tex")
	require.NoError(t, os.WriteFile(path, []byte(`\name{<< escape .Name >>}`), 0o644))

	out, err := RenderLaTeX(sampleRecord(), path)
	require.NoError(t, err)
	assert.Equal(t, `\name{Ada Lovelace}`, out)
}

func TestRenderLaTeX_TemplateErrors(t *testing.T) {
	_, err := RenderLaTeX(sampleRecord(), "/nonexistent/template.tex")
	var templateErr *TemplateError
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "template file not found")

	path := filepath.Join(t.TempDir(), "invalid.tex")
	require.NoError(t, os.WriteFile(path, []byte(`<< .Name <<`), 0o644))
	_, err = RenderLaTeX(sampleRecord(), path)
	require.ErrorAs(t, err, &templateErr)
	assert.Equal(t, FormatLaTeX, templateErr.Format)
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(sampleRecord(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Ada Lovelace</h1>")
	assert.Contains(t, out, `class="style-modern"`)
	assert.Contains(t, out, "R&amp;D Engineer")
	assert.Contains(t, out, "Built &lt;fast&gt; APIs")
	assert.NotContains(t, out, "<fast>")
	assert.Contains(t, out, `href="https://example.com/engine"`)
	assert.Contains(t, out, "Mar 2018 - Jan 2020")
	assert.Contains(t, out, "ada@example.com | 555-0100")
}

func TestRenderHTML_UnsafeLink(t *testing.T) {
	record := sampleRecord()
	record.Projects[0].Link = "javascript:alert(1)"

	out, err := RenderHTML(record, "")
	require.NoError(t, err)
	assert.NotContains(t, out, "javascript:alert")
}

func TestRenderHTML_HighSchool(t *testing.T) {
	record := types.NewResumeData()
	record.IsHighSchoolStudent = true
	record.PersonalInfo = types.PersonalInfo{Name: "Sam", Grade: "11th", School: "Lincoln High", GraduationYear: "2026"}
	record.Extracurriculars = []string{"Robotics club"}

	out, err := RenderHTML(record, "")
	require.NoError(t, err)
	assert.Contains(t, out, "11th, Lincoln High, class of 2026")
	assert.Contains(t, out, "<li>Robotics club</li>")
}

func TestRender_JSON(t *testing.T) {
	out, err := Render(FormatJSON, sampleRecord())
	require.NoError(t, err)

	var decoded types.ResumeData
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, sampleRecord(), decoded)
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := Render(Format("docx"), sampleRecord())
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"html": FormatHTML, ".htm": FormatHTML, "TEX": FormatLaTeX, "latex": FormatLaTeX, "json": FormatJSON}
	for in, want := range tests {
		got, ok := ParseFormat(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseFormat("pdf")
	assert.False(t, ok)

	assert.Equal(t, ".tex", Extension(FormatLaTeX))
	assert.Equal(t, ".html", Extension(FormatHTML))
}

func TestFormatDate(t *testing.T) {
	tests := map[string]string{
		"2020-01":    "Jan 2020",
		"2020-01-15": "Jan 2020",
		"03/2019":    "Mar 2019",
		"present":    "Present",
		" Present ":  "Present",
		"Summer '21": "Summer '21",
		"":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatDate(in), in)
	}
}

func TestBuildView(t *testing.T) {
	v := buildView(types.NewResumeData(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Your Name", v.Name)
	assert.Equal(t, "professional", v.Style)
	assert.Equal(t, "March 2024", v.GeneratedDate)
	assert.Empty(t, v.Experience)
}
