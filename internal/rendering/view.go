package rendering

import (
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-interviewer/internal/types"
)

// Format is an output document format.
type Format string

// Supported formats.
const (
	FormatHTML  Format = "html"
	FormatLaTeX Format = "latex"
	FormatJSON  Format = "json"
)

// ParseFormat maps a format name or file extension onto a Format.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "html", "htm":
		return FormatHTML, true
	case "latex", "tex":
		return FormatLaTeX, true
	case "json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// view is the template-facing shape of a record. Strings are raw; each
// template escapes for its own format.
type view struct {
	Name       string
	TargetRole string
	Style      string
	Contact    []string
	Links      []string
	School     string // high school line, e.g. "11th grade, Lincoln High, class of 2026"

	Experience    []entryView
	Volunteer     []entryView
	Education     []educationView
	Skills        []string
	Projects      []types.Project
	Achievements  []string
	Activities    []string
	IsHighSchool  bool
	GeneratedDate string
}

type entryView struct {
	Title    string // position, or company when no position is known
	Subtitle string
	Dates    string
	Location string
	Bullets  []string
}

type educationView struct {
	Institution string
	Degree      string
	Date        string
	GPA         string
	Honors      []string
}

func buildView(record types.ResumeData, now time.Time) view {
	info := record.PersonalInfo
	v := view{
		Name:          valueOr(info.Name, "Your Name"),
		TargetRole:    record.TargetRole,
		Style:         valueOr(record.Style, "professional"),
		Contact:       nonEmpty(info.Email, info.Phone, info.Location),
		Links:         nonEmpty(info.LinkedIn, info.GitHub, info.Website),
		Experience:    entries(record.Experience),
		Volunteer:     entries(record.VolunteerWork),
		Skills:        record.Skills,
		Projects:      record.Projects,
		Achievements:  record.Achievements,
		Activities:    record.Extracurriculars,
		IsHighSchool:  record.IsHighSchoolStudent,
		GeneratedDate: now.Format("January 2006"),
	}

	if record.IsHighSchoolStudent {
		parts := nonEmpty(info.Grade, info.School)
		if info.GraduationYear != "" {
			parts = append(parts, "class of "+info.GraduationYear)
		}
		v.School = strings.Join(parts, ", ")
	}

	for _, edu := range record.Education {
		degree := strings.TrimSpace(strings.Join(nonEmpty(edu.Degree, edu.Field), ", "))
		v.Education = append(v.Education, educationView{
			Institution: edu.Institution,
			Degree:      degree,
			Date:        formatDate(edu.GraduationDate),
			GPA:         edu.GPA,
			Honors:      edu.Honors,
		})
	}

	return v
}

// entries formats experience entries, most recent first. An entry ending
// "present" (or with no end date) sorts ahead of dated ones.
func entries(experience []types.Experience) []entryView {
	sorted := append([]types.Experience(nil), experience...)
	sort.SliceStable(sorted, func(i, j int) bool {
		endI, endJ := sortableEnd(sorted[i].EndDate), sortableEnd(sorted[j].EndDate)
		return endI > endJ
	})

	out := make([]entryView, 0, len(sorted))
	for _, exp := range sorted {
		title, subtitle := exp.Position, exp.Company
		if title == "" {
			title, subtitle = exp.Company, ""
		}
		out = append(out, entryView{
			Title:    title,
			Subtitle: subtitle,
			Dates:    dateRange(exp.StartDate, exp.EndDate),
			Location: exp.Location,
			Bullets:  exp.Description,
		})
	}
	return out
}

func sortableEnd(end string) string {
	end = strings.TrimSpace(end)
	if end == "" || strings.EqualFold(end, "present") {
		return "9999"
	}
	return end
}

func dateRange(start, end string) string {
	start, end = formatDate(start), formatDate(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}

var dateLayouts = []string{"2006-01-02", "2006-01", "01/2006", "2006/01"}

// formatDate renders "2020-01" as "Jan 2020" and "present" as "Present".
// Anything it cannot parse is returned trimmed but unchanged.
func formatDate(date string) string {
	date = strings.TrimSpace(date)
	if strings.EqualFold(date, "present") {
		return "Present"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return date
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
