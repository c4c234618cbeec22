// Package observability provides formatted terminal summaries for the chat command.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-interviewer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the number of cells in a progress bar
	barWidth = 20
)

// Printer handles formatted output for the interactive interview
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// ProgressBar renders a percentage as a fixed-width bar, e.g. "[#####-----] 50%".
func ProgressBar(progress int) string {
	progress = max(0, min(progress, 100))
	filled := progress * barWidth / 100
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled), progress)
}

// PrintProgress prints a one-line interview status.
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) PrintProgress(turn, maxTurns, progress int) {
	fmt.Fprintf(p.out, "Question %d of %d  %s\n", turn, maxTurns, ProgressBar(progress))
}

// PrintResumeSummary outputs a human-readable summary of the collected record.
func (p *Printer) PrintResumeSummary(record types.ResumeData) {
	var sb strings.Builder

	info := record.PersonalInfo
	sb.WriteString(fmt.Sprintf("Name:     %s\n", valueOr(info.Name, "(not set)")))
	if record.TargetRole != "" {
		sb.WriteString(fmt.Sprintf("Role:     %s\n", record.TargetRole))
	}
	if contact := joinNonEmpty(info.Email, info.Phone, info.Location); contact != "" {
		sb.WriteString(fmt.Sprintf("Contact:  %s\n", contact))
	}
	if record.IsHighSchoolStudent && info.School != "" {
		sb.WriteString(fmt.Sprintf("School:   %s\n", joinNonEmpty(info.School, info.Grade, info.GraduationYear)))
	}

	if len(record.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		items := make([]string, len(record.Experience))
		for i, exp := range record.Experience {
			items[i] = joinNonEmpty(exp.Position, exp.Company)
		}
		writeList(&sb, items)
	}

	if len(record.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		items := make([]string, len(record.Education))
		for i, edu := range record.Education {
			items[i] = joinNonEmpty(edu.Degree, edu.Institution)
		}
		writeList(&sb, items)
	}

	if len(record.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkills:   %s\n", strings.Join(record.Skills, ", ")))
	}

	if len(record.Projects) > 0 {
		sb.WriteString("\nProjects:\n")
		items := make([]string, len(record.Projects))
		for i, project := range record.Projects {
			items[i] = project.Name
		}
		writeList(&sb, items)
	}

	if len(record.Achievements) > 0 {
		sb.WriteString("\nAchievements:\n")
		writeList(&sb, record.Achievements)
	}

	if len(record.Extracurriculars) > 0 {
		sb.WriteString("\nActivities:\n")
		writeList(&sb, record.Extracurriculars)
	}

	p.printBox("RESUME SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNotice prints a transient notice in a box.
func (p *Printer) PrintNotice(notice string) {
	if notice == "" {
		return
	}
	p.printBox("NOTICE", wrap(notice, boxWidth-4))
}

func writeList(sb *strings.Builder, items []string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(values ...string) string {
	var parts []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
