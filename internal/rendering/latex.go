package rendering

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/resume-interviewer/internal/types"
)

// LaTeX templates use << >> delimiters so LaTeX braces never collide with actions.
const (
	latexLeftDelim  = "<<"
	latexRightDelim = ">>"
)

var latexFuncs = template.FuncMap{
	"escape": EscapeLaTeX,
	"join": func(items []string) string {
		escaped := make([]string, len(items))
		for i, item := range items {
			escaped[i] = EscapeLaTeX(item)
		}
		return strings.Join(escaped, ", ")
	},
}

// RenderLaTeX renders a record as a LaTeX document. An empty templatePath
// uses the built-in template.
func RenderLaTeX(record types.ResumeData, templatePath string) (string, error) {
	tmpl, err := parseLaTeXTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, buildView(record, time.Now())); err != nil {
		return "", &TemplateError{
			Format:  FormatLaTeX,
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// parseLaTeXTemplate reads and parses a LaTeX template file, or the built-in one
func parseLaTeXTemplate(templatePath string) (*template.Template, error) {
	content, err := readTemplate(FormatLaTeX, templatePath, "templates/resume.tex.tmpl")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("resume.tex").
		Delims(latexLeftDelim, latexRightDelim).
		Funcs(latexFuncs).
		Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Format:  FormatLaTeX,
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

func readTemplate(format Format, templatePath, builtin string) (string, error) {
	if templatePath == "" {
		content, err := builtinTemplates.ReadFile(builtin)
		if err != nil {
			return "", &TemplateError{Format: format, Message: "built-in template missing", Cause: err}
		}
		return string(content), nil
	}

	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &TemplateError{
				Format:  format,
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return "", &TemplateError{
			Format:  format,
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	return string(content), nil
}
