package rendering

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/jonathan/resume-interviewer/internal/types"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

var htmlFuncs = template.FuncMap{
	"join": func(items []string) string {
		return strings.Join(items, " | ")
	},
}

// RenderHTML renders a record as a standalone, printable HTML page. An empty
// templatePath uses the built-in template.
func RenderHTML(record types.ResumeData, templatePath string) (string, error) {
	content, err := readTemplate(FormatHTML, templatePath, "templates/resume.html.tmpl")
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("resume.html").Funcs(htmlFuncs).Parse(content)
	if err != nil {
		return "", &TemplateError{Format: FormatHTML, Message: "failed to parse template", Cause: err}
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, buildView(record, time.Now())); err != nil {
		return "", &TemplateError{Format: FormatHTML, Message: "failed to execute template", Cause: err}
	}
	return result.String(), nil
}
