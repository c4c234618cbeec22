package rendering

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-interviewer/internal/types"
)

// Render renders a record in the requested format with the built-in templates.
func Render(format Format, record types.ResumeData) ([]byte, error) {
	switch format {
	case FormatHTML:
		out, err := RenderHTML(record, "")
		return []byte(out), err
	case FormatLaTeX:
		out, err := RenderLaTeX(record, "")
		return []byte(out), err
	case FormatJSON:
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return nil, &RenderError{Message: "failed to encode record", Cause: err}
		}
		return append(out, '\n'), nil
	default:
		return nil, &RenderError{Message: fmt.Sprintf("unsupported format %q", format)}
	}
}

// ContentType returns the MIME type served for a format.
func ContentType(format Format) string {
	switch format {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatLaTeX:
		return "application/x-tex; charset=utf-8"
	default:
		return "application/json"
	}
}

// Extension returns the file extension written for a format.
func Extension(format Format) string {
	if format == FormatLaTeX {
		return ".tex"
	}
	return "." + string(format)
}
