package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-interviewer/internal/rendering"
	"github.com/jonathan/resume-interviewer/internal/schemas"
	"github.com/jonathan/resume-interviewer/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a saved resume JSON file",
	Long:  "Validates a resume record saved by chat --format json or GET /sessions/{id}/resume.json and renders it as HTML, LaTeX or JSON.",
	RunE:  runRender,
}

var (
	renderInFile       string
	renderOutFile      string
	renderFormat       string
	renderTemplateFile string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInFile, "in", "i", "", "Path to resume JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "Path to output file (default stdout)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: html, latex or json (default from --out extension, else html)")
	renderCmd.Flags().StringVarP(&renderTemplateFile, "template", "t", "", "Custom HTML or LaTeX template (default built-in)")
	_ = renderCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat(renderFormat, renderOutFile)
	if err != nil {
		return err
	}

	record, err := loadResume(renderInFile)
	if err != nil {
		return err
	}

	out, err := renderRecord(format, record, renderTemplateFile)
	if err != nil {
		return err
	}

	if renderOutFile == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(renderOutFile, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	appLogger.Info("resume rendered", zap.String("format", string(format)), zap.String("path", renderOutFile))
	return nil
}

// loadResume reads and schema-validates a saved resume record.
func loadResume(path string) (types.ResumeData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := schemas.ValidateResume(string(data)); err != nil {
		return types.ResumeData{}, fmt.Errorf("invalid resume file %s: %w", path, err)
	}

	var record types.ResumeData
	if err := json.Unmarshal(data, &record); err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	return record, nil
}

// renderRecord renders with templatePath when set, otherwise the built-in template.
func renderRecord(format rendering.Format, record types.ResumeData, templatePath string) ([]byte, error) {
	if templatePath == "" {
		return rendering.Render(format, record)
	}
	switch format {
	case rendering.FormatHTML:
		out, err := rendering.RenderHTML(record, templatePath)
		return []byte(out), err
	case rendering.FormatLaTeX:
		out, err := rendering.RenderLaTeX(record, templatePath)
		return []byte(out), err
	default:
		return nil, fmt.Errorf("--template is not supported for %s output", format)
	}
}

// resolveFormat picks the output format from the flag, then the output
// file's extension, then HTML.
func resolveFormat(flag, outPath string) (rendering.Format, error) {
	if flag != "" {
		format, ok := rendering.ParseFormat(flag)
		if !ok {
			return "", fmt.Errorf("unknown format %q: use html, latex or json", flag)
		}
		return format, nil
	}
	if ext := filepath.Ext(outPath); ext != "" {
		if format, ok := rendering.ParseFormat(ext); ok {
			return format, nil
		}
	}
	return rendering.FormatHTML, nil
}

// writeRecord renders a record and writes it to path.
func writeRecord(w io.Writer, path string, format rendering.Format, record types.ResumeData, templatePath string) error {
	out, err := renderRecord(format, record, templatePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(w, "Saved %s resume to %s\n", format, path)
	return nil
}
