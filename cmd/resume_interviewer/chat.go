package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-interviewer/internal/interview"
	"github.com/jonathan/resume-interviewer/internal/llm"
	"github.com/jonathan/resume-interviewer/internal/observability"
	"github.com/jonathan/resume-interviewer/internal/types"
)

// Chat commands typed at the answer prompt.
const (
	CommandFinish = "/finish"
	CommandReset  = "/reset"
	CommandQuit   = "/quit"
	CommandHelp   = "/help"
)

var errQuit = errors.New("interview abandoned")

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interview in the terminal",
	Long:  "Asks the setup questions, then interviews you one question at a time and saves the finished resume.",
	RunE:  runChat,
}

var (
	chatOutFile      string
	chatFormat       string
	chatSetupFile    string
	chatTemplateFile string
)

func init() {
	chatCmd.Flags().StringVarP(&chatOutFile, "out", "o", "resume.html", "Path to output file")
	chatCmd.Flags().StringVarP(&chatFormat, "format", "f", "", "Output format: html, latex or json (default from --out extension)")
	chatCmd.Flags().StringVarP(&chatSetupFile, "setup", "s", "", "Setup form as a JSON file instead of interactive prompts")
	chatCmd.Flags().StringVarP(&chatTemplateFile, "template", "t", "", "Custom HTML or LaTeX template (default built-in)")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat(chatFormat, chatOutFile)
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := llm.NewClient(ctx, cfg.LLMClientConfig(), cfg.LLM.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	session, err := interview.New(client, cfg.Interview, interview.WithLogger(appLogger))
	if err != nil {
		return err
	}

	setup := promptSetup
	if chatSetupFile != "" {
		setup = func() (*types.SetupRequest, error) { return loadSetup(chatSetupFile) }
	}

	out := cmd.OutOrStdout()
	c := newChat(cmd.InOrStdin(), out, setup)
	record, err := c.run(ctx, session)
	if err != nil {
		return err
	}

	appLogger.Info("interview saved", zap.String("session_id", session.ID()), zap.String("path", chatOutFile))
	return writeRecord(out, chatOutFile, format, record, chatTemplateFile)
}

// chat drives one session from a line-oriented terminal.
type chat struct {
	in      *bufio.Scanner
	out     io.Writer
	printer *observability.Printer
	setup   func() (*types.SetupRequest, error)

	assistant *color.Color
	hint      *color.Color
	warn      *color.Color
}

func newChat(in io.Reader, out io.Writer, setup func() (*types.SetupRequest, error)) *chat {
	return &chat{
		in:        bufio.NewScanner(in),
		out:       out,
		printer:   observability.NewPrinter(out),
		setup:     setup,
		assistant: color.New(color.FgCyan),
		hint:      color.New(color.FgHiBlack),
		warn:      color.New(color.FgYellow),
	}
}

// run conducts the interview until it is done and returns the final record.
// End of input finishes the interview with what was collected.
func (c *chat) run(ctx context.Context, session *interview.Session) (types.ResumeData, error) {
	if err := c.begin(session); err != nil {
		return types.ResumeData{}, err
	}
	c.hint.Fprintf(c.out, "Type %s to wrap up early, %s to start over, %s to leave.\n\n", CommandFinish, CommandReset, CommandQuit)

	for {
		snapshot := session.Snapshot()
		if snapshot.State == interview.StateDone {
			fmt.Fprintln(c.out)
			c.printer.PrintNotice(snapshot.Notice)
			c.printer.PrintResumeSummary(snapshot.Record)
			return snapshot.Record, nil
		}

		c.printer.PrintProgress(snapshot.TurnCount, snapshot.MaxTurns, snapshot.Progress)
		fmt.Fprint(c.out, "> ")

		line, ok := c.readLine()
		if !ok {
			if err := c.finish(ctx, session); err != nil {
				return types.ResumeData{}, err
			}
			continue
		}

		var err error
		switch strings.ToLower(line) {
		case CommandFinish:
			err = c.finish(ctx, session)
		case CommandReset:
			session.Reset()
			err = c.begin(session)
		case CommandQuit:
			return types.ResumeData{}, errQuit
		case CommandHelp:
			c.hint.Fprintf(c.out, "%s  finish now\n%s   start over\n%s    leave without saving\n", CommandFinish, CommandReset, CommandQuit)
		default:
			err = c.answer(ctx, session, line)
		}
		if err != nil {
			return types.ResumeData{}, err
		}
	}
}

func (c *chat) begin(session *interview.Session) error {
	setup, err := c.setup()
	if err != nil {
		return err
	}
	snapshot, err := session.Begin(setup.ToResumeData())
	if err != nil {
		return err
	}
	c.say(snapshot.Transcript[len(snapshot.Transcript)-1].Content)
	return nil
}

// answer submits a line and prints the next question as it streams.
func (c *chat) answer(ctx context.Context, session *interview.Session, line string) error {
	printed := ""
	outcome, err := session.Submit(ctx, line, func(partial string) {
		if printed == "" {
			fmt.Fprintln(c.out)
		}
		if strings.HasPrefix(partial, printed) {
			c.assistant.Fprint(c.out, partial[len(printed):])
		} else {
			c.assistant.Fprint(c.out, "\n"+partial)
		}
		printed = partial
	})

	var validationErr *interview.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.warn.Fprintln(c.out, "Please type an answer, or /help for commands.")
		return nil
	case err != nil:
		return err
	}

	if outcome.Completed {
		return nil
	}
	if printed == "" || printed != outcome.Question {
		if printed != "" {
			fmt.Fprintln(c.out)
		}
		c.say(outcome.Question)
	} else {
		fmt.Fprint(c.out, "\n\n")
	}
	if outcome.Snapshot.Notice != "" {
		c.warn.Fprintln(c.out, outcome.Snapshot.Notice)
	}
	return nil
}

func (c *chat) finish(ctx context.Context, session *interview.Session) error {
	c.hint.Fprintln(c.out, "\nPutting your resume together...")
	_, err := session.Finish(ctx)
	return err
}

func (c *chat) say(text string) {
	fmt.Fprintln(c.out)
	c.assistant.Fprintln(c.out, text)
	fmt.Fprintln(c.out)
}

func (c *chat) readLine() (string, bool) {
	for c.in.Scan() {
		if line := strings.TrimSpace(c.in.Text()); line != "" {
			return line, true
		}
	}
	return "", false
}

// loadSetup reads and validates a setup form from a JSON file.
func loadSetup(path string) (*types.SetupRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read setup file: %w", err)
	}
	var setup types.SetupRequest
	if err := json.Unmarshal(data, &setup); err != nil {
		return nil, fmt.Errorf("failed to parse setup JSON: %w", err)
	}
	if err := setup.Validate(); err != nil {
		return nil, setupError(err)
	}
	return &setup, nil
}

// setupError lists validation failures one field per clause, sorted by field.
func setupError(err error) error {
	fields := types.FieldErrors(err)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + fields[name]
	}
	return fmt.Errorf("invalid setup: %s", strings.Join(parts, "; "))
}

// Labels for the student type choice.
const (
	choiceHighSchool   = "High school student"
	choiceProfessional = "College student or professional"
)

// promptSetup collects the setup form interactively.
func promptSetup() (*types.SetupRequest, error) {
	var setup types.SetupRequest
	var err error

	required := func(input string) error {
		if strings.TrimSpace(input) == "" {
			return errors.New("required")
		}
		return nil
	}

	if setup.Name, err = (&promptui.Prompt{Label: "Full name", Validate: required}).Run(); err != nil {
		return nil, err
	}
	if setup.Email, err = (&promptui.Prompt{Label: "Email", Validate: required}).Run(); err != nil {
		return nil, err
	}
	if setup.Phone, err = (&promptui.Prompt{Label: "Phone (optional)"}).Run(); err != nil {
		return nil, err
	}
	if setup.Location, err = (&promptui.Prompt{Label: "Location (optional)"}).Run(); err != nil {
		return nil, err
	}

	_, kind, err := (&promptui.Select{Label: "Which describes you?", Items: []string{choiceProfessional, choiceHighSchool}}).Run()
	if err != nil {
		return nil, err
	}

	if kind == choiceHighSchool {
		setup.StudentType = types.StudentTypeHighSchool
		if _, setup.Grade, err = (&promptui.Select{Label: "Grade", Items: []string{"9th", "10th", "11th", "12th"}}).Run(); err != nil {
			return nil, err
		}
		if setup.School, err = (&promptui.Prompt{Label: "School", Validate: required}).Run(); err != nil {
			return nil, err
		}
		if setup.GraduationYear, err = (&promptui.Prompt{Label: "Graduation year", Validate: required}).Run(); err != nil {
			return nil, err
		}
	} else {
		setup.StudentType = types.StudentTypeProfessional
		if _, setup.Age, err = (&promptui.Select{Label: "Age range", Items: types.AgeRanges}).Run(); err != nil {
			return nil, err
		}
	}

	if _, setup.Style, err = (&promptui.Select{Label: "Resume style", Items: types.ResumeStyles}).Run(); err != nil {
		return nil, err
	}
	if setup.TargetRole, err = (&promptui.Prompt{Label: "Target role", Validate: required}).Run(); err != nil {
		return nil, err
	}

	if err := setup.Validate(); err != nil {
		return nil, setupError(err)
	}
	return &setup, nil
}
