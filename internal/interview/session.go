// Package interview implements the interview session state machine: it accepts
// answers, extracts facts from them, scores progress, and either asks the next
// question or finalizes the resume record.
package interview

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-interviewer/internal/llm"
	"github.com/jonathan/resume-interviewer/internal/logger"
	"github.com/jonathan/resume-interviewer/internal/types"
)

// State is a position in the interview state machine.
type State string

// Session states.
const (
	StateInit       State = "init"
	StateAsking     State = "asking"
	StateWaiting    State = "waiting_for_answer"
	StateExtracting State = "extracting"
	StateDeciding   State = "deciding"
	StateFinalizing State = "finalizing"
	StateDone       State = "done"
)

// Step is the wizard screen a host should show for a state.
type Step string

// Wizard steps.
const (
	StepSetup     Step = "setup"
	StepInterview Step = "interview"
	StepPreview   Step = "preview"
)

// Notices surfaced to the user after a recovered failure.
const (
	NoticeFallbackQuestion = "The assistant is unavailable right now, so here is a standard question instead."
	NoticeFinalizeFallback = "Could not process the full interview. Your resume was built from the answers collected so far."
)

// Snapshot is a read-only copy of the observable session state.
type Snapshot struct {
	ID         string           `json:"id"`
	State      State            `json:"state"`
	Step       Step             `json:"step"`
	Transcript []types.Turn     `json:"transcript"`
	Record     types.ResumeData `json:"record"`
	TurnCount  int              `json:"turnCount"`
	MaxTurns   int              `json:"maxTurns"`
	Progress   int              `json:"progress"`
	InFlight   bool             `json:"inFlight"`
	Partial    string           `json:"partial,omitempty"`
	Notice     string           `json:"notice,omitempty"`
	CanFinish  bool             `json:"canFinish"`
}

// Outcome is the result of an answer or an early finish.
type Outcome struct {
	// Question is the new assistant question; empty once the interview completed
	Question string `json:"question,omitempty"`
	// Fallback reports that Question is the deterministic fallback
	Fallback bool `json:"fallback,omitempty"`
	// Completed reports that the session reached Done
	Completed bool     `json:"completed"`
	Snapshot  Snapshot `json:"snapshot"`
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used for turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithID sets the session identifier instead of a random UUID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// Session is one interview. It is safe for concurrent use, but only one
// generation request runs at a time: calls made while a request is in flight
// fail with ErrBusy.
type Session struct {
	id        string
	client    llm.Client
	settings  Settings
	extractor *Extractor
	planner   QuestionPlanner
	estimator ProgressEstimator
	logger    *zap.Logger
	now       func() time.Time

	mu         sync.Mutex
	state      State
	record     types.ResumeData
	transcript []types.Turn
	turnCount  int
	progress   int
	inFlight   bool
	partial    string
	notice     string
	generation uint64 // bumped by Reset so late results are discarded
}

// New creates a session in the Init state.
func New(client llm.Client, settings Settings, opts ...Option) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:        uuid.NewString(),
		client:    client,
		settings:  settings,
		extractor: NewExtractor(settings.vocabulary()),
		planner: QuestionPlanner{
			MinSkills:    settings.MinSkills,
			HistoryTurns: settings.HistoryTurns,
			MaxTurns:     settings.MaxTurns,
		},
		estimator: ProgressEstimator{SectionCeiling: settings.SectionCeiling},
		logger:    zap.NewNop(),
		now:       time.Now,
		state:     StateInit,
		record:    types.NewResumeData(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session_id", s.id))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Begin seeds the record from the setup form and asks the welcome question.
func (s *Session) Begin(seed types.ResumeData) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInit {
		return Snapshot{}, ErrAlreadyStarted
	}

	s.record = seed.Clone()
	s.state = StateAsking
	s.appendTurn(types.RoleAssistant, WelcomeQuestion(s.record))
	s.turnCount++
	s.progress = s.estimate()
	s.state = StateWaiting

	s.logger.Info("interview started",
		zap.String("target_role", s.record.TargetRole),
		zap.Bool("high_school", s.record.IsHighSchoolStudent))
	return s.snapshotLocked(), nil
}

// Submit records an answer and moves the interview forward. onPartial, when
// set, receives the sanitized cumulative text of the streamed question after
// every chunk. Blank answers fail with a ValidationError and change nothing.
func (s *Session) Submit(ctx context.Context, text string, onPartial func(partial string)) (Outcome, error) {
	answer := strings.TrimSpace(text)
	if answer == "" {
		return Outcome{}, &ValidationError{Field: "answer", Message: "must not be empty"}
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	if s.state != StateWaiting {
		s.mu.Unlock()
		return Outcome{}, ErrNotWaiting
	}

	s.notice = ""
	s.appendTurn(types.RoleUser, answer)

	s.state = StateExtracting
	update := s.extractor.Extract(answer, s.record)
	Apply(&s.record, update)

	s.state = StateDeciding
	s.progress = s.estimate()
	finish := s.shouldFinalize()
	review := !finish && s.settings.ReviewAfterTurns > 0 && s.turnCount >= s.settings.ReviewAfterTurns

	s.logger.Debug("answer processed",
		zap.Int("turn", s.turnCount),
		zap.Int("progress", s.progress),
		zap.Strings("new_skills", update.Skills),
		zap.Int("new_achievements", len(update.Achievements)),
		zap.Bool("finalize", finish))

	if finish {
		return s.finalizeLocked(ctx)
	}

	s.inFlight = true
	gen := s.generation
	transcript := append([]types.Turn(nil), s.transcript...)
	s.mu.Unlock()

	if review && s.reviewSaysComplete(ctx, transcript) {
		s.mu.Lock()
		if s.generation != gen {
			s.mu.Unlock()
			return Outcome{}, ErrReset
		}
		s.inFlight = false
		return s.finalizeLocked(ctx)
	}

	return s.ask(ctx, gen, onPartial)
}

// Finish ends the interview early through the same finalization path.
func (s *Session) Finish(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	if s.state != StateWaiting {
		s.mu.Unlock()
		return Outcome{}, ErrNotWaiting
	}
	s.logger.Info("interview finished early", zap.Int("turn", s.turnCount))
	return s.finalizeLocked(ctx)
}

// Reset discards the transcript and record and returns the session to Init.
// It is accepted in every state; a request still in flight is discarded
// when it returns.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = StateInit
	s.record = types.NewResumeData()
	s.transcript = nil
	s.turnCount = 0
	s.progress = 0
	s.inFlight = false
	s.partial = ""
	s.notice = ""

	s.logger.Info("interview reset")
}

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ask streams the next question. It is called without the lock, with the
// in-flight flag set.
func (s *Session) ask(ctx context.Context, gen uint64, onPartial func(string)) (Outcome, error) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return Outcome{}, ErrReset
	}
	s.state = StateAsking
	plan := s.planner.PlanNext(s.record, s.transcript, s.turnCount)
	s.mu.Unlock()

	var raw strings.Builder
	last := ""
	full, err := s.client.StreamContent(ctx, plan.Request, func(chunk string) {
		raw.WriteString(chunk)
		clean := strings.TrimSpace(llm.SanitizePartialReasoning(raw.String()))
		if clean == last {
			return
		}
		last = clean

		s.mu.Lock()
		current := s.generation == gen
		if current {
			s.partial = clean
		}
		s.mu.Unlock()

		if current && onPartial != nil {
			onPartial(clean)
		}
	})

	question := strings.TrimSpace(llm.SanitizeReasoning(full))
	fallback := err != nil || question == ""
	if fallback {
		s.logger.Warn("question generation failed, using fallback",
			zap.String("focus", string(plan.Focus)),
			zap.String("response", logger.TruncateForLog(full, 200)),
			zap.Error(err))
		question = plan.Fallback
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return Outcome{}, ErrReset
	}

	s.appendTurn(types.RoleAssistant, question)
	s.turnCount++
	s.progress = s.estimate()
	s.partial = ""
	s.inFlight = false
	s.state = StateWaiting
	if fallback {
		s.notice = NoticeFallbackQuestion
	}

	s.logger.Debug("question asked",
		zap.Int("turn", s.turnCount),
		zap.String("focus", string(plan.Focus)),
		zap.Bool("fallback", fallback))

	return Outcome{Question: question, Fallback: fallback, Snapshot: s.snapshotLocked()}, nil
}

// reviewSaysComplete runs the completion review. Failures mean continue.
func (s *Session) reviewSaysComplete(ctx context.Context, transcript []types.Turn) bool {
	reply, err := s.client.GenerateContent(ctx, ReviewRequest(transcript))
	if err != nil {
		s.logger.Warn("completion review failed, continuing", zap.Error(err))
		return false
	}
	complete := ReviewComplete(reply)
	s.logger.Debug("completion review", zap.String("reply", logger.TruncateForLog(reply, 50)), zap.Bool("complete", complete))
	return complete
}

// finalizeLocked runs finalization. It must be called with the lock held and
// releases it: the lock is dropped around the extraction request.
func (s *Session) finalizeLocked(ctx context.Context) (Outcome, error) {
	s.state = StateFinalizing
	s.inFlight = true
	gen := s.generation
	request := FinalizeRequest(s.record, s.transcript)
	s.mu.Unlock()

	response, err := s.client.GenerateContent(ctx, request)
	var extracted *ExtractedResume
	if err == nil {
		extracted, err = ParseExtraction(response)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return Outcome{}, ErrReset
	}

	if err != nil {
		s.logger.Warn("finalization failed, keeping collected record",
			zap.String("response", logger.TruncateForLog(response, 200)),
			zap.Error(err))
		s.notice = NoticeFinalizeFallback
	} else {
		s.record = MergeExtracted(s.record, extracted)
	}

	s.progress = s.estimate()
	s.inFlight = false
	s.state = StateDone

	s.logger.Info("interview completed",
		zap.Int("turns", s.turnCount),
		zap.Int("progress", s.progress),
		zap.Bool("extracted", err == nil))

	return Outcome{Completed: true, Snapshot: s.snapshotLocked()}, nil
}

// shouldFinalize is the termination predicate.
func (s *Session) shouldFinalize() bool {
	if s.turnCount >= s.settings.MaxTurns {
		return true
	}
	minimumData := len(s.record.Experience) > 0 || len(s.record.Skills) >= s.settings.MinSkills
	return s.progress >= s.settings.CompletionThreshold && minimumData
}

func (s *Session) estimate() int {
	return s.estimator.Estimate(s.record, s.turnCount, s.settings.MaxTurns)
}

func (s *Session) appendTurn(role types.Role, content string) {
	s.transcript = append(s.transcript, types.Turn{Role: role, Content: content, Timestamp: s.now()})
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:         s.id,
		State:      s.state,
		Step:       stepFor(s.state),
		Transcript: append([]types.Turn{}, s.transcript...),
		Record:     s.record.Clone(),
		TurnCount:  s.turnCount,
		MaxTurns:   s.settings.MaxTurns,
		Progress:   s.progress,
		InFlight:   s.inFlight,
		Partial:    s.partial,
		Notice:     s.notice,
		CanFinish:  s.state == StateWaiting && !s.inFlight && s.turnCount >= s.settings.EarlyFinishAfter,
	}
}

func stepFor(state State) Step {
	switch state {
	case StateInit:
		return StepSetup
	case StateDone:
		return StepPreview
	default:
		return StepInterview
	}
}
