package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-interviewer/internal/interview"
	"github.com/jonathan/resume-interviewer/internal/rendering"
	"github.com/jonathan/resume-interviewer/internal/types"
)

// maxBodyBytes bounds request bodies; answers are short free text.
const maxBodyBytes = 64 << 10

// AnswerRequest is the body of POST /sessions/{id}/answers
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// handleCreateSession validates the setup form, creates a session and asks
// the welcome question.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	setup, ok := s.decodeSetup(w, r)
	if !ok {
		return
	}

	session, err := interview.New(s.client, s.settings, interview.WithLogger(s.logger))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	snapshot, err := session.Begin(setup.ToResumeData())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.sessions.Save(session)

	s.logger.Info("session created", zap.String("session_id", session.ID()))
	s.jsonResponse(w, http.StatusCreated, snapshot)
}

// handleBegin re-runs the setup form on a session that was reset.
func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	setup, ok := s.decodeSetup(w, r)
	if !ok {
		return
	}

	snapshot, err := session.Begin(setup.ToResumeData())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snapshot)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.sessions.Delete(id) {
		s.errorResponse(w, ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAnswer submits an answer. Clients that accept text/event-stream get
// the question as it streams: partial events, then one turn or complete
// event. Everyone else gets the outcome as JSON.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	if !wantsEventStream(r) {
		outcome, err := session.Submit(r.Context(), req.Answer, nil)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, outcome)
		return
	}

	// Reject up front so a stream is only opened for a request that will run.
	if err := precheckAnswer(session.Snapshot(), req.Answer); err != nil {
		s.errorResponse(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	outcome, err := session.Submit(r.Context(), req.Answer, func(partial string) {
		if err := sse.WriteEvent(EventPartial, map[string]string{"text": partial}); err != nil {
			s.logger.Debug("writing partial event", zap.Error(err))
		}
	})
	if err != nil {
		sse.WriteError(err)
		return
	}

	event := EventTurn
	if outcome.Completed {
		event = EventComplete
	}
	if err := sse.WriteEvent(event, outcome); err != nil {
		s.logger.Warn("writing SSE event", zap.String("event", event), zap.Error(err))
	}
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	outcome, err := session.Finish(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, outcome)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}
	session.Reset()
	s.jsonResponse(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleResumeHTML(w http.ResponseWriter, r *http.Request) {
	s.renderResume(w, r, rendering.FormatHTML)
}

func (s *Server) handleResumeLaTeX(w http.ResponseWriter, r *http.Request) {
	s.renderResume(w, r, rendering.FormatLaTeX)
}

func (s *Server) handleResumeJSON(w http.ResponseWriter, r *http.Request) {
	s.renderResume(w, r, rendering.FormatJSON)
}

// renderResume renders the session's current record. It works in any state
// so hosts can preview a partial record.
func (s *Server) renderResume(w http.ResponseWriter, r *http.Request, format rendering.Format) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	out, err := rendering.Render(format, session.Snapshot().Record)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", rendering.ContentType(format))
	if format == rendering.FormatLaTeX {
		w.Header().Set("Content-Disposition", `attachment; filename="resume.tex"`)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.Debug("writing resume", zap.Error(err))
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*interview.Session, bool) {
	session, found := s.sessions.Get(r.PathValue("id"))
	if !found {
		s.errorResponse(w, ErrSessionNotFound)
		return nil, false
	}
	return session, true
}

// decodeSetup decodes and validates the setup form, writing a field-by-field
// 400 response when it is invalid.
func (s *Server) decodeSetup(w http.ResponseWriter, r *http.Request) (*types.SetupRequest, bool) {
	var setup types.SetupRequest
	if err := decodeJSON(r, &setup); err != nil {
		s.errorResponse(w, err)
		return nil, false
	}
	if err := setup.Validate(); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, errorBody{
			Error:   "invalid_request",
			Message: "setup form is incomplete",
			Fields:  types.FieldErrors(err),
		})
		return nil, false
	}
	return &setup, true
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is required"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// precheckAnswer mirrors the checks Submit makes before it changes anything.
func precheckAnswer(snapshot interview.Snapshot, answer string) error {
	switch {
	case strings.TrimSpace(answer) == "":
		return &interview.ValidationError{Field: "answer", Message: "must not be empty"}
	case snapshot.InFlight:
		return interview.ErrBusy
	case snapshot.State != interview.StateWaiting:
		return interview.ErrNotWaiting
	default:
		return nil
	}
}

func wantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}
