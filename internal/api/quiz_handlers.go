package api

import (
	"net/http"

	"github.com/dferreira/quizmaster/internal/errors"
)

type startQuizRequest struct {
	Topic string `json:"topic"`
}

type answerRequest struct {
	Option string `json:"option"`
}

type elapsedRequest struct {
	QuestionIndex int `json:"question_index"`
	Seconds       int `json:"seconds"`
}

type gotoRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req startQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	view, err := s.QuizService.Start(r.Context(), user.ID, req.Topic)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (s *Server) handleCurrentQuiz(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, err := s.QuizService.Current(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if view == nil {
		handleError(w, r, errors.NewNotFoundError("active quiz", user.ID))
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}
	if req.Option == "" {
		handleError(w, r, errors.NewValidationError("option", "must not be empty"))
		return
	}

	view, err := s.QuizService.Answer(r.Context(), user.ID, req.Option)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRecordElapsed(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req elapsedRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	if err := s.QuizService.RecordElapsed(r.Context(), user.ID, req.QuestionIndex, req.Seconds); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req gotoRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	view, err := s.QuizService.GoTo(r.Context(), user.ID, req.Index)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// handleNext advances the quiz. Advancing past the last question
// finishes it, in which case the response carries the result instead of
// a session view.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, result, err := s.QuizService.Next(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if result != nil {
		respondJSON(w, http.StatusOK, map[string]any{"completed": true, "result": result})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"completed": false, "session": view})
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	view, err := s.QuizService.Previous(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	result, err := s.QuizService.Submit(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.QuizService.Abandon(r.Context(), user.ID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
