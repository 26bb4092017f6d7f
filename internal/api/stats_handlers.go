package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dferreira/quizmaster/internal/errors"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	results, err := s.StatsService.GetHistory(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid result id"))
		return
	}

	report, err := s.StatsService.GetReport(r.Context(), id, user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	stats, err := s.StatsService.GetStats(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// topicSuggestions is the static list offered to clients picking a quiz
// topic. Free-form topics are accepted too.
var topicSuggestions = []string{
	"JavaScript",
	"Python",
	"Java",
	"React",
	"HTML & CSS",
	"Science",
	"History",
	"Geography",
	"Sports",
	"Mathematics",
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"topics": topicSuggestions})
}
