package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var in models.StudySessionInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.StatsService.RecordStudySession(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}

	sessions, err := s.StatsService.ListSessions(r.Context(), userIDFromContext(r.Context()), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.StudySession{}
	}
	writeJSON(w, r, http.StatusOK, sessions)
}

// handleStats returns the dashboard numbers for the caller's current day.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	today := s.StatsService.Today()
	logger.FromContext(r.Context()).Debug("loading stats for %s", today)

	stats, err := s.StatsService.GetUserStats(r.Context(), userID, today)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleOverallProgress(w http.ResponseWriter, r *http.Request) {
	overall, err := s.StatsService.GetOverallProgress(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"overall_progress": overall})
}
