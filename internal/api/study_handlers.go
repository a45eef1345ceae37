package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleStudyDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	queue, err := s.StudyService.DeckQueue(r.Context(), userIDFromContext(r.Context()), id, r.URL.Query().Get("mode"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, queue)
}

func (s *Server) handleStudyFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "folderID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	queue, err := s.StudyService.FolderQueue(r.Context(), userIDFromContext(r.Context()), id, r.URL.Query().Get("mode"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, queue)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var in models.Answer
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.StudyService.Answer(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}
