package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.TagService.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, r, http.StatusOK, tags)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var in models.TagInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	tag, err := s.TagService.Create(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, tag)
}

func (s *Server) handleRenameTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tagID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.TagInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	tag, err := s.TagService.Rename(r.Context(), userIDFromContext(r.Context()), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tag)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tagID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.TagService.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
