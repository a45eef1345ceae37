package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.FolderService.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	writeJSON(w, r, http.StatusOK, folders)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var in models.FolderInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	folder, err := s.FolderService.Create(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, folder)
}

func (s *Server) handleGetFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "folderID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	folder, err := s.FolderService.Get(r.Context(), userIDFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, folder)
}

func (s *Server) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "folderID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.FolderInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	folder, err := s.FolderService.Update(r.Context(), userIDFromContext(r.Context()), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, folder)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "folderID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.FolderService.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
