package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.Registration
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.UserService.Register(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.setTokenCookie(w, session.Token, session.ExpiresAt)
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.UserService.Login(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.setTokenCookie(w, session.Token, session.ExpiresAt)
	writeJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleGuest(w http.ResponseWriter, r *http.Request) {
	session, err := s.UserService.Guest(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.setTokenCookie(w, session.Token, session.ExpiresAt)
	writeJSON(w, r, http.StatusCreated, session)
}

// handleLogout only clears the cookie; tokens are stateless and expire on their own.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debug("clearing session cookie")
	clearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.UserService.Me(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.UpdateProfile(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := s.UserService.Delete(r.Context(), userIDFromContext(r.Context())); err != nil {
		handleError(w, r, err)
		return
	}
	clearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.UserService.Settings(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	settings, err := s.UserService.UpdateSettings(r.Context(), userIDFromContext(r.Context()), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, settings)
}
