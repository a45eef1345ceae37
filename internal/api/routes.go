package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/guest", s.handleGuest)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)
			r.Patch("/me", s.handleUpdateMe)
			r.Delete("/me", s.handleDeleteMe)
			r.Get("/me/settings", s.handleSettings)
			r.Patch("/me/settings", s.handleUpdateSettings)

			r.Get("/folders", s.handleListFolders)
			r.Post("/folders", s.handleCreateFolder)
			r.Get("/folders/{folderID}", s.handleGetFolder)
			r.Patch("/folders/{folderID}", s.handleUpdateFolder)
			r.Delete("/folders/{folderID}", s.handleDeleteFolder)

			r.Get("/decks", s.handleListDecks)
			r.Post("/decks", s.handleCreateDeck)
			r.Route("/decks/{deckID}", func(r chi.Router) {
				r.Get("/", s.handleGetDeck)
				r.Patch("/", s.handleUpdateDeck)
				r.Delete("/", s.handleDeleteDeck)
				r.Post("/recompute", s.handleRecomputeDeck)
				r.Post("/import", s.handleImportCards)

				r.Get("/cards", s.handleListDeckCards)
				r.Post("/cards", s.handleCreateCard)
				r.Get("/cards/{cardID}", s.handleGetCard)
				r.Patch("/cards/{cardID}", s.handleUpdateCard)
				r.Delete("/cards/{cardID}", s.handleDeleteCard)
			})
			r.Get("/cards", s.handleSearchCards)

			r.Get("/tags", s.handleListTags)
			r.Post("/tags", s.handleCreateTag)
			r.Patch("/tags/{tagID}", s.handleRenameTag)
			r.Delete("/tags/{tagID}", s.handleDeleteTag)

			r.Get("/study/decks/{deckID}", s.handleStudyDeck)
			r.Get("/study/folders/{folderID}", s.handleStudyFolder)
			r.Post("/study/answers", s.handleAnswer)

			r.Get("/study-sessions", s.handleListSessions)
			r.Post("/study-sessions", s.handleRecordSession)
			r.Get("/stats", s.handleStats)
			r.Get("/stats/overall-progress", s.handleOverallProgress)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNoRoute(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewBadRequestError("method "+r.Method+" not allowed on "+r.URL.Path))
	})
	return r
}
