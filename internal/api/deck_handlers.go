package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	var filter models.DeckFilter
	folderID, err := queryInt64(r, "folder_id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if folderID > 0 {
		filter.FolderID = &folderID
	}
	if filter.TagID, err = queryInt64(r, "tag"); err != nil {
		handleError(w, r, err)
		return
	}
	favorite, err := queryBool(r, "favorite")
	if err != nil {
		handleError(w, r, err)
		return
	}
	filter.FavoriteOnly = favorite != nil && *favorite

	decks, err := s.DeckService.List(r.Context(), userIDFromContext(r.Context()), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	writeJSON(w, r, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var in models.DeckInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.Create(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.Get(r.Context(), userIDFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var patch models.DeckPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.Update(r.Context(), userIDFromContext(r.Context()), id, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DeckService.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRecomputeDeck rebuilds a deck's counters from its live cards.
func (s *Server) handleRecomputeDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.DeckService.Recompute(r.Context(), userIDFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
