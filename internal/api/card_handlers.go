package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleListDeckCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.CardService.ListDeck(r.Context(), userIDFromContext(r.Context()), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, r, http.StatusOK, cards)
}

// handleSearchCards lists cards across all of the caller's decks.
func (s *Server) handleSearchCards(w http.ResponseWriter, r *http.Request) {
	filter := models.CardFilter{Search: r.URL.Query().Get("search")}
	var err error
	if filter.DeckID, err = queryInt64(r, "deck_id"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.TagID, err = queryInt64(r, "tag"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Mastered, err = queryBool(r, "mastered"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.CardService.Search(r.Context(), userIDFromContext(r.Context()), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.CardInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.CardService.Create(r.Context(), userIDFromContext(r.Context()), deckID, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	deckID, cardID, err := cardPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.Get(r.Context(), userIDFromContext(r.Context()), deckID, cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	deckID, cardID, err := cardPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var patch models.CardPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.CardService.Update(r.Context(), userIDFromContext(r.Context()), deckID, cardID, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleDeleteCard answers 200 with the deck counters so clients can refresh
// the progress bar without a second request.
func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	deckID, cardID, err := cardPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.CardService.Delete(r.Context(), userIDFromContext(r.Context()), deckID, cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func cardPath(r *http.Request) (deckID, cardID int64, err error) {
	if deckID, err = pathID(r, "deckID"); err != nil {
		return 0, 0, err
	}
	if cardID, err = pathID(r, "cardID"); err != nil {
		return 0, 0, err
	}
	return deckID, cardID, nil
}
