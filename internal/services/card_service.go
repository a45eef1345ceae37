package services

import (
	"context"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/policy"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/validate"
)

const (
	defaultCardLimit = 100
	maxCardLimit     = 500
)

// CardService handles card business logic. Every mutation returns the deck's
// counters as recomputed in the same transaction.
type CardService interface {
	Create(ctx context.Context, userID, deckID int64, in models.CardInput) (*models.CardResult, error)
	Get(ctx context.Context, userID, deckID, cardID int64) (*models.Card, error)
	ListDeck(ctx context.Context, userID, deckID int64) ([]models.Card, error)
	Search(ctx context.Context, userID int64, filter models.CardFilter) ([]models.Card, error)
	Update(ctx context.Context, userID, deckID, cardID int64, patch models.CardPatch) (*models.CardResult, error)
	Delete(ctx context.Context, userID, deckID, cardID int64) (*models.CardResult, error)
}

type cardService struct {
	cards repository.CardRepository
	decks repository.DeckRepository
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository, decks repository.DeckRepository) CardService {
	return &cardService{cards: cards, decks: decks}
}

func (s *cardService) Create(ctx context.Context, userID, deckID int64, in models.CardInput) (*models.CardResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: deck_id=%d", deckID)

	in.Front = strings.TrimSpace(in.Front)
	in.Back = strings.TrimSpace(in.Back)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := ownedDeck(ctx, s.decks, userID, deckID, policy.ActionUpdate); err != nil {
		return nil, err
	}

	card := models.Card{
		DeckID:   deckID,
		Front:    in.Front,
		Back:     in.Back,
		Note:     in.Note,
		Position: -1,
		Mastered: in.Mastered,
	}
	if in.Position != nil {
		card.Position = *in.Position
	}
	created, deck, err := s.cards.Create(ctx, card)
	if err != nil {
		return nil, repoError(err, "deck", deckID)
	}
	return &models.CardResult{Card: created, Deck: deck}, nil
}

// cardInDeck loads a card through its deck and hides cards of other decks.
func (s *cardService) cardInDeck(ctx context.Context, userID, deckID, cardID int64, action policy.Action) (*models.Card, error) {
	card, _, err := ownedCard(ctx, s.cards, s.decks, userID, cardID, action)
	if err != nil {
		return nil, err
	}
	if card.DeckID != deckID {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

func (s *cardService) Get(ctx context.Context, userID, deckID, cardID int64) (*models.Card, error) {
	logger.FromContext(ctx).Debug("getting card: id=%d", cardID)
	return s.cardInDeck(ctx, userID, deckID, cardID, policy.ActionView)
}

func (s *cardService) ListDeck(ctx context.Context, userID, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing deck cards: deck_id=%d", deckID)

	if _, err := ownedDeck(ctx, s.decks, userID, deckID, policy.ActionView); err != nil {
		return nil, err
	}
	cards, err := s.cards.List(ctx, models.CardFilter{UserID: userID, DeckID: deckID})
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) Search(ctx context.Context, userID int64, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	filter.UserID = userID
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit <= 0 {
		filter.Limit = defaultCardLimit
	}
	filter.Limit = min(filter.Limit, maxCardLimit)
	filter.Offset = max(filter.Offset, 0)
	log.Debug("searching cards: user_id=%d, search=%q", userID, filter.Search)

	if filter.DeckID != 0 {
		if _, err := ownedDeck(ctx, s.decks, userID, filter.DeckID, policy.ActionView); err != nil {
			return nil, err
		}
	}
	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		log.Error("failed to search cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) Update(ctx context.Context, userID, deckID, cardID int64, patch models.CardPatch) (*models.CardResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating card: id=%d", cardID)

	if err := validate.Struct(patch); err != nil {
		return nil, err
	}
	card, err := s.cardInDeck(ctx, userID, deckID, cardID, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if patch.Front != nil {
		card.Front = strings.TrimSpace(*patch.Front)
	}
	if patch.Back != nil {
		card.Back = strings.TrimSpace(*patch.Back)
	}
	if card.Front == "" || card.Back == "" {
		return nil, errors.NewValidationError("front, back", "is required")
	}
	if patch.Note != nil {
		card.Note = *patch.Note
	}
	if patch.Position != nil {
		card.Position = *patch.Position
	}
	if patch.Mastered != nil {
		card.Mastered = *patch.Mastered
	}

	updated, deck, err := s.cards.Update(ctx, *card)
	if err != nil {
		return nil, repoError(err, "card", cardID)
	}
	return &models.CardResult{Card: updated, Deck: deck}, nil
}

func (s *cardService) Delete(ctx context.Context, userID, deckID, cardID int64) (*models.CardResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%d", cardID)

	if _, err := s.cardInDeck(ctx, userID, deckID, cardID, policy.ActionDelete); err != nil {
		return nil, err
	}
	deck, err := s.cards.Delete(ctx, cardID)
	if err != nil {
		return nil, repoError(err, "card", cardID)
	}
	return &models.CardResult{Deck: deck}, nil
}
