package services

import (
	"context"
	"slices"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/policy"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/validate"
)

// DeckService handles deck business logic. Deck counters are read-only here;
// they change only through card mutations and Recompute.
type DeckService interface {
	Create(ctx context.Context, userID int64, in models.DeckInput) (*models.Deck, error)
	Get(ctx context.Context, userID, id int64) (*models.Deck, error)
	List(ctx context.Context, userID int64, filter models.DeckFilter) ([]models.Deck, error)
	Update(ctx context.Context, userID, id int64, patch models.DeckPatch) (*models.Deck, error)
	Delete(ctx context.Context, userID, id int64) error
	Recompute(ctx context.Context, userID, id int64) (models.DeckProgress, error)
}

type deckService struct {
	decks   repository.DeckRepository
	folders repository.FolderRepository
	tags    repository.TagRepository
	cards   repository.CardRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, folders repository.FolderRepository, tags repository.TagRepository, cards repository.CardRepository) DeckService {
	return &deckService{decks: decks, folders: folders, tags: tags, cards: cards}
}

func (s *deckService) Create(ctx context.Context, userID int64, in models.DeckInput) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: user_id=%d", userID)

	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.checkFolder(ctx, userID, in.FolderID); err != nil {
		return nil, err
	}
	tagIDs, err := s.checkTags(ctx, userID, in.TagIDs)
	if err != nil {
		return nil, err
	}

	deck, err := s.decks.Create(ctx, models.Deck{
		UserID:      userID,
		FolderID:    in.FolderID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		IsPublic:    in.IsPublic,
	}, tagIDs)
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return deck, nil
}

func (s *deckService) Get(ctx context.Context, userID, id int64) (*models.Deck, error) {
	logger.FromContext(ctx).Debug("getting deck: id=%d", id)
	return ownedDeck(ctx, s.decks, userID, id, policy.ActionView)
}

func (s *deckService) List(ctx context.Context, userID int64, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	filter.UserID = userID
	log.Debug("listing decks: user_id=%d", userID)

	decks, err := s.decks.List(ctx, filter)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) Update(ctx context.Context, userID, id int64, patch models.DeckPatch) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating deck: id=%d", id)

	if err := validate.Struct(patch); err != nil {
		return nil, err
	}
	deck, err := ownedDeck(ctx, s.decks, userID, id, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		deck.Name = strings.TrimSpace(*patch.Name)
		if deck.Name == "" {
			return nil, errors.NewValidationError("name", "is required")
		}
	}
	if patch.Description != nil {
		deck.Description = *patch.Description
	}
	if patch.Category != nil {
		deck.Category = *patch.Category
	}
	if patch.IsPublic != nil {
		deck.IsPublic = *patch.IsPublic
	}
	if patch.IsFavorite != nil {
		deck.IsFavorite = *patch.IsFavorite
	}
	switch {
	case patch.ClearFolder:
		deck.FolderID = nil
	case patch.FolderID != nil:
		if err := s.checkFolder(ctx, userID, patch.FolderID); err != nil {
			return nil, err
		}
		deck.FolderID = patch.FolderID
	}

	var tagIDs *[]int64
	if patch.TagIDs != nil {
		ids, err := s.checkTags(ctx, userID, *patch.TagIDs)
		if err != nil {
			return nil, err
		}
		tagIDs = &ids
	}

	if err := s.decks.Update(ctx, *deck, tagIDs); err != nil {
		return nil, repoError(err, "deck", id)
	}
	updated, err := s.decks.Get(ctx, id)
	if err != nil {
		return nil, repoError(err, "deck", id)
	}
	return updated, nil
}

func (s *deckService) Delete(ctx context.Context, userID, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: id=%d", id)

	if _, err := ownedDeck(ctx, s.decks, userID, id, policy.ActionDelete); err != nil {
		return err
	}
	if err := s.decks.Delete(ctx, id); err != nil {
		return repoError(err, "deck", id)
	}
	return nil
}

func (s *deckService) Recompute(ctx context.Context, userID, id int64) (models.DeckProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("recomputing deck: id=%d", id)

	if _, err := ownedDeck(ctx, s.decks, userID, id, policy.ActionUpdate); err != nil {
		return models.DeckProgress{}, err
	}
	p, err := s.cards.RecomputeDeckProgress(ctx, id)
	if err != nil {
		return models.DeckProgress{}, repoError(err, "deck", id)
	}
	return p, nil
}

// checkFolder requires a referenced folder to be live and owned.
func (s *deckService) checkFolder(ctx context.Context, userID int64, folderID *int64) error {
	if folderID == nil {
		return nil
	}
	_, err := ownedFolder(ctx, s.folders, userID, *folderID, policy.ActionUpdate)
	return err
}

// checkTags dedupes ids and requires every tag to be live and owned.
func (s *deckService) checkTags(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	tags, err := s.tags.GetMany(ctx, unique)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load tags: %v", err)
		return nil, errors.NewInternalError(err)
	}
	found := make(map[int64]models.Tag, len(tags))
	for _, t := range tags {
		found[t.ID] = t
	}
	for _, id := range unique {
		t, ok := found[id]
		if !ok {
			return nil, errors.NewNotFoundError("tag", id)
		}
		if err := policy.Authorize(userID, policy.ActionUpdate, policy.Tag(t)); err != nil {
			return nil, err
		}
	}
	return unique, nil
}
