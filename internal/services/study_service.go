package services

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/policy"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/study"
	"github.com/vytor/flashdeck/internal/validate"
)

// StudyService builds study queues and records answers
type StudyService interface {
	// DeckQueue returns the cards of one deck ordered for mode. An empty mode
	// uses the user's study_mode setting.
	DeckQueue(ctx context.Context, userID, deckID int64, mode string) (*models.StudyQueue, error)
	FolderQueue(ctx context.Context, userID, folderID int64, mode string) (*models.StudyQueue, error)
	Answer(ctx context.Context, userID int64, in models.Answer) (*models.Card, error)
}

type studyService struct {
	cards     repository.CardRepository
	decks     repository.DeckRepository
	folders   repository.FolderRepository
	users     repository.UserRepository
	batchSize int
	now       func() time.Time
}

// NewStudyService creates a new StudyService. batchSize caps the queue length.
func NewStudyService(cards repository.CardRepository, decks repository.DeckRepository, folders repository.FolderRepository, users repository.UserRepository, batchSize int) StudyService {
	return &studyService{
		cards:     cards,
		decks:     decks,
		folders:   folders,
		users:     users,
		batchSize: batchSize,
		now:       time.Now,
	}
}

func (s *studyService) DeckQueue(ctx context.Context, userID, deckID int64, mode string) (*models.StudyQueue, error) {
	log := logger.FromContext(ctx)
	log.Debug("building deck study queue: deck_id=%d, mode=%q", deckID, mode)

	if _, err := ownedDeck(ctx, s.decks, userID, deckID, policy.ActionView); err != nil {
		return nil, err
	}
	return s.queue(ctx, userID, []int64{deckID}, mode)
}

func (s *studyService) FolderQueue(ctx context.Context, userID, folderID int64, mode string) (*models.StudyQueue, error) {
	log := logger.FromContext(ctx)
	log.Debug("building folder study queue: folder_id=%d, mode=%q", folderID, mode)

	if _, err := ownedFolder(ctx, s.folders, userID, folderID, policy.ActionView); err != nil {
		return nil, err
	}
	decks, err := s.decks.List(ctx, models.DeckFilter{UserID: userID, FolderID: &folderID})
	if err != nil {
		log.Error("failed to list folder decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	ids := make([]int64, 0, len(decks))
	for _, d := range decks {
		ids = append(ids, d.ID)
	}
	return s.queue(ctx, userID, ids, mode)
}

func (s *studyService) queue(ctx context.Context, userID int64, deckIDs []int64, mode string) (*models.StudyQueue, error) {
	log := logger.FromContext(ctx)

	if mode == "" {
		settings, err := s.users.Settings(ctx, userID)
		if err != nil {
			log.Error("failed to load settings: %v", err)
			return nil, errors.NewInternalError(err)
		}
		mode = settings.StudyMode
	}
	if !study.ValidMode(mode) {
		return nil, errors.NewValidationError("mode", "must be one of [random mistake_priority]")
	}

	cards, err := s.cards.StudyCards(ctx, deckIDs)
	if err != nil {
		log.Error("failed to load study cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	ordered := study.Limit(study.Order(cards, mode, nil), s.batchSize)
	log.Debug("study queue ready: %d of %d cards", len(ordered), len(cards))
	return &models.StudyQueue{Mode: mode, Cards: ordered}, nil
}

func (s *studyService) Answer(ctx context.Context, userID int64, in models.Answer) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording answer: card_id=%d", in.CardID)

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	card, _, err := ownedCard(ctx, s.cards, s.decks, userID, in.CardID, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}

	answered := study.ApplyAnswer(*card, *in.Correct, s.now())
	if err := s.cards.RecordAnswer(ctx, answered); err != nil {
		return nil, repoError(err, "card", in.CardID)
	}
	return &answered, nil
}
