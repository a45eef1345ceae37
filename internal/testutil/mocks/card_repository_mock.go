package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card models.Card) (*models.Card, models.DeckProgress, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Get(1).(models.DeckProgress), args.Error(2)
	}
	return args.Get(0).(*models.Card), args.Get(1).(models.DeckProgress), args.Error(2)
}

func (m *MockCardRepository) CreateBatch(ctx context.Context, deckID int64, cards []models.Card) (int, models.DeckProgress, error) {
	args := m.Called(ctx, deckID, cards)
	return args.Int(0), args.Get(1).(models.DeckProgress), args.Error(2)
}

func (m *MockCardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, card models.Card) (*models.Card, models.DeckProgress, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Get(1).(models.DeckProgress), args.Error(2)
	}
	return args.Get(0).(*models.Card), args.Get(1).(models.DeckProgress), args.Error(2)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) (models.DeckProgress, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.DeckProgress), args.Error(1)
}

func (m *MockCardRepository) RecordAnswer(ctx context.Context, card models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) RecomputeDeckProgress(ctx context.Context, deckID int64) (models.DeckProgress, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).(models.DeckProgress), args.Error(1)
}

func (m *MockCardRepository) StudyCards(ctx context.Context, deckIDs []int64) ([]models.Card, error) {
	args := m.Called(ctx, deckIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}
