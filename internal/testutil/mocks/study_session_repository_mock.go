package mocks

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockStudySessionRepository is a mock implementation of repository.StudySessionRepository
type MockStudySessionRepository struct {
	mock.Mock
}

func (m *MockStudySessionRepository) Record(ctx context.Context, session models.StudySession) (*models.StudySession, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudySession), args.Error(1)
}

func (m *MockStudySessionRepository) List(ctx context.Context, userID int64, limit int) ([]models.StudySession, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudySession), args.Error(1)
}

func (m *MockStudySessionRepository) DistinctDates(ctx context.Context, userID int64) ([]civil.Date, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]civil.Date), args.Error(1)
}

func (m *MockStudySessionRepository) MinutesByDate(ctx context.Context, userID int64, from, to civil.Date) (map[civil.Date]int, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[civil.Date]int), args.Error(1)
}

func (m *MockStudySessionRepository) OverallStat(ctx context.Context, userID int64) (models.UserOverallStat, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserOverallStat), args.Error(1)
}
