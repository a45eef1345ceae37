package services

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/policy"
	"github.com/vytor/flashdeck/internal/progress"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/validate"
)

// StatsService records study sessions and serves the dashboard aggregates.
// Every read is scoped to the given user.
type StatsService interface {
	// Today is the current calendar date in the configured timezone.
	Today() civil.Date
	RecordStudySession(ctx context.Context, userID int64, in models.StudySessionInput) (*models.StudySession, error)
	ListSessions(ctx context.Context, userID int64, limit int) ([]models.StudySession, error)
	GetUserStats(ctx context.Context, userID int64, today civil.Date) (*models.UserStats, error)
	GetOverallProgress(ctx context.Context, userID int64) (int, error)
}

type statsService struct {
	sessions repository.StudySessionRepository
	decks    repository.DeckRepository
	folders  repository.FolderRepository
	loc      *time.Location
	now      func() time.Time
}

// NewStatsService creates a new StatsService. A nil now uses time.Now.
func NewStatsService(sessions repository.StudySessionRepository, decks repository.DeckRepository, folders repository.FolderRepository, loc *time.Location, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{sessions: sessions, decks: decks, folders: folders, loc: loc, now: now}
}

func (s *statsService) Today() civil.Date {
	return progress.Today(s.now(), s.loc)
}

func (s *statsService) RecordStudySession(ctx context.Context, userID int64, in models.StudySessionInput) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording study session: user_id=%d, duration=%d", userID, in.DurationMinutes)

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if in.DeckID != nil && in.FolderID != nil {
		return nil, errors.NewValidationError("deck_id", "cannot be combined with folder_id")
	}
	if in.DeckID != nil {
		if _, err := ownedDeck(ctx, s.decks, userID, *in.DeckID, policy.ActionView); err != nil {
			return nil, err
		}
	}
	if in.FolderID != nil {
		if _, err := ownedFolder(ctx, s.folders, userID, *in.FolderID, policy.ActionView); err != nil {
			return nil, err
		}
	}

	session, err := s.sessions.Record(ctx, models.StudySession{
		UserID:          userID,
		DeckID:          in.DeckID,
		FolderID:        in.FolderID,
		DurationMinutes: in.DurationMinutes,
		CardsReviewed:   in.CardsReviewed,
		CardsMastered:   in.CardsMastered,
		SessionDate:     s.Today(),
	})
	if err != nil {
		log.Error("failed to record study session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("study session recorded: id=%d, date=%s", session.ID, session.SessionDate)
	return session, nil
}

func (s *statsService) ListSessions(ctx context.Context, userID int64, limit int) ([]models.StudySession, error) {
	log := logger.FromContext(ctx)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	log.Debug("listing study sessions: user_id=%d, limit=%d", userID, limit)

	sessions, err := s.sessions.List(ctx, userID, limit)
	if err != nil {
		log.Error("failed to list study sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sessions, nil
}

func (s *statsService) GetUserStats(ctx context.Context, userID int64, today civil.Date) (*models.UserStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user stats: user_id=%d, today=%s", userID, today)

	dates, err := s.sessions.DistinctDates(ctx, userID)
	if err != nil {
		log.Error("failed to load study dates: %v", err)
		return nil, errors.NewInternalError(err)
	}
	minutes, err := s.sessions.MinutesByDate(ctx, userID, today.AddDays(1-progress.SeriesDays), today)
	if err != nil {
		log.Error("failed to load study minutes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	overall, err := s.GetOverallProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.sessions.OverallStat(ctx, userID)
	if err != nil {
		log.Error("failed to load overall stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	streak := progress.Streak(dates, today)
	return &models.UserStats{
		TodayMinutes:    progress.TodayMinutes(minutes, today),
		StreakDays:      streak,
		OverallProgress: overall,
		DailySeries:     progress.DailySeries(minutes, today),
		LongestStreak:   max(summary.LongestStreak, streak),
		TotalStudyDays:  summary.TotalStudyDays,
	}, nil
}

func (s *statsService) GetOverallProgress(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting overall progress: user_id=%d", userID)

	values, err := s.decks.ProgressValues(ctx, userID)
	if err != nil {
		log.Error("failed to load deck progress: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return progress.Overall(values), nil
}
