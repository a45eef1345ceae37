package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/progress"
	"github.com/vytor/flashdeck/internal/repository"
)

const sessionColumns = `id, user_id, deck_id, folder_id, duration_minutes, cards_reviewed, cards_mastered, session_date, created_at`

// sessionRow mirrors study_sessions; session_date is stored as YYYY-MM-DD.
type sessionRow struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	DeckID          *int64    `db:"deck_id"`
	FolderID        *int64    `db:"folder_id"`
	DurationMinutes int       `db:"duration_minutes"`
	CardsReviewed   int       `db:"cards_reviewed"`
	CardsMastered   int       `db:"cards_mastered"`
	SessionDate     string    `db:"session_date"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r sessionRow) model() (models.StudySession, error) {
	date, err := civil.ParseDate(r.SessionDate)
	if err != nil {
		return models.StudySession{}, fmt.Errorf("session %d: bad session_date %q: %w", r.ID, r.SessionDate, err)
	}
	return models.StudySession{
		ID:              r.ID,
		UserID:          r.UserID,
		DeckID:          r.DeckID,
		FolderID:        r.FolderID,
		DurationMinutes: r.DurationMinutes,
		CardsReviewed:   r.CardsReviewed,
		CardsMastered:   r.CardsMastered,
		SessionDate:     date,
		CreatedAt:       r.CreatedAt,
	}, nil
}

type overallRow struct {
	UserID            int64          `db:"user_id"`
	StreakDays        int            `db:"streak_days"`
	LongestStreak     int            `db:"longest_streak"`
	LastStudyDate     sql.NullString `db:"last_study_date"`
	TotalStudyDays    int            `db:"total_study_days"`
	TotalStudySeconds int64          `db:"total_study_seconds"`
	TotalCardsStudied int            `db:"total_cards_studied"`
}

func (r overallRow) model() (models.UserOverallStat, error) {
	stat := models.UserOverallStat{
		UserID:            r.UserID,
		StreakDays:        r.StreakDays,
		LongestStreak:     r.LongestStreak,
		TotalStudyDays:    r.TotalStudyDays,
		TotalStudySeconds: r.TotalStudySeconds,
		TotalCardsStudied: r.TotalCardsStudied,
	}
	if r.LastStudyDate.Valid {
		d, err := civil.ParseDate(r.LastStudyDate.String)
		if err != nil {
			return stat, fmt.Errorf("bad last_study_date %q: %w", r.LastStudyDate.String, err)
		}
		stat.LastStudyDate = &d
	}
	return stat, nil
}

type studySessionRepository struct {
	db *sqlx.DB
}

// NewStudySessionRepository creates a new StudySessionRepository implementation
func NewStudySessionRepository(db *sqlx.DB) repository.StudySessionRepository {
	return &studySessionRepository{db: db}
}

func (r *studySessionRepository) Record(ctx context.Context, s models.StudySession) (*models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("recording study session: user_id=%d, date=%s, duration=%d", s.UserID, s.SessionDate, s.DurationMinutes)

	var created models.StudySession
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		at := now()
		var row sessionRow
		if err := tx.GetContext(ctx, &row, `
INSERT INTO study_sessions (user_id, deck_id, folder_id, duration_minutes, cards_reviewed, cards_mastered, session_date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING `+sessionColumns,
			s.UserID, s.DeckID, s.FolderID, s.DurationMinutes, s.CardsReviewed, s.CardsMastered, s.SessionDate.String(), at, at); err != nil {
			return err
		}
		var err error
		if created, err = row.model(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO daily_user_stats (user_id, study_date, study_seconds, total_cards_studied, total_cards_correct, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, study_date) DO UPDATE SET
    study_seconds = study_seconds + excluded.study_seconds,
    total_cards_studied = total_cards_studied + excluded.total_cards_studied,
    total_cards_correct = total_cards_correct + excluded.total_cards_correct,
    updated_at = excluded.updated_at
`, s.UserID, s.SessionDate.String(), s.DurationMinutes*60, s.CardsReviewed, s.CardsMastered, at, at); err != nil {
			return err
		}

		stat, err := overallStat(ctx, tx, s.UserID)
		if err != nil {
			return err
		}
		stat = progress.Roll(stat, s.SessionDate, s.DurationMinutes, s.CardsReviewed)
		return saveOverallStat(ctx, tx, stat)
	})
	if err != nil {
		log.Error("failed to record study session: %v", err)
		return nil, err
	}
	log.Debug("study session recorded: id=%d", created.ID)
	return &created, nil
}

func (r *studySessionRepository) List(ctx context.Context, userID int64, limit int) ([]models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("listing study sessions: user_id=%d, limit=%d", userID, limit)

	var rows []sessionRow
	err := r.db.SelectContext(ctx, &rows, `
SELECT `+sessionColumns+` FROM study_sessions
WHERE user_id = ? AND deleted_at IS NULL
ORDER BY session_date DESC, id DESC
LIMIT ?
`, userID, limit)
	if err != nil {
		log.Error("failed to list study sessions: %v", err)
		return nil, err
	}
	sessions := make([]models.StudySession, 0, len(rows))
	for _, row := range rows {
		s, err := row.model()
		if err != nil {
			log.Error("failed to decode study session: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *studySessionRepository) DistinctDates(ctx context.Context, userID int64) ([]civil.Date, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("loading distinct study dates: user_id=%d", userID)

	var raw []string
	err := r.db.SelectContext(ctx, &raw, `
SELECT DISTINCT session_date FROM study_sessions
WHERE user_id = ? AND deleted_at IS NULL
ORDER BY session_date DESC
`, userID)
	if err != nil {
		log.Error("failed to load study dates: %v", err)
		return nil, err
	}
	dates := make([]civil.Date, 0, len(raw))
	for _, s := range raw {
		d, err := civil.ParseDate(s)
		if err != nil {
			log.Error("bad session_date %q: %v", s, err)
			return nil, err
		}
		dates = append(dates, d)
	}
	log.Debug("found %d distinct study dates", len(dates))
	return dates, nil
}

func (r *studySessionRepository) MinutesByDate(ctx context.Context, userID int64, from, to civil.Date) (map[civil.Date]int, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("summing study minutes: user_id=%d, from=%s, to=%s", userID, from, to)

	var rows []struct {
		SessionDate string `db:"session_date"`
		Minutes     int    `db:"minutes"`
	}
	err := r.db.SelectContext(ctx, &rows, `
SELECT session_date, SUM(duration_minutes) AS minutes
FROM study_sessions
WHERE user_id = ? AND deleted_at IS NULL AND session_date BETWEEN ? AND ?
GROUP BY session_date
`, userID, from.String(), to.String())
	if err != nil {
		log.Error("failed to sum study minutes: %v", err)
		return nil, err
	}
	out := make(map[civil.Date]int, len(rows))
	for _, row := range rows {
		d, err := civil.ParseDate(row.SessionDate)
		if err != nil {
			log.Error("bad session_date %q: %v", row.SessionDate, err)
			return nil, err
		}
		out[d] = row.Minutes
	}
	return out, nil
}

func (r *studySessionRepository) OverallStat(ctx context.Context, userID int64) (models.UserOverallStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("loading overall stats: user_id=%d", userID)

	stat, err := overallStat(ctx, r.db, userID)
	if err != nil {
		log.Error("failed to load overall stats: %v", err)
	}
	return stat, err
}

func overallStat(ctx context.Context, q sqlx.QueryerContext, userID int64) (models.UserOverallStat, error) {
	var row overallRow
	err := sqlx.GetContext(ctx, q, &row, `
SELECT user_id, streak_days, longest_streak, last_study_date, total_study_days, total_study_seconds, total_cards_studied
FROM user_overall_stats
WHERE user_id = ? AND deleted_at IS NULL
`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserOverallStat{UserID: userID}, nil
	}
	if err != nil {
		return models.UserOverallStat{}, err
	}
	return row.model()
}

func saveOverallStat(ctx context.Context, tx *sqlx.Tx, s models.UserOverallStat) error {
	var last *string
	if s.LastStudyDate != nil {
		v := s.LastStudyDate.String()
		last = &v
	}
	at := now()
	_, err := tx.ExecContext(ctx, `
INSERT INTO user_overall_stats (user_id, streak_days, longest_streak, last_study_date, total_study_days, total_study_seconds, total_cards_studied, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    streak_days = excluded.streak_days,
    longest_streak = excluded.longest_streak,
    last_study_date = excluded.last_study_date,
    total_study_days = excluded.total_study_days,
    total_study_seconds = excluded.total_study_seconds,
    total_cards_studied = excluded.total_cards_studied,
    updated_at = excluded.updated_at
`, s.UserID, s.StreakDays, s.LongestStreak, last, s.TotalStudyDays, s.TotalStudySeconds, s.TotalCardsStudied, at, at)
	return err
}
