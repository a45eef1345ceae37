package repository

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/vytor/flashdeck/internal/models"
)

// StudySessionRepository handles study session history and the per-user
// statistics derived from it. Every query is scoped by user id.
type StudySessionRepository interface {
	// Record appends a session and folds it into the daily and overall
	// statistics in one transaction.
	Record(ctx context.Context, session models.StudySession) (*models.StudySession, error)
	List(ctx context.Context, userID int64, limit int) ([]models.StudySession, error)
	DistinctDates(ctx context.Context, userID int64) ([]civil.Date, error)
	// MinutesByDate sums durations per session date within [from, to].
	MinutesByDate(ctx context.Context, userID int64, from, to civil.Date) (map[civil.Date]int, error)
	// OverallStat returns the rolling summary, zero valued when absent.
	OverallStat(ctx context.Context, userID int64) (models.UserOverallStat, error)
}
