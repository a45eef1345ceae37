package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/progress"
	"github.com/vytor/flashdeck/internal/repository"
)

// Helper functions shared across repository implementations

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// now is the timestamp written to updated_at and deleted_at.
var now = func() time.Time { return time.Now().UTC() }

func tx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

// notFound maps sql.ErrNoRows onto repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// cascadeStep soft-deletes the rows of one relation that belong to a parent.
// where selects them and takes the parent id as its only argument.
type cascadeStep struct {
	table string
	where string
}

var (
	deckCascade = []cascadeStep{
		{table: "cards", where: "deck_id = ?"},
		{table: "decks", where: "id = ?"},
	}

	folderCascade = []cascadeStep{
		{table: "cards", where: "deck_id IN (SELECT id FROM decks WHERE folder_id = ? AND deleted_at IS NULL)"},
		{table: "decks", where: "folder_id = ?"},
		{table: "folders", where: "id = ?"},
	}

	userCascade = []cascadeStep{
		{table: "study_sessions", where: "user_id = ?"},
		{table: "cards", where: "deck_id IN (SELECT id FROM decks WHERE user_id = ?)"},
		{table: "decks", where: "user_id = ?"},
		{table: "folders", where: "user_id = ?"},
		{table: "tags", where: "user_id = ?"},
		{table: "daily_user_stats", where: "user_id = ?"},
		{table: "user_overall_stats", where: "user_id = ?"},
		{table: "user_settings", where: "user_id = ?"},
		{table: "users", where: "id = ?"},
	}
)

// cascade runs steps in order inside tx. The last step must hit the parent
// row itself; if it affects nothing the parent was already gone.
func cascade(ctx context.Context, tx *sqlx.Tx, steps []cascadeStep, parentID int64) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	at := now()
	for i, step := range steps {
		query, args, err := sqlBuilder.Update(step.table).
			Set("deleted_at", at).
			Set("updated_at", at).
			Where(step.where, parentID).
			Where("deleted_at IS NULL").
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Error("cascade step %s failed: %v", step.table, err)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		log.Debug("cascade soft-deleted %d row(s) from %s", n, step.table)
		if i == len(steps)-1 && n == 0 {
			return repository.ErrNotFound
		}
	}
	return nil
}

type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// recomputeDeck recounts the live cards of a live deck and persists the
// derived counters, then refreshes the owning folder.
func recomputeDeck(ctx context.Context, q queryer, deckID int64) (models.DeckProgress, error) {
	var folderID sql.NullInt64
	if err := sqlx.GetContext(ctx, q, &folderID, `SELECT folder_id FROM decks WHERE id = ? AND deleted_at IS NULL`, deckID); err != nil {
		return models.DeckProgress{}, notFound(err)
	}

	var counts struct {
		Live     int `db:"live"`
		Mastered int `db:"mastered"`
	}
	if err := sqlx.GetContext(ctx, q, &counts, `
SELECT COUNT(*) AS live, COALESCE(SUM(CASE WHEN mastered THEN 1 ELSE 0 END), 0) AS mastered
FROM cards
WHERE deck_id = ? AND deleted_at IS NULL
`, deckID); err != nil {
		return models.DeckProgress{}, err
	}

	p := progress.Deck(deckID, counts.Live, counts.Mastered)
	if _, err := q.ExecContext(ctx, `UPDATE decks SET total_cards = ?, progress = ?, updated_at = ? WHERE id = ?`,
		p.TotalCards, p.Progress, now(), deckID); err != nil {
		return models.DeckProgress{}, err
	}

	if folderID.Valid {
		if err := recomputeFolder(ctx, q, folderID.Int64); err != nil {
			return models.DeckProgress{}, err
		}
	}
	return p, nil
}

// recomputeFolder sets a folder's counters from the live cards of its live
// decks. A deleted folder is left alone.
func recomputeFolder(ctx context.Context, q queryer, folderID int64) error {
	var counts struct {
		Live     int `db:"live"`
		Mastered int `db:"mastered"`
	}
	if err := sqlx.GetContext(ctx, q, &counts, `
SELECT COUNT(c.id) AS live, COALESCE(SUM(CASE WHEN c.mastered THEN 1 ELSE 0 END), 0) AS mastered
FROM cards c
JOIN decks d ON d.id = c.deck_id
WHERE d.folder_id = ? AND d.deleted_at IS NULL AND c.deleted_at IS NULL
`, folderID); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, `UPDATE folders SET total_cards = ?, progress = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		counts.Live, progress.Percent(counts.Mastered, counts.Live), now(), folderID)
	return err
}

// expectRow turns an update that touched nothing into ErrNotFound.
func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
