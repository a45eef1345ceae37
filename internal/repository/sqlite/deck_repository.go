package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

var deckColumns = []string{
	"id", "user_id", "folder_id", "name", "description", "category",
	"is_public", "is_favorite", "total_cards", "progress", "created_at", "updated_at",
}

type deckRepository struct {
	db *sqlx.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sqlx.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Create(ctx context.Context, d models.Deck, tagIDs []int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("creating deck: user_id=%d, name=%s, tags=%d", d.UserID, d.Name, len(tagIDs))

	var id int64
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		at := now()
		if err := tx.GetContext(ctx, &id, `
INSERT INTO decks (user_id, folder_id, name, description, category, is_public, is_favorite, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`, d.UserID, d.FolderID, d.Name, d.Description, d.Category, d.IsPublic, d.IsFavorite, at, at); err != nil {
			return err
		}
		return setDeckTags(ctx, tx, id, tagIDs)
	})
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, err
	}
	log.Debug("deck created: id=%d", id)
	return r.Get(ctx, id)
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	query, args, err := sqlBuilder.Select(deckColumns...).
		From("decks").
		Where(squirrel.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, err
	}

	var d models.Deck
	if err := r.db.GetContext(ctx, &d, query, args...); err != nil {
		err = notFound(err)
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to get deck: %v", err)
		}
		return nil, err
	}

	decks := []models.Deck{d}
	if err := r.attachTags(ctx, decks); err != nil {
		log.Error("failed to load deck tags: %v", err)
		return nil, err
	}
	return &decks[0], nil
}

func (r *deckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%d, tag_id=%d, favorite_only=%t", filter.UserID, filter.TagID, filter.FavoriteOnly)

	query := sqlBuilder.Select(deckColumns...).
		From("decks").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		Where("deleted_at IS NULL")

	if filter.FolderID != nil {
		query = query.Where(squirrel.Eq{"folder_id": *filter.FolderID})
	}
	if filter.TagID != 0 {
		query = query.Where(`id IN (
SELECT dt.deck_id FROM deck_tags dt JOIN tags t ON t.id = dt.tag_id
WHERE dt.tag_id = ? AND t.deleted_at IS NULL)`, filter.TagID)
	}
	if filter.FavoriteOnly {
		query = query.Where(squirrel.Eq{"is_favorite": true})
	}
	query = query.OrderBy("is_favorite DESC", "name", "id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	decks := []models.Deck{}
	if err := r.db.SelectContext(ctx, &decks, sqlStr, args...); err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	if err := r.attachTags(ctx, decks); err != nil {
		log.Error("failed to load deck tags: %v", err)
		return nil, err
	}
	log.Debug("found %d decks", len(decks))
	return decks, nil
}

func (r *deckRepository) Update(ctx context.Context, d models.Deck, tagIDs *[]int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d", d.ID)

	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		var previous sql.NullInt64
		if err := tx.GetContext(ctx, &previous, `SELECT folder_id FROM decks WHERE id = ? AND deleted_at IS NULL`, d.ID); err != nil {
			return notFound(err)
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE decks
SET folder_id = ?, name = ?, description = ?, category = ?, is_public = ?, is_favorite = ?, updated_at = ?
WHERE id = ?
`, d.FolderID, d.Name, d.Description, d.Category, d.IsPublic, d.IsFavorite, now(), d.ID); err != nil {
			return err
		}

		if tagIDs != nil {
			if err := setDeckTags(ctx, tx, d.ID, *tagIDs); err != nil {
				return err
			}
		}

		if folderChanged(previous, d.FolderID) {
			log.Debug("deck moved between folders, refreshing folder counters")
			if previous.Valid {
				if err := recomputeFolder(ctx, tx, previous.Int64); err != nil {
					return err
				}
			}
			if d.FolderID != nil {
				if err := recomputeFolder(ctx, tx, *d.FolderID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to update deck: %v", err)
	}
	return err
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck with cards: id=%d", id)

	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		var folderID sql.NullInt64
		if err := tx.GetContext(ctx, &folderID, `SELECT folder_id FROM decks WHERE id = ? AND deleted_at IS NULL`, id); err != nil {
			return notFound(err)
		}
		if err := cascade(ctx, tx, deckCascade, id); err != nil {
			return err
		}
		if folderID.Valid {
			return recomputeFolder(ctx, tx, folderID.Int64)
		}
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}

func (r *deckRepository) ProgressValues(ctx context.Context, userID int64) ([]int, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("loading deck progress values: user_id=%d", userID)

	values := []int{}
	err := r.db.SelectContext(ctx, &values, `SELECT progress FROM decks WHERE user_id = ? AND deleted_at IS NULL ORDER BY id`, userID)
	if err != nil {
		log.Error("failed to load deck progress: %v", err)
		return nil, err
	}
	return values, nil
}

// attachTags fills Tags on every deck with one query.
func (r *deckRepository) attachTags(ctx context.Context, decks []models.Deck) error {
	if len(decks) == 0 {
		return nil
	}
	ids := make([]int64, len(decks))
	index := make(map[int64]int, len(decks))
	for i := range decks {
		ids[i] = decks[i].ID
		index[decks[i].ID] = i
		decks[i].Tags = []models.Tag{}
	}

	query, args, err := sqlBuilder.Select("dt.deck_id AS deck_id", "t.id AS id", "t.user_id AS user_id", "t.name AS name", "t.created_at AS created_at").
		From("deck_tags dt").
		Join("tags t ON t.id = dt.tag_id").
		Where(squirrel.Eq{"dt.deck_id": ids}).
		Where("t.deleted_at IS NULL").
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return err
	}

	var rows []struct {
		DeckID int64 `db:"deck_id"`
		models.Tag
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return err
	}
	for _, row := range rows {
		i := index[row.DeckID]
		decks[i].Tags = append(decks[i].Tags, row.Tag)
	}
	return nil
}

// setDeckTags replaces the deck's tag set.
func setDeckTags(ctx context.Context, tx *sqlx.Tx, deckID int64, tagIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM deck_tags WHERE deck_id = ?`, deckID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	insert := sqlBuilder.Insert("deck_tags").Columns("deck_id", "tag_id").Options("OR IGNORE")
	for _, tagID := range tagIDs {
		insert = insert.Values(deckID, tagID)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func folderChanged(previous sql.NullInt64, next *int64) bool {
	switch {
	case !previous.Valid && next == nil:
		return false
	case previous.Valid && next != nil:
		return previous.Int64 != *next
	default:
		return true
	}
}
