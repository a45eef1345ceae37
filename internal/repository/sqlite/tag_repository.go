package sqlite

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

const tagColumns = `id, user_id, name, created_at`

type tagRepository struct {
	db *sqlx.DB
}

// NewTagRepository creates a new TagRepository implementation
func NewTagRepository(db *sqlx.DB) repository.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, t models.Tag) (*models.Tag, error) {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")
	log.Debug("creating tag: user_id=%d, name=%s", t.UserID, t.Name)

	var created models.Tag
	at := now()
	err := r.db.GetContext(ctx, &created, `
INSERT INTO tags (user_id, name, created_at, updated_at)
VALUES (?, ?, ?, ?)
RETURNING `+tagColumns, t.UserID, t.Name, at, at)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		log.Error("failed to create tag: %v", err)
		return nil, err
	}
	return &created, nil
}

func (r *tagRepository) Get(ctx context.Context, id int64) (*models.Tag, error) {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")
	log.Debug("getting tag: id=%d", id)

	var t models.Tag
	err := r.db.GetContext(ctx, &t, `SELECT `+tagColumns+` FROM tags WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		err = notFound(err)
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to get tag: %v", err)
		}
		return nil, err
	}
	return &t, nil
}

func (r *tagRepository) GetMany(ctx context.Context, ids []int64) ([]models.Tag, error) {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")
	log.Debug("getting %d tags", len(ids))

	tags := []models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	query, args, err := sqlBuilder.Select("id", "user_id", "name", "created_at").
		From("tags").
		Where(squirrel.Eq{"id": ids}).
		Where("deleted_at IS NULL").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &tags, query, args...); err != nil {
		log.Error("failed to get tags: %v", err)
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context, userID int64) ([]models.Tag, error) {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")
	log.Debug("listing tags: user_id=%d", userID)

	tags := []models.Tag{}
	err := r.db.SelectContext(ctx, &tags, `
SELECT `+tagColumns+` FROM tags
WHERE user_id = ? AND deleted_at IS NULL
ORDER BY name
`, userID)
	if err != nil {
		log.Error("failed to list tags: %v", err)
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Rename(ctx context.Context, id int64, name string) error {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")
	log.Debug("renaming tag: id=%d, name=%s", id, name)

	res, err := r.db.ExecContext(ctx, `UPDATE tags SET name = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, name, now(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		log.Error("failed to rename tag: %v", err)
		return err
	}
	return expectRow(res)
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("tag_repo")
	log.Debug("deleting tag: id=%d", id)

	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		at := now()
		res, err := tx.ExecContext(ctx, `UPDATE tags SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, at, at, id)
		if err != nil {
			return err
		}
		if err := expectRow(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM deck_tags WHERE tag_id = ?`, id)
		return err
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to delete tag: %v", err)
	}
	return err
}
