package sqlite

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

const folderColumns = `id, user_id, name, description, total_cards, progress, created_at, updated_at`

type folderRepository struct {
	db *sqlx.DB
}

// NewFolderRepository creates a new FolderRepository implementation
func NewFolderRepository(db *sqlx.DB) repository.FolderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) Create(ctx context.Context, f models.Folder) (*models.Folder, error) {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("creating folder: user_id=%d, name=%s", f.UserID, f.Name)

	var created models.Folder
	at := now()
	err := r.db.GetContext(ctx, &created, `
INSERT INTO folders (user_id, name, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING `+folderColumns, f.UserID, f.Name, f.Description, at, at)
	if err != nil {
		log.Error("failed to create folder: %v", err)
		return nil, err
	}
	log.Debug("folder created: id=%d", created.ID)
	return &created, nil
}

func (r *folderRepository) Get(ctx context.Context, id int64) (*models.Folder, error) {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("getting folder: id=%d", id)

	var f models.Folder
	err := r.db.GetContext(ctx, &f, `SELECT `+folderColumns+` FROM folders WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		err = notFound(err)
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to get folder: %v", err)
		}
		return nil, err
	}
	return &f, nil
}

func (r *folderRepository) List(ctx context.Context, userID int64) ([]models.Folder, error) {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("listing folders: user_id=%d", userID)

	folders := []models.Folder{}
	err := r.db.SelectContext(ctx, &folders, `
SELECT `+folderColumns+`
FROM folders
WHERE user_id = ? AND deleted_at IS NULL
ORDER BY name, id
`, userID)
	if err != nil {
		log.Error("failed to list folders: %v", err)
		return nil, err
	}
	log.Debug("found %d folders", len(folders))
	return folders, nil
}

func (r *folderRepository) Update(ctx context.Context, f models.Folder) error {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("updating folder: id=%d", f.ID)

	res, err := r.db.ExecContext(ctx, `
UPDATE folders SET name = ?, description = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
`, f.Name, f.Description, now(), f.ID)
	if err != nil {
		log.Error("failed to update folder: %v", err)
		return err
	}
	return expectRow(res)
}

func (r *folderRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("folder_repo")
	log.Debug("deleting folder with decks and cards: id=%d", id)

	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		return cascade(ctx, tx, folderCascade, id)
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to delete folder: %v", err)
	}
	return err
}
