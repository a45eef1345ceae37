package repository

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// FolderRepository handles folder data access
type FolderRepository interface {
	Create(ctx context.Context, folder models.Folder) (*models.Folder, error)
	Get(ctx context.Context, id int64) (*models.Folder, error)
	List(ctx context.Context, userID int64) ([]models.Folder, error)
	Update(ctx context.Context, folder models.Folder) error
	// Delete soft-deletes the folder, its decks and their cards.
	Delete(ctx context.Context, id int64) error
}
