package repository

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// TagRepository handles tag data access
type TagRepository interface {
	Create(ctx context.Context, tag models.Tag) (*models.Tag, error)
	Get(ctx context.Context, id int64) (*models.Tag, error)
	GetMany(ctx context.Context, ids []int64) ([]models.Tag, error)
	List(ctx context.Context, userID int64) ([]models.Tag, error)
	Rename(ctx context.Context, id int64, name string) error
	// Delete soft-deletes the tag and detaches it from every deck.
	Delete(ctx context.Context, id int64) error
}
