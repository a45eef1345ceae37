package repository

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// UserRepository handles user and settings data access
type UserRepository interface {
	Create(ctx context.Context, user models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id int64, name string) error
	// Delete soft-deletes the user and everything the user owns.
	Delete(ctx context.Context, id int64) error
	// Settings returns the stored settings, or the defaults when none exist.
	Settings(ctx context.Context, userID int64) (models.UserSettings, error)
	UpsertSettings(ctx context.Context, settings models.UserSettings) error
}
