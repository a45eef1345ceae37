package repository

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// DeckRepository handles deck data access. total_cards and progress are never
// written from a models.Deck; only the card repository's recompute sets them.
type DeckRepository interface {
	Create(ctx context.Context, deck models.Deck, tagIDs []int64) (*models.Deck, error)
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	// Update writes the editable columns. A nil tagIDs leaves tags untouched.
	// Folder counters are recomputed when the deck changes folder.
	Update(ctx context.Context, deck models.Deck, tagIDs *[]int64) error
	// Delete soft-deletes the deck and its cards. Study sessions are kept.
	Delete(ctx context.Context, id int64) error
	// ProgressValues returns the progress of every live deck the user owns.
	ProgressValues(ctx context.Context, userID int64) ([]int, error)
}
