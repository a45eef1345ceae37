package repository

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

// CardRepository handles card data access. Every mutation that changes the
// live card set or mastery recomputes the deck counters in the same
// transaction and returns them.
type CardRepository interface {
	// Create inserts card; a negative Position appends it after the last card.
	Create(ctx context.Context, card models.Card) (*models.Card, models.DeckProgress, error)
	CreateBatch(ctx context.Context, deckID int64, cards []models.Card) (int, models.DeckProgress, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	Update(ctx context.Context, card models.Card) (*models.Card, models.DeckProgress, error)
	Delete(ctx context.Context, id int64) (models.DeckProgress, error)
	// RecordAnswer persists mistake_count and last_reviewed_at only.
	RecordAnswer(ctx context.Context, card models.Card) error
	RecomputeDeckProgress(ctx context.Context, deckID int64) (models.DeckProgress, error)
	// StudyCards returns the live cards of the given decks ordered by position.
	StudyCards(ctx context.Context, deckIDs []int64) ([]models.Card, error)
}
