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

var cardColumns = []string{
	"c.id AS id", "c.deck_id AS deck_id", "c.front AS front", "c.back AS back", "c.note AS note",
	"c.position AS position", "c.mastered AS mastered", "c.mistake_count AS mistake_count",
	"c.last_reviewed_at AS last_reviewed_at", "c.created_at AS created_at", "c.updated_at AS updated_at",
}

// batchSize bounds the rows per multi-row INSERT.
const batchSize = 200

type cardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sqlx.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

// liveCards selects live cards whose deck is live too.
func liveCards() squirrel.SelectBuilder {
	return sqlBuilder.Select(cardColumns...).
		From("cards c").
		Join("decks d ON d.id = c.deck_id").
		Where("c.deleted_at IS NULL").
		Where("d.deleted_at IS NULL")
}

func getCard(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Card, error) {
	query, args, err := liveCards().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var c models.Card
	if err := sqlx.GetContext(ctx, q, &c, query, args...); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func requireLiveDeck(ctx context.Context, q sqlx.QueryerContext, deckID int64) error {
	var id int64
	err := sqlx.GetContext(ctx, q, &id, `SELECT id FROM decks WHERE id = ? AND deleted_at IS NULL`, deckID)
	return notFound(err)
}

func nextPosition(ctx context.Context, q sqlx.QueryerContext, deckID int64) (int, error) {
	var pos int
	err := sqlx.GetContext(ctx, q, &pos, `SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE deck_id = ? AND deleted_at IS NULL`, deckID)
	return pos, err
}

func (r *cardRepository) Create(ctx context.Context, c models.Card) (*models.Card, models.DeckProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("creating card: deck_id=%d", c.DeckID)

	var (
		created *models.Card
		deck    models.DeckProgress
	)
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := requireLiveDeck(ctx, tx, c.DeckID); err != nil {
			return err
		}
		if c.Position < 0 {
			pos, err := nextPosition(ctx, tx, c.DeckID)
			if err != nil {
				return err
			}
			c.Position = pos
		}

		at := now()
		var id int64
		if err := tx.GetContext(ctx, &id, `
INSERT INTO cards (deck_id, front, back, note, position, mastered, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`, c.DeckID, c.Front, c.Back, c.Note, c.Position, c.Mastered, at, at); err != nil {
			return err
		}

		var err error
		if deck, err = recomputeDeck(ctx, tx, c.DeckID); err != nil {
			return err
		}
		created, err = getCard(ctx, tx, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to create card: %v", err)
		}
		return nil, models.DeckProgress{}, err
	}
	log.Debug("card created: id=%d, deck total=%d, progress=%d", created.ID, deck.TotalCards, deck.Progress)
	return created, deck, nil
}

func (r *cardRepository) CreateBatch(ctx context.Context, deckID int64, cards []models.Card) (int, models.DeckProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("creating %d cards: deck_id=%d", len(cards), deckID)

	var deck models.DeckProgress
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := requireLiveDeck(ctx, tx, deckID); err != nil {
			return err
		}
		pos, err := nextPosition(ctx, tx, deckID)
		if err != nil {
			return err
		}

		at := now()
		for start := 0; start < len(cards); start += batchSize {
			end := min(start+batchSize, len(cards))
			insert := sqlBuilder.Insert("cards").
				Columns("deck_id", "front", "back", "note", "position", "mastered", "created_at", "updated_at")
			for _, c := range cards[start:end] {
				insert = insert.Values(deckID, c.Front, c.Back, c.Note, pos, c.Mastered, at, at)
				pos++
			}
			query, args, err := insert.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}

		deck, err = recomputeDeck(ctx, tx, deckID)
		return err
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to create cards: %v", err)
		}
		return 0, models.DeckProgress{}, err
	}
	log.Debug("cards created: %d, deck total=%d, progress=%d", len(cards), deck.TotalCards, deck.Progress)
	return len(cards), deck, nil
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	c, err := getCard(ctx, r.db, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to get card: %v", err)
	}
	return c, err
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: user_id=%d, deck_id=%d, tag_id=%d, search=%q", filter.UserID, filter.DeckID, filter.TagID, filter.Search)

	query := liveCards().Where(squirrel.Eq{"d.user_id": filter.UserID})
	if filter.DeckID != 0 {
		query = query.Where(squirrel.Eq{"c.deck_id": filter.DeckID})
	}
	if filter.TagID != 0 {
		query = query.Where(`c.deck_id IN (
SELECT dt.deck_id FROM deck_tags dt JOIN tags t ON t.id = dt.tag_id
WHERE dt.tag_id = ? AND t.deleted_at IS NULL)`, filter.TagID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"c.front": pattern},
			squirrel.Like{"c.back": pattern},
		})
	}
	if filter.Mastered != nil {
		query = query.Where(squirrel.Eq{"c.mastered": *filter.Mastered})
	}
	query = query.OrderBy("c.deck_id", "c.position", "c.id")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
		if filter.Offset > 0 {
			query = query.Offset(uint64(filter.Offset))
		}
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	cards := []models.Card{}
	if err := r.db.SelectContext(ctx, &cards, sqlStr, args...); err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) Update(ctx context.Context, c models.Card) (*models.Card, models.DeckProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%d, mastered=%t", c.ID, c.Mastered)

	var (
		updated *models.Card
		deck    models.DeckProgress
	)
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		existing, err := getCard(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE cards SET front = ?, back = ?, note = ?, position = ?, mastered = ?, updated_at = ?
WHERE id = ?
`, c.Front, c.Back, c.Note, c.Position, c.Mastered, now(), c.ID); err != nil {
			return err
		}
		if deck, err = recomputeDeck(ctx, tx, existing.DeckID); err != nil {
			return err
		}
		updated, err = getCard(ctx, tx, c.ID)
		return err
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to update card: %v", err)
		}
		return nil, models.DeckProgress{}, err
	}
	return updated, deck, nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) (models.DeckProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	var deck models.DeckProgress
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		existing, err := getCard(ctx, tx, id)
		if err != nil {
			return err
		}
		at := now()
		if _, err := tx.ExecContext(ctx, `UPDATE cards SET deleted_at = ?, updated_at = ? WHERE id = ?`, at, at, id); err != nil {
			return err
		}
		deck, err = recomputeDeck(ctx, tx, existing.DeckID)
		return err
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to delete card: %v", err)
		}
		return models.DeckProgress{}, err
	}
	log.Debug("card deleted: deck total=%d, progress=%d", deck.TotalCards, deck.Progress)
	return deck, nil
}

func (r *cardRepository) RecordAnswer(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("recording answer: id=%d, mistakes=%d", c.ID, c.MistakeCount)

	res, err := r.db.ExecContext(ctx, `
UPDATE cards SET mistake_count = ?, last_reviewed_at = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
`, c.MistakeCount, c.LastReviewedAt, now(), c.ID)
	if err != nil {
		log.Error("failed to record answer: %v", err)
		return err
	}
	return expectRow(res)
}

func (r *cardRepository) RecomputeDeckProgress(ctx context.Context, deckID int64) (models.DeckProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("recomputing deck progress: deck_id=%d", deckID)

	var deck models.DeckProgress
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		deck, err = recomputeDeck(ctx, tx, deckID)
		return err
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to recompute deck progress: %v", err)
		}
		return models.DeckProgress{}, err
	}
	log.Debug("deck progress: total=%d, progress=%d", deck.TotalCards, deck.Progress)
	return deck, nil
}

func (r *cardRepository) StudyCards(ctx context.Context, deckIDs []int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("loading study cards: decks=%v", deckIDs)

	cards := []models.Card{}
	if len(deckIDs) == 0 {
		return cards, nil
	}
	query, args, err := liveCards().
		Where(squirrel.Eq{"c.deck_id": deckIDs}).
		OrderBy("c.position", "c.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		log.Error("failed to load study cards: %v", err)
		return nil, err
	}
	return cards, nil
}
