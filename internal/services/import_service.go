package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/importer"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/policy"
	"github.com/vytor/flashdeck/internal/repository"
)

// ImportService turns uploaded spreadsheets into cards
type ImportService interface {
	Import(ctx context.Context, userID, deckID int64, file io.Reader, filename string, opts importer.Options) (*models.ImportSummary, error)
}

type importService struct {
	cards   repository.CardRepository
	decks   repository.DeckRepository
	maxRows int
}

// NewImportService creates a new ImportService
func NewImportService(cards repository.CardRepository, decks repository.DeckRepository, maxRows int) ImportService {
	return &importService{cards: cards, decks: decks, maxRows: maxRows}
}

func (s *importService) Import(ctx context.Context, userID, deckID int64, file io.Reader, filename string, opts importer.Options) (*models.ImportSummary, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"deck_id":  deckID,
		"filename": filename,
	})
	log.Info("importing cards")

	deck, err := ownedDeck(ctx, s.decks, userID, deckID, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}

	opts.MaxRows = s.maxRows
	parsed, err := importer.Parse(file, filename, opts)
	if err != nil {
		log.Debug("import rejected: %v", err)
		switch {
		case stderrors.Is(err, importer.ErrTooManyRows):
			return nil, errors.NewValidationError("file", fmt.Sprintf("must have at most %d rows", s.maxRows))
		case stderrors.Is(err, importer.ErrUnsupportedFormat), stderrors.Is(err, importer.ErrSheetNotFound):
			return nil, errors.NewBadRequestError(err.Error())
		default:
			return nil, errors.NewBadRequestError("could not read file")
		}
	}

	summary := &models.ImportSummary{
		Skipped: parsed.Skipped,
		Errors:  parsed.Errors,
		Deck:    models.DeckProgress{DeckID: deck.ID, TotalCards: deck.TotalCards, Progress: deck.Progress},
	}
	if summary.Errors == nil {
		summary.Errors = []string{}
	}
	if len(parsed.Rows) == 0 {
		log.Info("nothing to import: skipped=%d", parsed.Skipped)
		return summary, nil
	}

	cards := make([]models.Card, len(parsed.Rows))
	for i, row := range parsed.Rows {
		cards[i] = models.Card{DeckID: deckID, Front: row.Front, Back: row.Back, Note: row.Note}
	}
	created, p, err := s.cards.CreateBatch(ctx, deckID, cards)
	if err != nil {
		return nil, repoError(err, "deck", deckID)
	}
	summary.Created = created
	summary.Deck = p
	log.Info("import finished: created=%d, skipped=%d", created, parsed.Skipped)
	return summary, nil
}
