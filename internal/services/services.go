// Package services holds the business logic behind the HTTP handlers. Every
// method takes the acting user's id explicitly and returns *errors.AppError
// values for anything the caller should see.
package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/policy"
	"github.com/vytor/flashdeck/internal/repository"
)

// repoError maps a repository failure onto an AppError.
func repoError(err error, resource string, id any) error {
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NewNotFoundError(resource, id)
	case stderrors.Is(err, repository.ErrDuplicate):
		return errors.NewConflictError(fmt.Sprintf("%s already exists", resource))
	default:
		return errors.NewInternalError(err)
	}
}

// ownedFolder loads a live folder and checks userID may perform action on it.
func ownedFolder(ctx context.Context, folders repository.FolderRepository, userID, id int64, action policy.Action) (*models.Folder, error) {
	folder, err := folders.Get(ctx, id)
	if err != nil {
		return nil, repoError(err, "folder", id)
	}
	if err := policy.Authorize(userID, action, policy.Folder(*folder)); err != nil {
		return nil, err
	}
	return folder, nil
}

func ownedDeck(ctx context.Context, decks repository.DeckRepository, userID, id int64, action policy.Action) (*models.Deck, error) {
	deck, err := decks.Get(ctx, id)
	if err != nil {
		return nil, repoError(err, "deck", id)
	}
	if err := policy.Authorize(userID, action, policy.Deck(*deck)); err != nil {
		return nil, err
	}
	return deck, nil
}

// ownedCard loads a card together with its deck; the deck decides ownership.
func ownedCard(ctx context.Context, cards repository.CardRepository, decks repository.DeckRepository, userID, id int64, action policy.Action) (*models.Card, *models.Deck, error) {
	card, err := cards.Get(ctx, id)
	if err != nil {
		return nil, nil, repoError(err, "card", id)
	}
	deck, err := decks.Get(ctx, card.DeckID)
	if err != nil {
		return nil, nil, repoError(err, "card", id)
	}
	if err := policy.Authorize(userID, action, policy.Card(*card, *deck)); err != nil {
		return nil, nil, err
	}
	return card, deck, nil
}

func ownedTag(ctx context.Context, tags repository.TagRepository, userID, id int64, action policy.Action) (*models.Tag, error) {
	tag, err := tags.Get(ctx, id)
	if err != nil {
		return nil, repoError(err, "tag", id)
	}
	if err := policy.Authorize(userID, action, policy.Tag(*tag)); err != nil {
		return nil, err
	}
	return tag, nil
}
