// Package policy decides whether a user may view, update or delete a
// resource. Ownership is passed in as an explicit chain: a card carries no
// owner of its own and inherits the owner of the deck it belongs to.
package policy

import (
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
)

type Kind string

const (
	KindFolder       Kind = "folder"
	KindDeck         Kind = "deck"
	KindCard         Kind = "card"
	KindTag          Kind = "tag"
	KindStudySession Kind = "study session"
)

type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Ownership is one link of an ownership chain. OwnerID is zero for links
// whose owner is inherited from Parent.
type Ownership struct {
	Kind    Kind
	ID      int64
	OwnerID int64
	Parent  *Ownership
}

func Folder(f models.Folder) Ownership {
	return Ownership{Kind: KindFolder, ID: f.ID, OwnerID: f.UserID}
}

func Deck(d models.Deck) Ownership {
	return Ownership{Kind: KindDeck, ID: d.ID, OwnerID: d.UserID}
}

// Card links a card to the deck that owns it.
func Card(c models.Card, deck models.Deck) Ownership {
	parent := Deck(deck)
	return Ownership{Kind: KindCard, ID: c.ID, Parent: &parent}
}

func Tag(t models.Tag) Ownership {
	return Ownership{Kind: KindTag, ID: t.ID, OwnerID: t.UserID}
}

func StudySession(s models.StudySession) Ownership {
	return Ownership{Kind: KindStudySession, ID: s.ID, OwnerID: s.UserID}
}

// Owner walks the chain up to the first link that names an owner.
func (o Ownership) Owner() (int64, bool) {
	for link := &o; link != nil; link = link.Parent {
		if link.OwnerID != 0 {
			return link.OwnerID, true
		}
	}
	return 0, false
}

func owns(userID int64, o Ownership) bool {
	if userID <= 0 {
		return false
	}
	owner, ok := o.Owner()
	return ok && owner == userID
}

func CanView(userID int64, o Ownership) bool   { return owns(userID, o) }
func CanUpdate(userID int64, o Ownership) bool { return owns(userID, o) }
func CanDelete(userID int64, o Ownership) bool { return owns(userID, o) }

// Allowed dispatches on action.
func Allowed(userID int64, action Action, o Ownership) bool {
	switch action {
	case ActionView:
		return CanView(userID, o)
	case ActionUpdate:
		return CanUpdate(userID, o)
	case ActionDelete:
		return CanDelete(userID, o)
	default:
		return false
	}
}

// Authorize returns a FORBIDDEN AppError when the user may not perform
// action on o. Callers must check it before mutating or returning o.
func Authorize(userID int64, action Action, o Ownership) error {
	if Allowed(userID, action, o) {
		return nil
	}
	return errors.NewForbiddenError(string(action), string(o.Kind))
}
