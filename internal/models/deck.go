package models

import "time"

type Deck struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	FolderID    *int64    `db:"folder_id" json:"folder_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	IsFavorite  bool      `db:"is_favorite" json:"is_favorite"`
	TotalCards  int       `db:"total_cards" json:"total_cards"`
	Progress    int       `db:"progress" json:"progress"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	Tags        []Tag     `db:"-" json:"tags"`
}

// DeckProgress is the derived counter pair kept on every deck.
type DeckProgress struct {
	DeckID     int64 `json:"deck_id"`
	TotalCards int   `json:"total_cards"`
	Progress   int   `json:"progress"`
}

type DeckFilter struct {
	UserID       int64
	FolderID     *int64
	TagID        int64
	FavoriteOnly bool
}

type DeckInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category" validate:"max=255"`
	FolderID    *int64  `json:"folder_id"`
	IsPublic    bool    `json:"is_public"`
	TagIDs      []int64 `json:"tags"`
}

// DeckPatch carries the optional fields of a deck update. Counters are not
// part of it on purpose: only the recompute step writes them.
type DeckPatch struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Category    *string  `json:"category" validate:"omitempty,max=255"`
	FolderID    *int64   `json:"folder_id"`
	ClearFolder bool     `json:"clear_folder"`
	IsPublic    *bool    `json:"is_public"`
	IsFavorite  *bool    `json:"is_favorite"`
	TagIDs      *[]int64 `json:"tags"`
}
