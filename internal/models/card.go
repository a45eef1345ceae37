package models

import "time"

type Card struct {
	ID             int64      `db:"id" json:"id"`
	DeckID         int64      `db:"deck_id" json:"deck_id"`
	Front          string     `db:"front" json:"front"`
	Back           string     `db:"back" json:"back"`
	Note           string     `db:"note" json:"note"`
	Position       int        `db:"position" json:"position"`
	Mastered       bool       `db:"mastered" json:"mastered"`
	MistakeCount   int        `db:"mistake_count" json:"mistake_count"`
	LastReviewedAt *time.Time `db:"last_reviewed_at" json:"last_reviewed_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type CardFilter struct {
	UserID   int64
	DeckID   int64
	TagID    int64
	Search   string
	Mastered *bool
	Limit    int
	Offset   int
}

type CardInput struct {
	Front    string `json:"front" validate:"required"`
	Back     string `json:"back" validate:"required"`
	Note     string `json:"note"`
	Position *int   `json:"position" validate:"omitempty,min=0"`
	Mastered bool   `json:"mastered"`
}

type CardPatch struct {
	Front    *string `json:"front" validate:"omitempty,min=1"`
	Back     *string `json:"back" validate:"omitempty,min=1"`
	Note     *string `json:"note"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
	Mastered *bool   `json:"mastered"`
}

// CardResult pairs a mutated card with its deck's counters after recompute.
type CardResult struct {
	Card *Card        `json:"card,omitempty"`
	Deck DeckProgress `json:"deck"`
}

type Answer struct {
	CardID  int64 `json:"card_id" validate:"required,gt=0"`
	Correct *bool `json:"correct" validate:"required"`
}
