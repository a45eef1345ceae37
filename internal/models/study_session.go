package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// StudySession is one completed study run. Rows are append-only.
type StudySession struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	DeckID          *int64     `json:"deck_id"`
	FolderID        *int64     `json:"folder_id"`
	DurationMinutes int        `json:"duration"`
	CardsReviewed   int        `json:"cards_reviewed"`
	CardsMastered   int        `json:"cards_mastered"`
	SessionDate     civil.Date `json:"session_date"`
	CreatedAt       time.Time  `json:"created_at"`
}

type StudySessionInput struct {
	DeckID          *int64 `json:"deck_id" validate:"omitempty,gt=0"`
	FolderID        *int64 `json:"folder_id" validate:"omitempty,gt=0"`
	DurationMinutes int    `json:"duration" validate:"min=1"`
	CardsReviewed   int    `json:"cards_reviewed" validate:"min=0"`
	CardsMastered   int    `json:"cards_mastered" validate:"min=0"`
}

type StudyQueue struct {
	Mode  string `json:"mode"`
	Cards []Card `json:"cards"`
}
