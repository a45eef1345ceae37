package models

import "time"

type Tag struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type TagInput struct {
	Name string `json:"name" validate:"required,max=255"`
}
