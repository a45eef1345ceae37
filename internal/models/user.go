package models

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsGuest      bool      `db:"is_guest" json:"is_guest"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	StudyModeRandom          = "random"
	StudyModeMistakePriority = "mistake_priority"
)

type UserSettings struct {
	UserID     int64  `db:"user_id" json:"user_id"`
	StudyMode  string `db:"study_mode" json:"study_mode"`
	Theme      string `db:"theme" json:"theme"`
	FontSize   string `db:"font_size" json:"font_size"`
	ThemeColor string `db:"theme_color" json:"theme_color"`
}

// DefaultSettings returns the settings a user has before changing anything.
func DefaultSettings(userID int64) UserSettings {
	return UserSettings{
		UserID:     userID,
		StudyMode:  StudyModeRandom,
		Theme:      "light",
		FontSize:   "medium",
		ThemeColor: "#83ccd2",
	}
}

// SettingsPatch carries the optional fields of a settings update.
type SettingsPatch struct {
	StudyMode  *string `json:"study_mode" validate:"omitempty,oneof=random mistake_priority"`
	Theme      *string `json:"theme" validate:"omitempty,oneof=light dark"`
	FontSize   *string `json:"font_size" validate:"omitempty,oneof=small medium large"`
	ThemeColor *string `json:"theme_color" validate:"omitempty,hexcolor"`
}

type Registration struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful login hands back to the client.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type ProfileUpdate struct {
	Name string `json:"name" validate:"required,max=255"`
}
