package sqlite

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

const userColumns = `id, name, email, password_hash, is_guest, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u models.User) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: email=%s, guest=%t", u.Email, u.IsGuest)

	var created models.User
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		at := now()
		if err := tx.GetContext(ctx, &created, `
INSERT INTO users (name, email, password_hash, is_guest, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING `+userColumns, u.Name, u.Email, u.PasswordHash, u.IsGuest, at, at); err != nil {
			return err
		}
		defaults := models.DefaultSettings(created.ID)
		_, err := tx.ExecContext(ctx, `
INSERT INTO user_settings (user_id, study_mode, theme, font_size, theme_color, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, created.ID, defaults.StudyMode, defaults.Theme, defaults.FontSize, defaults.ThemeColor, at, at)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("email already registered: %s", u.Email)
			return nil, repository.ErrDuplicate
		}
		log.Error("failed to create user: %v", err)
		return nil, err
	}
	log.Debug("user created: id=%d", created.ID)
	return &created, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%d", id)

	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		err = notFound(err)
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to get user: %v", err)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user by email: %s", email)

	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, email)
	if err != nil {
		err = notFound(err)
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to get user by email: %v", err)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id int64, name string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating user name: id=%d", id)

	res, err := r.db.ExecContext(ctx, `UPDATE users SET name = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`, name, now(), id)
	if err != nil {
		log.Error("failed to update user: %v", err)
		return err
	}
	return expectRow(res)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Info("deleting user and owned records: id=%d", id)

	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		return cascade(ctx, tx, userCascade, id)
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to delete user: %v", err)
	}
	return err
}

func (r *userRepository) Settings(ctx context.Context, userID int64) (models.UserSettings, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting settings: user_id=%d", userID)

	var s models.UserSettings
	err := r.db.GetContext(ctx, &s, `
SELECT user_id, study_mode, theme, font_size, theme_color
FROM user_settings
WHERE user_id = ? AND deleted_at IS NULL
`, userID)
	if errors.Is(notFound(err), repository.ErrNotFound) {
		log.Debug("no stored settings, using defaults: user_id=%d", userID)
		return models.DefaultSettings(userID), nil
	}
	if err != nil {
		log.Error("failed to get settings: %v", err)
		return models.UserSettings{}, err
	}
	return s, nil
}

func (r *userRepository) UpsertSettings(ctx context.Context, s models.UserSettings) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("saving settings: user_id=%d, study_mode=%s", s.UserID, s.StudyMode)

	at := now()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_settings (user_id, study_mode, theme, font_size, theme_color, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    study_mode = excluded.study_mode,
    theme = excluded.theme,
    font_size = excluded.font_size,
    theme_color = excluded.theme_color,
    updated_at = excluded.updated_at,
    deleted_at = NULL
`, s.UserID, s.StudyMode, s.Theme, s.FontSize, s.ThemeColor, at, at)
	if err != nil {
		log.Error("failed to save settings: %v", err)
	}
	return err
}
