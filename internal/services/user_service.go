package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/validate"
)

// UserService handles accounts, sessions and settings
type UserService interface {
	Register(ctx context.Context, in models.Registration) (*models.Session, error)
	Login(ctx context.Context, in models.Credentials) (*models.Session, error)
	Guest(ctx context.Context) (*models.Session, error)
	// Authenticate resolves a session token to a live user id.
	Authenticate(ctx context.Context, token string) (int64, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, in models.ProfileUpdate) (*models.User, error)
	Delete(ctx context.Context, userID int64) error
	Settings(ctx context.Context, userID int64) (models.UserSettings, error)
	UpdateSettings(ctx context.Context, userID int64, patch models.SettingsPatch) (models.UserSettings, error)
}

type userService struct {
	users  repository.UserRepository
	tokens *auth.Tokens
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepository, tokens *auth.Tokens) UserService {
	return &userService{users: users, tokens: tokens}
}

func badCredentials() error {
	return errors.NewUnauthorizedError("invalid email or password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, in models.Registration) (*models.Session, error) {
	log := logger.FromContext(ctx)
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	log.Debug("registering user: email=%s", in.Email)

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	return s.create(ctx, models.User{Name: in.Name, Email: in.Email}, in.Password)
}

func (s *userService) Guest(ctx context.Context) (*models.Session, error) {
	log := logger.FromContext(ctx)
	id := uuid.NewString()
	log.Debug("creating guest user")

	guest := models.User{
		Name:    "Guest",
		Email:   "guest_" + id + "@example.com",
		IsGuest: true,
	}
	return s.create(ctx, guest, uuid.NewString())
}

func (s *userService) create(ctx context.Context, u models.User, password string) (*models.Session, error) {
	log := logger.FromContext(ctx)

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}
	u.PasswordHash = hash

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError("email is already registered")
		}
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("user registered: id=%d, guest=%t", created.ID, created.IsGuest)
	return s.session(ctx, created)
}

func (s *userService) Login(ctx context.Context, in models.Credentials) (*models.Session, error) {
	log := logger.FromContext(ctx)
	in.Email = normalizeEmail(in.Email)
	log.Debug("login attempt: email=%s", in.Email)

	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, badCredentials()
		}
		log.Error("failed to look up user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !auth.VerifyPassword(u.PasswordHash, in.Password) {
		log.Debug("password mismatch: user_id=%d", u.ID)
		return nil, badCredentials()
	}
	return s.session(ctx, u)
}

func (s *userService) session(ctx context.Context, u *models.User) (*models.Session, error) {
	token, expires, err := s.tokens.Issue(u.ID, u.IsGuest)
	if err != nil {
		logger.FromContext(ctx).Error("failed to issue token: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &models.Session{Token: token, ExpiresAt: expires, User: *u}, nil
}

func (s *userService) Authenticate(ctx context.Context, token string) (int64, error) {
	log := logger.FromContext(ctx)

	claims, err := s.tokens.Parse(token)
	if err != nil {
		log.Debug("rejected token: %v", err)
		return 0, errors.NewUnauthorizedError("invalid or expired token")
	}
	if _, err := s.users.Get(ctx, claims.UserID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return 0, errors.NewUnauthorizedError("account no longer exists")
		}
		log.Error("failed to load token user: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return claims.UserID, nil
}

func (s *userService) Me(ctx context.Context, userID int64) (*models.User, error) {
	logger.FromContext(ctx).Debug("getting user: id=%d", userID)

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, repoError(err, "user", userID)
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, in models.ProfileUpdate) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating profile: id=%d", userID)

	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.users.UpdateName(ctx, userID, in.Name); err != nil {
		return nil, repoError(err, "user", userID)
	}
	return s.Me(ctx, userID)
}

func (s *userService) Delete(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)
	log.Info("deleting account: id=%d", userID)

	if err := s.users.Delete(ctx, userID); err != nil {
		return repoError(err, "user", userID)
	}
	return nil
}

func (s *userService) Settings(ctx context.Context, userID int64) (models.UserSettings, error) {
	settings, err := s.users.Settings(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load settings: %v", err)
		return models.UserSettings{}, errors.NewInternalError(err)
	}
	return settings, nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID int64, patch models.SettingsPatch) (models.UserSettings, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating settings: user_id=%d", userID)

	if err := validate.Struct(patch); err != nil {
		return models.UserSettings{}, err
	}
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return models.UserSettings{}, err
	}
	if patch.StudyMode != nil {
		settings.StudyMode = *patch.StudyMode
	}
	if patch.Theme != nil {
		settings.Theme = *patch.Theme
	}
	if patch.FontSize != nil {
		settings.FontSize = *patch.FontSize
	}
	if patch.ThemeColor != nil {
		settings.ThemeColor = strings.ToLower(*patch.ThemeColor)
	}
	if err := s.users.UpsertSettings(ctx, settings); err != nil {
		log.Error("failed to save settings: %v", err)
		return models.UserSettings{}, errors.NewInternalError(err)
	}
	return settings, nil
}
