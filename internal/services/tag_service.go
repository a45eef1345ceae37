package services

import (
	"context"
	"strings"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/policy"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/validate"
)

// TagService handles tag business logic
type TagService interface {
	Create(ctx context.Context, userID int64, in models.TagInput) (*models.Tag, error)
	List(ctx context.Context, userID int64) ([]models.Tag, error)
	Rename(ctx context.Context, userID, id int64, in models.TagInput) (*models.Tag, error)
	Delete(ctx context.Context, userID, id int64) error
}

type tagService struct {
	tags repository.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(tags repository.TagRepository) TagService {
	return &tagService{tags: tags}
}

func (s *tagService) Create(ctx context.Context, userID int64, in models.TagInput) (*models.Tag, error) {
	log := logger.FromContext(ctx)
	in.Name = strings.TrimSpace(in.Name)
	log.Debug("creating tag: user_id=%d, name=%s", userID, in.Name)

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	tag, err := s.tags.Create(ctx, models.Tag{UserID: userID, Name: in.Name})
	if err != nil {
		return nil, repoError(err, "tag", in.Name)
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context, userID int64) ([]models.Tag, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing tags: user_id=%d", userID)

	tags, err := s.tags.List(ctx, userID)
	if err != nil {
		log.Error("failed to list tags: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return tags, nil
}

func (s *tagService) Rename(ctx context.Context, userID, id int64, in models.TagInput) (*models.Tag, error) {
	log := logger.FromContext(ctx)
	in.Name = strings.TrimSpace(in.Name)
	log.Debug("renaming tag: id=%d, name=%s", id, in.Name)

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	tag, err := ownedTag(ctx, s.tags, userID, id, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Rename(ctx, id, in.Name); err != nil {
		return nil, repoError(err, "tag", in.Name)
	}
	tag.Name = in.Name
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, userID, id int64) error {
	logger.FromContext(ctx).Debug("deleting tag: id=%d", id)

	if _, err := ownedTag(ctx, s.tags, userID, id, policy.ActionDelete); err != nil {
		return err
	}
	if err := s.tags.Delete(ctx, id); err != nil {
		return repoError(err, "tag", id)
	}
	return nil
}
