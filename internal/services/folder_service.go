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

// FolderService handles folder business logic
type FolderService interface {
	Create(ctx context.Context, userID int64, in models.FolderInput) (*models.Folder, error)
	Get(ctx context.Context, userID, id int64) (*models.Folder, error)
	List(ctx context.Context, userID int64) ([]models.Folder, error)
	Update(ctx context.Context, userID, id int64, in models.FolderInput) (*models.Folder, error)
	Delete(ctx context.Context, userID, id int64) error
}

type folderService struct {
	folders repository.FolderRepository
}

// NewFolderService creates a new FolderService
func NewFolderService(folders repository.FolderRepository) FolderService {
	return &folderService{folders: folders}
}

func (s *folderService) Create(ctx context.Context, userID int64, in models.FolderInput) (*models.Folder, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating folder: user_id=%d", userID)

	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	folder, err := s.folders.Create(ctx, models.Folder{UserID: userID, Name: in.Name, Description: in.Description})
	if err != nil {
		log.Error("failed to create folder: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return folder, nil
}

func (s *folderService) Get(ctx context.Context, userID, id int64) (*models.Folder, error) {
	logger.FromContext(ctx).Debug("getting folder: id=%d", id)
	return ownedFolder(ctx, s.folders, userID, id, policy.ActionView)
}

func (s *folderService) List(ctx context.Context, userID int64) ([]models.Folder, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing folders: user_id=%d", userID)

	folders, err := s.folders.List(ctx, userID)
	if err != nil {
		log.Error("failed to list folders: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return folders, nil
}

func (s *folderService) Update(ctx context.Context, userID, id int64, in models.FolderInput) (*models.Folder, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating folder: id=%d", id)

	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	folder, err := ownedFolder(ctx, s.folders, userID, id, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	folder.Name = in.Name
	folder.Description = in.Description
	if err := s.folders.Update(ctx, *folder); err != nil {
		return nil, repoError(err, "folder", id)
	}
	return folder, nil
}

func (s *folderService) Delete(ctx context.Context, userID, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting folder: id=%d", id)

	if _, err := ownedFolder(ctx, s.folders, userID, id, policy.ActionDelete); err != nil {
		return err
	}
	if err := s.folders.Delete(ctx, id); err != nil {
		return repoError(err, "folder", id)
	}
	return nil
}
